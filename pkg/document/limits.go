package document

import (
	"unicode/utf8"

	"github.com/matzehuels/canopy/pkg/diagram"
)

// Default import limits.
const (
	DefaultMaxNodes        = 1000
	DefaultMaxPayloadBytes = 5 << 20
	DefaultMaxTextLen      = 500
	DefaultMaxNotesLen     = 2000
	DefaultMaxTitleLen     = 100
	DefaultMaxMetaKeyLen   = 100
	DefaultMaxMetaValueLen = 1000
	DefaultMaxTagLen       = 100
)

// Limits bounds what [Decoder.Decode] accepts. Node count and payload size
// abort the decode; the length limits truncate. Lengths count runes.
type Limits struct {
	MaxNodes        int `toml:"max_nodes" validate:"gte=1"`
	MaxPayloadBytes int `toml:"max_payload_bytes" validate:"gte=1"`
	MaxTextLen      int `toml:"max_text_len" validate:"gte=1"`
	MaxNotesLen     int `toml:"max_notes_len" validate:"gte=1"`
	MaxTitleLen     int `toml:"max_title_len" validate:"gte=1"`
	MaxMetaKeyLen   int `toml:"max_meta_key_len" validate:"gte=1"`
	MaxMetaValueLen int `toml:"max_meta_value_len" validate:"gte=1"`
	MaxTagLen       int `toml:"max_tag_len" validate:"gte=1"`
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{
		MaxNodes:        DefaultMaxNodes,
		MaxPayloadBytes: DefaultMaxPayloadBytes,
		MaxTextLen:      DefaultMaxTextLen,
		MaxNotesLen:     DefaultMaxNotesLen,
		MaxTitleLen:     DefaultMaxTitleLen,
		MaxMetaKeyLen:   DefaultMaxMetaKeyLen,
		MaxMetaValueLen: DefaultMaxMetaValueLen,
		MaxTagLen:       DefaultMaxTagLen,
	}
}

// WithDefaults fills zero fields from DefaultLimits.
func (l Limits) WithDefaults() Limits {
	def := DefaultLimits()
	fill := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&l.MaxNodes, def.MaxNodes)
	fill(&l.MaxPayloadBytes, def.MaxPayloadBytes)
	fill(&l.MaxTextLen, def.MaxTextLen)
	fill(&l.MaxNotesLen, def.MaxNotesLen)
	fill(&l.MaxTitleLen, def.MaxTitleLen)
	fill(&l.MaxMetaKeyLen, def.MaxMetaKeyLen)
	fill(&l.MaxMetaValueLen, def.MaxMetaValueLen)
	fill(&l.MaxTagLen, def.MaxTagLen)
	return l
}

// Truncate shortens s to at most n runes. It reports whether s was cut.
func Truncate(s string, n int) (string, bool) {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}

// Clamp truncates the text, notes, metadata and tags of n to the length
// limits, the same way decoding does, and reports whether anything was cut.
func (l Limits) Clamp(n *diagram.Node) bool {
	l = l.WithDefaults()
	var cut, c bool
	n.Text, c = Truncate(n.Text, l.MaxTextLen)
	cut = cut || c
	n.Notes, c = Truncate(n.Notes, l.MaxNotesLen)
	cut = cut || c

	meta := make(map[string]string, len(n.Metadata))
	metaCut := false
	for k, v := range n.Metadata {
		tk, kc := Truncate(k, l.MaxMetaKeyLen)
		tv, vc := Truncate(v, l.MaxMetaValueLen)
		metaCut = metaCut || kc || vc
		meta[tk] = tv
	}
	if metaCut {
		n.Metadata = meta
		cut = true
	}

	for i, tag := range n.Tags {
		n.Tags[i], c = Truncate(tag, l.MaxTagLen)
		cut = cut || c
	}
	return cut
}
