package cache

// ScopedKeyer wraps a Keyer with a prefix so several tools or users can share
// one Redis instance without colliding.
//
// Example usage:
//
//	// Per-project keys on a shared cache
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "canopy:roadmap:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(structureHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(structureHash, opts)
}

// StatsKey generates a prefixed key for inspect summaries.
func (k *ScopedKeyer) StatsKey(documentHash string) string {
	return k.prefix + k.inner.StatsKey(documentHash)
}
