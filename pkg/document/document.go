package document

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/canopy/pkg/diagram"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/viewport"
)

// Version is written into every encoded document.
const Version = "1.0"

// Document is the top-level JSON object.
type Document struct {
	Version          string            `json:"version"`
	Title            string            `json:"title"`
	Nodes            []NodeRecord      `json:"nodes"`
	ViewOffset       Offset            `json:"viewOffset"`
	Zoom             float64           `json:"zoom"`
	GenerationColors map[string]string `json:"generationColors,omitempty"`

	// PaintOrder lists node ids bottom to top. Like GenerationColors it is
	// only written into history snapshots.
	PaintOrder []string `json:"paintOrder,omitempty"`
}

// Offset is the serialized viewport translation.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeRecord is one serialized node with its children nested inside.
//
// The fields after Children are optional extensions; readers that only know
// the base shape ignore them.
type NodeRecord struct {
	ID         string            `json:"id"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Text       string            `json:"text"`
	Shape      string            `json:"shape"`
	Color      string            `json:"color"`
	FontSize   float64           `json:"fontSize"`
	FontWeight string            `json:"fontWeight"`
	Icon       *string           `json:"icon"`
	Collapsed  bool              `json:"collapsed"`
	Metadata   map[string]string `json:"metadata"`
	Children   []NodeRecord      `json:"children"`

	Width       float64  `json:"width,omitempty"`
	Height      float64  `json:"height,omitempty"`
	TextColor   string   `json:"textColor,omitempty"`
	BorderStyle string   `json:"borderStyle,omitempty"`
	BorderColor string   `json:"borderColor,omitempty"`
	BorderWidth float64  `json:"borderWidth"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Links       []string `json:"links,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// State is everything a document captures.
type State struct {
	Title   string
	Diagram *diagram.Diagram
	View    viewport.Viewport

	// Generations is nil when the document carries no color assignment.
	Generations *palette.Generations

	// PaintOrder records the z-order of every node when set.
	PaintOrder bool
}

// Encode converts s to a Document. Roots are emitted in paint order; each
// node's children follow the diagram's insertion order.
func Encode(s State) *Document {
	doc := &Document{
		Version:    Version,
		Title:      s.Title,
		Nodes:      []NodeRecord{},
		ViewOffset: Offset{X: s.View.OffsetX, Y: s.View.OffsetY},
		Zoom:       s.View.Zoom,
	}
	if doc.Zoom == 0 {
		doc.Zoom = 1
	}
	if s.Diagram != nil {
		seen := make(map[string]bool, s.Diagram.Len())
		for _, r := range s.Diagram.Roots() {
			doc.Nodes = append(doc.Nodes, encodeNode(s.Diagram, r, seen))
		}
	}
	if s.PaintOrder && s.Diagram != nil {
		for _, n := range s.Diagram.Nodes() {
			doc.PaintOrder = append(doc.PaintOrder, n.ID)
		}
	}
	if s.Generations != nil {
		doc.GenerationColors = make(map[string]string, s.Generations.Len())
		for depth, c := range s.Generations.Map() {
			doc.GenerationColors[strconv.Itoa(depth)] = c
		}
	}
	return doc
}

func encodeNode(d *diagram.Diagram, n *diagram.Node, seen map[string]bool) NodeRecord {
	seen[n.ID] = true
	rec := NodeRecord{
		ID:          n.ID,
		X:           n.X,
		Y:           n.Y,
		Text:        n.Text,
		Shape:       n.Shape.String(),
		Color:       n.Color,
		FontSize:    n.FontSize,
		FontWeight:  n.FontWeight,
		Icon:        cloneIcon(n.Icon),
		Collapsed:   n.Collapsed,
		Metadata:    maps.Clone(n.Metadata),
		Children:    []NodeRecord{},
		Width:       n.Width,
		Height:      n.Height,
		TextColor:   n.TextColor,
		BorderStyle: n.BorderStyle,
		BorderColor: n.BorderColor,
		BorderWidth: n.BorderWidth,
		Notes:       n.Notes,
		Tags:        slices.Clone(n.Tags),
		Links:       slices.Clone(n.Links),
		Attachments: slices.Clone(n.Attachments),
	}
	if rec.Metadata == nil {
		rec.Metadata = map[string]string{}
	}
	for _, c := range d.ChildNodes(n.ID) {
		if seen[c.ID] {
			continue
		}
		rec.Children = append(rec.Children, encodeNode(d, c, seen))
	}
	return rec
}

func cloneIcon(icon *string) *string {
	if icon == nil {
		return nil
	}
	c := *icon
	return &c
}

// Marshal encodes s as compact JSON.
func Marshal(s State) ([]byte, error) {
	return json.Marshal(Encode(s))
}

// MarshalIndent encodes s as indented JSON for files meant to be read.
func MarshalIndent(s State) ([]byte, error) {
	return json.MarshalIndent(Encode(s), "", "  ")
}

// Count returns the number of node records in the document, nested ones
// included.
func (d *Document) Count() int {
	var walk func([]NodeRecord) int
	walk = func(recs []NodeRecord) int {
		n := len(recs)
		for _, r := range recs {
			n += walk(r.Children)
		}
		return n
	}
	return walk(d.Nodes)
}
