package diagram

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Default geometry and styling applied by [NewNode].
const (
	DefaultWidth       = 180.0
	DefaultHeight      = 70.0
	DefaultFontSize    = 14.0
	DefaultBorderWidth = 2.0
	DefaultColor       = "#4f46e5"
	DefaultTextColor   = "#ffffff"
	DefaultBorderColor = "#312e81"
	DefaultBorderStyle = "solid"
	DefaultFontWeight  = "normal"

	// CloneOffset is added to both axes when a node is cloned so the copy
	// does not sit exactly on top of the original.
	CloneOffset = 20.0
)

// Node is a single diagram entity. Its position is the center of its
// bounding box in world coordinates.
//
// Hierarchy is not stored on the node; ask the owning [Diagram] via
// [Diagram.Parent] and [Diagram.Children].
type Node struct {
	ID string

	X, Y          float64
	Width, Height float64

	Shape       Shape
	Color       string
	TextColor   string
	BorderStyle string
	BorderColor string
	BorderWidth float64
	FontSize    float64
	FontWeight  string
	Icon        *string // nil when no icon is set

	Text        string
	Notes       string
	Metadata    map[string]string
	Tags        []string
	Links       []string
	Attachments []string

	Collapsed bool

	// Not persisted.
	Selected bool
	FX, FY   float64
}

// NewID returns a fresh node identifier.
func NewID() string {
	return uuid.NewString()
}

// NewNode creates a detached node centered at (x, y) with default styling
// and a fresh id.
func NewNode(text string, x, y float64) *Node {
	return &Node{
		ID:          NewID(),
		X:           x,
		Y:           y,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Shape:       ShapeRounded,
		Color:       DefaultColor,
		TextColor:   DefaultTextColor,
		BorderStyle: DefaultBorderStyle,
		BorderColor: DefaultBorderColor,
		BorderWidth: DefaultBorderWidth,
		FontSize:    DefaultFontSize,
		FontWeight:  DefaultFontWeight,
		Text:        text,
		Metadata:    map[string]string{},
	}
}

// Bounds returns the axis-aligned bounding box (x ± width/2, y ± height/2).
func (n *Node) Bounds() Rect {
	hw, hh := n.Width/2, n.Height/2
	return Rect{MinX: n.X - hw, MinY: n.Y - hh, MaxX: n.X + hw, MaxY: n.Y + hh}
}

// Center returns the node position as a Point.
func (n *Node) Center() Point {
	return Point{X: n.X, Y: n.Y}
}

// HasIcon reports whether an icon identifier is set.
func (n *Node) HasIcon() bool { return n.Icon != nil }

// SetIcon sets the icon identifier. An empty name clears it.
func (n *Node) SetIcon(name string) {
	if name == "" {
		n.Icon = nil
		return
	}
	n.Icon = &name
}

// Clone returns a detached copy with a fresh id, shifted by [CloneOffset]
// on both axes. Styling and content are copied; hierarchy, selection and
// force accumulators are not.
func (n *Node) Clone() *Node {
	c := n.Copy()
	c.ID = NewID()
	c.X += CloneOffset
	c.Y += CloneOffset
	c.Selected = false
	c.FX, c.FY = 0, 0
	return c
}

// Copy returns a deep copy that keeps the id. Hierarchy lives in the
// owning diagram and is not part of the copy.
func (n *Node) Copy() *Node {
	c := *n
	if n.Icon != nil {
		icon := *n.Icon
		c.Icon = &icon
	}
	c.Metadata = maps.Clone(n.Metadata)
	if c.Metadata == nil {
		c.Metadata = map[string]string{}
	}
	c.Tags = slices.Clone(n.Tags)
	c.Links = slices.Clone(n.Links)
	c.Attachments = slices.Clone(n.Attachments)
	return &c
}
