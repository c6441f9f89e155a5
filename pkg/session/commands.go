package session

import (
	"math"
	"strings"

	"github.com/matzehuels/canopy/pkg/diagram"
	"github.com/matzehuels/canopy/pkg/document"
	errs "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/palette"
)

// =============================================================================
// Node lifecycle
// =============================================================================

// checkCapacity fails with LIMIT_EXCEEDED when adding n nodes would pass
// the node limit.
func (s *Session) checkCapacity(n int) error {
	if got := s.d.Len() + n; got > s.limits.MaxNodes {
		return errs.Limit("nodes", s.limits.MaxNodes, got)
	}
	return nil
}

// finite reports whether every value is a real number. Documents cannot
// hold NaN or infinities.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// checkNode rejects values a document cannot hold, so every committed state
// survives a snapshot round trip.
func checkNode(n *diagram.Node) error {
	switch {
	case !finite(n.X, n.Y, n.Width, n.Height, n.FontSize, n.BorderWidth):
		return errs.New(errs.ErrCodeValidation, "node %q: position and sizes must be finite", n.ID)
	case n.Width <= 0 || n.Height <= 0:
		return errs.New(errs.ErrCodeValidation, "node %q: width and height must be positive", n.ID)
	case n.FontSize <= 0:
		return errs.New(errs.ErrCodeValidation, "node %q: font size must be positive", n.ID)
	case n.BorderWidth < 0:
		return errs.New(errs.ErrCodeValidation, "node %q: border width must not be negative", n.ID)
	case !n.Shape.Valid():
		return errs.New(errs.ErrCodeValidation, "node %q: unknown shape %d", n.ID, int(n.Shape))
	}
	for _, c := range []string{n.Color, n.TextColor, n.BorderColor} {
		if !palette.Valid(c) {
			return errs.New(errs.ErrCodeValidation, "node %q: invalid color %q", n.ID, c)
		}
	}
	return nil
}

func (s *Session) text(t string) string {
	if strings.TrimSpace(t) == "" {
		return DefaultText
	}
	out, _ := document.Truncate(t, s.limits.MaxTextLen)
	return out
}

// AddNode creates a root node centered at (x, y) in world coordinates.
func (s *Session) AddNode(text string, x, y float64) (*diagram.Node, error) {
	const cmd = "add_node"
	if !finite(x, y) {
		return nil, s.reject(cmd, errs.New(errs.ErrCodeValidation, "position (%v, %v) is not finite", x, y))
	}
	if err := s.checkCapacity(1); err != nil {
		return nil, s.reject(cmd, err)
	}
	n := diagram.NewNode(s.text(text), x, y)
	if err := s.d.AddNode(n); err != nil {
		return nil, s.reject(cmd, err)
	}
	if err := s.commit(cmd); err != nil {
		return nil, err
	}
	return n, nil
}

// AddChildNode creates a node below parentID and connects it as the last
// child. Its color comes from the generation memo for its depth, seeded by
// the color of the tree's root.
func (s *Session) AddChildNode(parentID, text string) (*diagram.Node, error) {
	const cmd = "add_child"
	parent, ok := s.d.Node(parentID)
	if !ok {
		return nil, s.reject(cmd, errs.Wrap(errs.ErrCodeNodeNotFound, diagram.ErrUnknownNode, "parent %q", parentID))
	}
	if err := s.checkCapacity(1); err != nil {
		return nil, s.reject(cmd, err)
	}

	k := float64(len(s.d.Children(parentID)))
	n := diagram.NewNode(s.text(text),
		parent.X+k*layout.VerticalSiblingSpacing,
		parent.Y+layout.VerticalLevelSpacing)

	root, _ := s.d.Node(s.d.Root(parentID))
	n.Color = s.gens.ColorFor(s.d.Depth(parentID)+1, root.Color)
	n.TextColor = palette.TextColorFor(n.Color)

	if err := s.d.AddNode(n); err != nil {
		return nil, s.reject(cmd, err)
	}
	if err := s.d.Connect(parentID, n.ID); err != nil {
		// Unreachable for a fresh node; undo the add to stay atomic.
		s.d.RemoveNode(n.ID)
		return nil, s.reject(cmd, err)
	}
	if err := s.commit(cmd); err != nil {
		return nil, err
	}
	return n, nil
}

// RemoveNode deletes id and its whole subtree and returns the removed ids in
// pre-order. Unknown ids are a no-op and record nothing.
func (s *Session) RemoveNode(id string) []string {
	removed := s.d.RemoveNode(id)
	if removed == nil {
		return nil
	}
	if s.commit("remove_node") != nil {
		return nil
	}
	return removed
}

// RemoveSelected deletes every selected node with its subtree as one
// command.
func (s *Session) RemoveSelected() []string {
	var removed []string
	for _, id := range s.Selection() {
		removed = append(removed, s.d.RemoveNode(id)...)
	}
	if len(removed) == 0 {
		return nil
	}
	if s.commit("remove_selected") != nil {
		return nil
	}
	return removed
}

// Duplicate adds a detached clone of id, offset by diagram.CloneOffset.
func (s *Session) Duplicate(id string) (*diagram.Node, error) {
	const cmd = "duplicate"
	n, ok := s.d.Node(id)
	if !ok {
		return nil, s.reject(cmd, errs.Wrap(errs.ErrCodeNodeNotFound, diagram.ErrUnknownNode, "node %q", id))
	}
	if err := s.checkCapacity(1); err != nil {
		return nil, s.reject(cmd, err)
	}
	c := n.Clone()
	if err := s.d.AddNode(c); err != nil {
		return nil, s.reject(cmd, err)
	}
	if err := s.commit(cmd); err != nil {
		return nil, err
	}
	return c, nil
}

// =============================================================================
// Hierarchy
// =============================================================================

// Connect makes child a child of parent. A child with another parent is
// reparented. Cycles and unknown ids fail and change nothing.
func (s *Session) Connect(parentID, childID string) error {
	const cmd = "connect"
	if p, ok := s.d.Parent(childID); ok && p == parentID {
		return nil
	}
	if err := s.d.Connect(parentID, childID); err != nil {
		return s.reject(cmd, err)
	}
	return s.commit(cmd)
}

// Disconnect removes the direct edge between a and b, in either direction.
// Non-adjacent pairs are a silent no-op.
func (s *Session) Disconnect(a, b string) bool {
	if !s.d.Disconnect(a, b) {
		return false
	}
	return s.commit("disconnect") == nil
}

// =============================================================================
// Geometry
// =============================================================================

// MoveNode sets the center of id. Unknown ids and non-finite coordinates
// change nothing and report false.
func (s *Session) MoveNode(id string, x, y float64) bool {
	const cmd = "move_node"
	if !finite(x, y) {
		s.reject(cmd, errs.New(errs.ErrCodeValidation, "move %q: position (%v, %v) is not finite", id, x, y))
		return false
	}
	if !s.d.MoveNode(id, x, y) {
		return false
	}
	return s.commit(cmd) == nil
}

// MoveSubtree shifts id and all of its descendants. A shift that is not
// finite, or that overflows a coordinate, changes nothing and reports false.
func (s *Session) MoveSubtree(id string, dx, dy float64) bool {
	const cmd = "move_subtree"
	if !finite(dx, dy) {
		s.reject(cmd, errs.New(errs.ErrCodeValidation, "move %q: offset (%v, %v) is not finite", id, dx, dy))
		return false
	}
	if !s.d.MoveSubtree(id, dx, dy) {
		return false
	}
	return s.commit(cmd) == nil
}

// BringToFront raises id to the top of the paint order.
func (s *Session) BringToFront(id string) bool {
	if !s.d.Has(id) {
		return false
	}
	s.d.BringToFront(id)
	return s.commit("bring_to_front") == nil
}

// =============================================================================
// Content and style
// =============================================================================

// SetText replaces the text of id, truncated to the text limit. Blank text
// is ignored.
func (s *Session) SetText(id, text string) bool {
	n, ok := s.d.Node(id)
	if !ok || strings.TrimSpace(text) == "" {
		return false
	}
	n.Text = s.text(text)
	return s.commit("set_text") == nil
}

// SetShape changes the shape of id.
func (s *Session) SetShape(id string, shape diagram.Shape) bool {
	n, ok := s.d.Node(id)
	if !ok || !shape.Valid() {
		return false
	}
	n.Shape = shape
	return s.commit("set_shape") == nil
}

// SetColor sets the fill color of id and picks a readable text color.
func (s *Session) SetColor(id, color string) error {
	const cmd = "set_color"
	n, ok := s.d.Node(id)
	if !ok {
		return s.reject(cmd, errs.Wrap(errs.ErrCodeNodeNotFound, diagram.ErrUnknownNode, "node %q", id))
	}
	if !palette.Valid(color) {
		return s.reject(cmd, errs.New(errs.ErrCodeValidation, "invalid color %q", color))
	}
	n.Color = palette.Normalize(color)
	n.TextColor = palette.TextColorFor(n.Color)
	return s.commit(cmd)
}

// ToggleCollapsed flips the collapsed flag of id.
func (s *Session) ToggleCollapsed(id string) bool {
	n, ok := s.d.Node(id)
	if !ok {
		return false
	}
	n.Collapsed = !n.Collapsed
	return s.commit("toggle_collapsed") == nil
}

// Update applies fn to id as one command labeled label. fn must not change
// the node's ID; any change is reverted. Afterwards text, notes, metadata
// and tags are truncated to their limits, colors are normalized and empty
// style names fall back to the defaults.
//
// When fn leaves a value no document can hold (a non-positive size or font
// size, a negative border width, a non-finite number, an unknown shape or
// an invalid color) the node is put back as it was and a VALIDATION_ERROR
// is returned. Nothing is recorded in that case.
func (s *Session) Update(id, label string, fn func(n *diagram.Node)) error {
	if label == "" {
		label = "update"
	}
	n, ok := s.d.Node(id)
	if !ok {
		return s.reject(label, errs.Wrap(errs.ErrCodeNodeNotFound, diagram.ErrUnknownNode, "node %q", id))
	}

	before := n.Copy()
	fn(n)
	n.ID = id
	if err := checkNode(n); err != nil {
		*n = *before
		return s.reject(label, err)
	}

	n.Text = s.text(n.Text)
	s.limits.Clamp(n)
	n.Color = palette.Normalize(n.Color)
	n.TextColor = palette.Normalize(n.TextColor)
	n.BorderColor = palette.Normalize(n.BorderColor)
	if n.BorderStyle == "" {
		n.BorderStyle = diagram.DefaultBorderStyle
	}
	if n.FontWeight == "" {
		n.FontWeight = diagram.DefaultFontWeight
	}
	return s.commit(label)
}

// SetTitle renames the document, truncated to the title limit.
func (s *Session) SetTitle(title string) {
	s.title, _ = document.Truncate(title, s.limits.MaxTitleLen)
	_ = s.commit("set_title")
}
