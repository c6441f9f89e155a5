package session

import (
	"time"

	"github.com/matzehuels/canopy/pkg/diagram"
	"github.com/matzehuels/canopy/pkg/hittest"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/observability"
)

// =============================================================================
// Layout
// =============================================================================

// AutoLayout applies tree layout when the diagram has a single root and
// force-directed layout otherwise.
func (s *Session) AutoLayout() (layout.Kind, error) {
	opts := s.layout
	opts.Kind = layout.KindAuto
	opts.Root = ""
	return s.ApplyLayout(opts)
}

// ApplyLayout runs the layout selected by opts and records one snapshot.
// An empty diagram is left alone and records nothing.
func (s *Session) ApplyLayout(opts layout.Options) (layout.Kind, error) {
	const cmd = "layout"
	if s.d.Len() == 0 {
		return opts.Kind, nil
	}
	start := time.Now()
	kind, err := layout.Apply(s.d, opts)
	if err != nil {
		return kind, s.reject(cmd, err)
	}
	observability.Editor().OnLayout(kind.String(), s.d.Len(), time.Since(start))
	if err := s.commit(cmd); err != nil {
		return kind, err
	}
	return kind, nil
}

// =============================================================================
// Viewport
// =============================================================================

// FitToScreen zooms and pans so every node fits a screen of w by h pixels.
// It reports false for an empty diagram or a screen size that is not finite.
func (s *Session) FitToScreen(w, h float64) bool {
	b, ok := s.d.Bounds()
	if !ok || !finite(w, h) {
		return false
	}
	s.view.Fit(b, w, h)
	return true
}

// ZoomAt scales the zoom by factor, keeping the world point under the
// screen point (sx, sy) fixed. Non-finite arguments are ignored.
func (s *Session) ZoomAt(factor, sx, sy float64) {
	if !finite(factor, sx, sy) {
		return
	}
	s.view.ZoomAt(factor, diagram.Point{X: sx, Y: sy})
}

// Pan moves the view by (dx, dy) screen pixels. Non-finite offsets are
// ignored.
func (s *Session) Pan(dx, dy float64) {
	if !finite(dx, dy) {
		return
	}
	s.view.Pan(dx, dy)
}

// =============================================================================
// Selection
// =============================================================================

// SelectAt selects the topmost node under the screen point, replacing the
// selection. A miss clears the selection.
func (s *Session) SelectAt(sx, sy float64) (*diagram.Node, bool) {
	s.ClearSelection()
	n, ok := hittest.NodeAt(s.d, s.view.ScreenToWorld(diagram.Point{X: sx, Y: sy}))
	if ok {
		n.Selected = true
	}
	return n, ok
}

// SelectBox selects every node whose bounds lie fully inside the screen
// rectangle, replacing the selection.
func (s *Session) SelectBox(screen diagram.Rect) []*diagram.Node {
	s.ClearSelection()
	hits := hittest.SelectBox(s.d, s.view.ScreenRectToWorld(screen))
	for _, n := range hits {
		n.Selected = true
	}
	return hits
}

// Select adds id to the selection.
func (s *Session) Select(id string) bool {
	n, ok := s.d.Node(id)
	if ok {
		n.Selected = true
	}
	return ok
}

// ClearSelection deselects every node.
func (s *Session) ClearSelection() {
	for _, n := range s.d.Nodes() {
		n.Selected = false
	}
}

// Selection returns the ids of selected nodes in paint order.
func (s *Session) Selection() []string {
	var ids []string
	for _, n := range s.d.Nodes() {
		if n.Selected {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
