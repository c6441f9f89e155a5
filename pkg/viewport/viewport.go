// Package viewport maps between world and screen coordinates.
//
// A [Viewport] is a screen-space translation (OffsetX, OffsetY) plus a
// uniform zoom factor:
//
//	screen = world*zoom + offset
//	world  = (screen - offset) / zoom
//
// Zoom is clamped to [MinZoom, MaxZoom] after every change. The type is a
// small value; methods that change it use pointer receivers, queries use
// value receivers.
package viewport

import (
	"math"

	"github.com/matzehuels/canopy/pkg/diagram"
)

const (
	MinZoom = 0.1
	MaxZoom = 3.0

	// FitPadding is the world-space margin kept around the content by Fit.
	FitPadding = 50.0
)

// Viewport is the pan/zoom state of the editor.
type Viewport struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64
}

// New returns the identity viewport.
func New() Viewport {
	return Viewport{Zoom: 1}
}

// ClampZoom limits z to [MinZoom, MaxZoom]. NaN and non-positive values map
// to MinZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || z < MinZoom {
		return MinZoom
	}
	return math.Min(z, MaxZoom)
}

// WorldToScreen converts a world point to screen pixels.
func (v Viewport) WorldToScreen(p diagram.Point) diagram.Point {
	return diagram.Point{
		X: p.X*v.Zoom + v.OffsetX,
		Y: p.Y*v.Zoom + v.OffsetY,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (v Viewport) ScreenToWorld(p diagram.Point) diagram.Point {
	z := v.zoom()
	return diagram.Point{
		X: (p.X - v.OffsetX) / z,
		Y: (p.Y - v.OffsetY) / z,
	}
}

// ScreenRectToWorld converts a screen-space rectangle (for example a drag
// selection box) to world space.
func (v Viewport) ScreenRectToWorld(r diagram.Rect) diagram.Rect {
	return diagram.RectFromPoints(
		v.ScreenToWorld(diagram.Point{X: r.MinX, Y: r.MinY}),
		v.ScreenToWorld(diagram.Point{X: r.MaxX, Y: r.MaxY}),
	)
}

// zoom guards against a zero-value Viewport.
func (v Viewport) zoom() float64 {
	if v.Zoom == 0 {
		return 1
	}
	return v.Zoom
}

// SetZoom sets the zoom (clamped) without moving the offset.
func (v *Viewport) SetZoom(z float64) {
	v.Zoom = ClampZoom(z)
}

// ZoomAt multiplies the zoom by factor, keeping the world point under the
// screen point anchor fixed on screen.
func (v *Viewport) ZoomAt(factor float64, anchor diagram.Point) {
	v.ZoomTo(v.zoom()*factor, anchor)
}

// ZoomTo sets an absolute zoom anchored at a screen point.
func (v *Viewport) ZoomTo(z float64, anchor diagram.Point) {
	world := v.ScreenToWorld(anchor)
	v.Zoom = ClampZoom(z)
	v.OffsetX = anchor.X - world.X*v.Zoom
	v.OffsetY = anchor.Y - world.Y*v.Zoom
}

// Pan translates the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// Fit centers bounds on a screen of the given size. Zoom is the smaller of
// the two axis scale factors after padding, never more than 1, then clamped.
// Degenerate screens leave the viewport unchanged.
func (v *Viewport) Fit(bounds diagram.Rect, screenW, screenH float64) {
	if screenW <= 0 || screenH <= 0 {
		return
	}
	padded := bounds.Inflate(FitPadding)
	z := 1.0
	if w := padded.Width(); w > 0 {
		z = math.Min(z, screenW/w)
	}
	if h := padded.Height(); h > 0 {
		z = math.Min(z, screenH/h)
	}
	v.Zoom = ClampZoom(z)

	c := bounds.Center()
	v.OffsetX = screenW/2 - c.X*v.Zoom
	v.OffsetY = screenH/2 - c.Y*v.Zoom
}

// Visible returns the world-space rectangle shown on a screen of the given
// size.
func (v Viewport) Visible(screenW, screenH float64) diagram.Rect {
	return v.ScreenRectToWorld(diagram.Rect{MaxX: screenW, MaxY: screenH})
}
