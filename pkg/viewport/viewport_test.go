package viewport

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/canopy/pkg/diagram"
)

const eps = 1e-9

func TestRoundTrip(t *testing.T) {
	views := []Viewport{
		New(),
		{OffsetX: 120, OffsetY: -40, Zoom: 2.5},
		{OffsetX: -3.5, OffsetY: 7.25, Zoom: 0.1},
	}
	points := []diagram.Point{{X: 0, Y: 0}, {X: 100, Y: -250}, {X: -0.5, Y: 1e4}}

	for _, v := range views {
		for _, p := range points {
			s := v.WorldToScreen(p)
			back := v.ScreenToWorld(s)
			assert.InDelta(t, p.X, back.X, 1e-6)
			assert.InDelta(t, p.Y, back.Y, 1e-6)
		}
	}
}

func TestWorldToScreen(t *testing.T) {
	v := Viewport{OffsetX: 10, OffsetY: 20, Zoom: 2}
	got := v.WorldToScreen(diagram.Point{X: 5, Y: -5})
	assert.Equal(t, diagram.Point{X: 20, Y: 10}, got)
}

func TestClampZoom(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1, 1},
		{0.05, MinZoom},
		{0, MinZoom},
		{-2, MinZoom},
		{10, MaxZoom},
		{math.NaN(), MinZoom},
		{math.Inf(1), MaxZoom},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampZoom(tt.in), "ClampZoom(%v)", tt.in)
	}
}

func TestZoomAtKeepsAnchorFixed(t *testing.T) {
	v := Viewport{OffsetX: 33, OffsetY: -12, Zoom: 1}
	anchor := diagram.Point{X: 400, Y: 300}
	before := v.ScreenToWorld(anchor)

	for _, f := range []float64{1.25, 1.25, 0.5, 10, 0.001} {
		v.ZoomAt(f, anchor)
		after := v.ScreenToWorld(anchor)
		require.InDelta(t, before.X, after.X, 1e-6)
		require.InDelta(t, before.Y, after.Y, 1e-6)
		require.GreaterOrEqual(t, v.Zoom, MinZoom)
		require.LessOrEqual(t, v.Zoom, MaxZoom)
	}
}

func TestZoomAtClamps(t *testing.T) {
	v := New()
	v.ZoomAt(100, diagram.Point{})
	assert.Equal(t, MaxZoom, v.Zoom)
	v.ZoomAt(1e-6, diagram.Point{})
	assert.Equal(t, MinZoom, v.Zoom)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name     string
		bounds   diagram.Rect
		w, h     float64
		wantZoom float64
	}{
		{
			name:     "SmallContentNeverZoomsIn",
			bounds:   diagram.Rect{MinX: -90, MinY: -35, MaxX: 90, MaxY: 35},
			w:        800,
			h:        600,
			wantZoom: 1,
		},
		{
			name:     "WideContent",
			bounds:   diagram.Rect{MinX: 0, MinY: 0, MaxX: 1900, MaxY: 100},
			w:        1000,
			h:        1000,
			wantZoom: 0.5,
		},
		{
			name:     "TallContent",
			bounds:   diagram.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 3900},
			w:        1000,
			h:        1000,
			wantZoom: 0.25,
		},
		{
			name:     "HugeContentClamps",
			bounds:   diagram.Rect{MinX: 0, MinY: 0, MaxX: 1e6, MaxY: 1e6},
			w:        800,
			h:        600,
			wantZoom: MinZoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Fit(tt.bounds, tt.w, tt.h)
			assert.InDelta(t, tt.wantZoom, v.Zoom, eps)

			c := v.WorldToScreen(tt.bounds.Center())
			assert.InDelta(t, tt.w/2, c.X, 1e-6)
			assert.InDelta(t, tt.h/2, c.Y, 1e-6)

			if tt.wantZoom > MinZoom {
				// Padded content fits on screen.
				vis := v.Visible(tt.w, tt.h)
				assert.True(t, vis.ContainsRect(tt.bounds.Inflate(FitPadding-1e-6)))
			}
		})
	}
}

func TestFitDegenerateScreen(t *testing.T) {
	v := Viewport{OffsetX: 1, OffsetY: 2, Zoom: 1.5}
	v.Fit(diagram.Rect{MaxX: 10, MaxY: 10}, 0, 600)
	assert.Equal(t, Viewport{OffsetX: 1, OffsetY: 2, Zoom: 1.5}, v)
}

func TestScreenRectToWorld(t *testing.T) {
	v := Viewport{OffsetX: 100, OffsetY: 100, Zoom: 2}
	r := v.ScreenRectToWorld(diagram.Rect{MinX: 300, MinY: 100, MaxX: 100, MaxY: 300})
	assert.Equal(t, diagram.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, r)
}

func TestZeroValueIsUsable(t *testing.T) {
	var v Viewport
	p := v.ScreenToWorld(diagram.Point{X: 5, Y: 5})
	assert.Equal(t, diagram.Point{X: 5, Y: 5}, p)
}
