package hittest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/canopy/pkg/diagram"
)

func addNode(t *testing.T, d *diagram.Diagram, id string, x, y float64, shape diagram.Shape) *diagram.Node {
	t.Helper()
	n := diagram.NewNode(id, x, y)
	n.ID = id
	n.Shape = shape
	require.NoError(t, d.AddNode(n))
	return n
}

func TestContainsEdges(t *testing.T) {
	n := diagram.NewNode("r", 0, 0) // 180 x 70

	tests := []struct {
		name string
		p    diagram.Point
		want bool
	}{
		{"Center", diagram.Point{X: 0, Y: 0}, true},
		{"RightEdge", diagram.Point{X: 90, Y: 0}, true},
		{"TopLeftCorner", diagram.Point{X: -90, Y: -35}, true},
		{"BottomEdge", diagram.Point{X: 10, Y: 35}, true},
		{"OneOutsideRight", diagram.Point{X: 91, Y: 0}, false},
		{"OneOutsideTop", diagram.Point{X: 0, Y: -36}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(n, tt.p))
		})
	}
}

func TestEveryShapeUsesBoundingBox(t *testing.T) {
	corner := diagram.Point{X: 89, Y: 34}
	for _, s := range diagram.Shapes() {
		n := diagram.NewNode("n", 0, 0)
		n.Shape = s
		assert.True(t, Contains(n, corner), "shape %s", s)
	}
}

func TestUnknownShapePanics(t *testing.T) {
	n := diagram.NewNode("n", 0, 0)
	n.Shape = diagram.Shape(99)
	assert.Panics(t, func() { Bounds(n) })
}

func TestNodeAtPrefersTopmost(t *testing.T) {
	d := diagram.New()
	addNode(t, d, "bottom", 0, 0, diagram.ShapeRectangle)
	addNode(t, d, "top", 50, 0, diagram.ShapeCircle)

	n, ok := NodeAt(d, diagram.Point{X: 60, Y: 0})
	require.True(t, ok)
	assert.Equal(t, "top", n.ID)

	n, ok = NodeAt(d, diagram.Point{X: -80, Y: 0})
	require.True(t, ok)
	assert.Equal(t, "bottom", n.ID)

	d.BringToFront("bottom")
	n, _ = NodeAt(d, diagram.Point{X: 60, Y: 0})
	assert.Equal(t, "bottom", n.ID)

	_, ok = NodeAt(d, diagram.Point{X: 1000, Y: 1000})
	assert.False(t, ok)

	all := NodesAt(d, diagram.Point{X: 60, Y: 0})
	require.Len(t, all, 2)
	assert.Equal(t, "bottom", all[0].ID)
}

func TestSelectBoxRequiresFullContainment(t *testing.T) {
	d := diagram.New()
	addNode(t, d, "inside", 0, 0, diagram.ShapeRounded)
	addNode(t, d, "partial", 200, 0, diagram.ShapeDiamond)
	addNode(t, d, "outside", 1000, 0, diagram.ShapeHexagon)

	box := diagram.Rect{MinX: -90, MinY: -35, MaxX: 250, MaxY: 35}
	got := SelectBox(d, box)
	require.Len(t, got, 1)
	assert.Equal(t, "inside", got[0].ID)

	assert.Empty(t, SelectBox(diagram.New(), box))
}
