// Package hittest answers point and box queries over a diagram's nodes.
//
// All queries are in world coordinates; convert pointer positions with
// viewport.Viewport.ScreenToWorld first. Queries never mutate the diagram.
//
// Every shape is tested against its axis-aligned bounding rectangle, so a
// click on the corner of a circle's box still hits the circle. Edges are
// inclusive.
package hittest

import (
	"fmt"

	"github.com/matzehuels/canopy/pkg/diagram"
)

// Bounds returns the hit rectangle of a node.
func Bounds(n *diagram.Node) diagram.Rect {
	switch n.Shape {
	case diagram.ShapeRectangle,
		diagram.ShapeRounded,
		diagram.ShapeCircle,
		diagram.ShapeDiamond,
		diagram.ShapeHexagon,
		diagram.ShapeCloud:
		return n.Bounds()
	default:
		panic(fmt.Sprintf("hittest: unhandled shape %d", n.Shape))
	}
}

// Contains reports whether p lies within the node's hit rectangle.
func Contains(n *diagram.Node, p diagram.Point) bool {
	return Bounds(n).Contains(p)
}

// NodeAt returns the topmost node containing p. Nodes are tested in reverse
// paint order.
func NodeAt(d *diagram.Diagram, p diagram.Point) (*diagram.Node, bool) {
	nodes := d.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if Contains(nodes[i], p) {
			return nodes[i], true
		}
	}
	return nil, false
}

// NodesAt returns every node containing p, topmost first.
func NodesAt(d *diagram.Diagram, p diagram.Point) []*diagram.Node {
	var out []*diagram.Node
	nodes := d.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if Contains(nodes[i], p) {
			out = append(out, nodes[i])
		}
	}
	return out
}

// SelectBox returns the nodes whose bounds lie entirely inside box, in paint
// order. Nodes that merely intersect the box are not selected.
func SelectBox(d *diagram.Diagram, box diagram.Rect) []*diagram.Node {
	var out []*diagram.Node
	for _, n := range d.Nodes() {
		if box.ContainsRect(Bounds(n)) {
			out = append(out, n)
		}
	}
	return out
}
