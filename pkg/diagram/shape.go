package diagram

import "strings"

// Shape is the outline drawn for a node. The set is closed; hit testing and
// bounds code switch over every variant.
type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeRounded
	ShapeCircle
	ShapeDiamond
	ShapeHexagon
	ShapeCloud
)

var shapeNames = [...]string{
	ShapeRectangle: "rectangle",
	ShapeRounded:   "rounded",
	ShapeCircle:    "circle",
	ShapeDiamond:   "diamond",
	ShapeHexagon:   "hexagon",
	ShapeCloud:     "cloud",
}

// Shapes lists every shape in declaration order.
func Shapes() []Shape {
	return []Shape{ShapeRectangle, ShapeRounded, ShapeCircle, ShapeDiamond, ShapeHexagon, ShapeCloud}
}

// String returns the wire name of the shape ("rounded", "cloud", ...).
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// Valid reports whether s is one of the declared shapes.
func (s Shape) Valid() bool {
	return s >= 0 && int(s) < len(shapeNames)
}

// ParseShape converts a wire name to a Shape. Matching is case-insensitive.
// The second result is false for unknown names.
func ParseShape(name string) (Shape, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), true
		}
	}
	return ShapeRectangle, false
}
