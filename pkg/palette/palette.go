// Package palette assigns colors to diagram generations.
//
// A generation is the depth of a node below its root. The first time a node
// is created at a given depth, [Generations.ColorFor] picks a color and
// remembers it, so every node at that depth shares one color for the
// lifetime of the diagram. The memo is plain data ([Generations.Map],
// [Generations.Restore]) so the owner can snapshot it alongside the graph.
//
// Color selection:
//
//  1. Find the fixed palette containing the root's color.
//  2. Use palette[depth] while depth is in range.
//  3. Past the palette, cycle the shared pool, skipping colors of the
//     matched palette.
//  4. If no palette contains the root color, cycle the pool by depth.
package palette

import (
	"maps"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palettes are the fixed 5-color families a root color can belong to. Index
// i is the color for depth i.
var Palettes = [][]string{
	{"#4f46e5", "#6366f1", "#818cf8", "#a5b4fc", "#c7d2fe"}, // indigo
	{"#059669", "#10b981", "#34d399", "#6ee7b7", "#a7f3d0"}, // emerald
	{"#d97706", "#f59e0b", "#fbbf24", "#fcd34d", "#fde68a"}, // amber
	{"#dc2626", "#ef4444", "#f87171", "#fca5a5", "#fecaca"}, // red
	{"#7c3aed", "#8b5cf6", "#a78bfa", "#c4b5fd", "#ddd6fe"}, // violet
}

// Pool is the shared fallback list.
var Pool = []string{
	"#4f46e5", "#059669", "#d97706", "#dc2626", "#7c3aed",
	"#0891b2", "#db2777", "#65a30d", "#ea580c", "#2563eb",
	"#0d9488", "#9333ea", "#ca8a04", "#e11d48", "#16a34a",
	"#0284c7", "#c026d3", "#4d7c0f", "#b45309", "#475569",
}

// Normalize returns the canonical lowercase "#rrggbb" form of a hex color.
// Shorthand ("#abc") is expanded. Unparseable input is returned lowercased
// and trimmed so comparisons still behave.
func Normalize(hex string) string {
	hex = strings.ToLower(strings.TrimSpace(hex))
	c, err := colorful.Hex(expandShort(hex))
	if err != nil {
		return hex
	}
	return c.Hex()
}

func expandShort(hex string) string {
	if len(hex) != 4 || hex[0] != '#' {
		return hex
	}
	return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
}

// Valid reports whether hex parses as a color.
func Valid(hex string) bool {
	_, err := colorful.Hex(expandShort(strings.ToLower(strings.TrimSpace(hex))))
	return err == nil
}

// TextColorFor returns a readable text color for the given background:
// near-black on light backgrounds, white otherwise.
func TextColorFor(background string) string {
	c, err := colorful.Hex(Normalize(background))
	if err != nil {
		return "#ffffff"
	}
	if l, _, _ := c.Lab(); l > 0.7 {
		return "#111827"
	}
	return "#ffffff"
}

// PaletteFor returns the fixed palette containing color, if any.
func PaletteFor(color string) ([]string, bool) {
	color = Normalize(color)
	for _, p := range Palettes {
		if slices.Contains(p, color) {
			return p, true
		}
	}
	return nil, false
}

// Generations memoizes the color chosen for each depth.
//
// The zero value is ready to use. A Generations is owned by one editing
// session and is not safe for concurrent use.
type Generations struct {
	colors map[int]string
}

// NewGenerations returns an empty memo.
func NewGenerations() *Generations {
	return &Generations{colors: make(map[int]string)}
}

// ColorFor returns the color for depth, choosing and remembering one if the
// depth has not been seen yet. rootColor is the color of the depth-0
// ancestor; it only matters on first use of a depth.
func (g *Generations) ColorFor(depth int, rootColor string) string {
	if depth < 0 {
		depth = 0
	}
	if c, ok := g.colors[depth]; ok {
		return c
	}
	if g.colors == nil {
		g.colors = make(map[int]string)
	}
	c := pick(depth, rootColor)
	g.colors[depth] = c
	return c
}

// pick is the stateless selection rule behind ColorFor.
func pick(depth int, rootColor string) string {
	p, ok := PaletteFor(rootColor)
	if !ok {
		return Pool[depth%len(Pool)]
	}
	if depth < len(p) {
		return p[depth]
	}
	rest := slices.DeleteFunc(slices.Clone(Pool), func(c string) bool {
		return slices.Contains(p, c)
	})
	return rest[(depth-len(p))%len(rest)]
}

// Lookup returns the memoized color for depth without assigning one.
func (g *Generations) Lookup(depth int) (string, bool) {
	c, ok := g.colors[depth]
	return c, ok
}

// Len returns the number of memoized depths.
func (g *Generations) Len() int { return len(g.colors) }

// Map returns a copy of the depth to color assignment.
func (g *Generations) Map() map[int]string {
	out := maps.Clone(g.colors)
	if out == nil {
		out = map[int]string{}
	}
	return out
}

// Restore replaces the memo with m. Colors are normalized.
func (g *Generations) Restore(m map[int]string) {
	g.colors = make(map[int]string, len(m))
	for d, c := range m {
		if d < 0 {
			continue
		}
		g.colors[d] = Normalize(c)
	}
}

// Copy returns an independent copy.
func (g *Generations) Copy() *Generations {
	return &Generations{colors: g.Map()}
}

// Reset forgets all assignments.
func (g *Generations) Reset() {
	clear(g.colors)
}
