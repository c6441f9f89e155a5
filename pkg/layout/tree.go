package layout

import (
	"github.com/matzehuels/canopy/pkg/diagram"
)

// Default tree spacing. Vertical trees spread siblings wider than levels;
// horizontal trees the other way round.
const (
	VerticalSiblingSpacing   = 200.0
	VerticalLevelSpacing     = 150.0
	HorizontalSiblingSpacing = 150.0
	HorizontalLevelSpacing   = 200.0
)

// TreeConfig controls [Tree]. Zero spacings select the orientation default.
type TreeConfig struct {
	Horizontal     bool    // children to the right instead of below
	SiblingSpacing float64 // slot size along the sibling axis
	LevelSpacing   float64 // distance between a parent and its children
}

func (c TreeConfig) withDefaults() TreeConfig {
	sib, lvl := VerticalSiblingSpacing, VerticalLevelSpacing
	if c.Horizontal {
		sib, lvl = HorizontalSiblingSpacing, HorizontalLevelSpacing
	}
	if c.SiblingSpacing <= 0 {
		c.SiblingSpacing = sib
	}
	if c.LevelSpacing <= 0 {
		c.LevelSpacing = lvl
	}
	return c
}

// Footprint is the space a subtree occupies. Width runs along the sibling
// axis and Height along the level axis, whatever the orientation.
type Footprint struct {
	Width  float64
	Height float64
}

type treeLayout struct {
	d    *diagram.Diagram
	cfg  TreeConfig
	size map[string]Footprint
}

// Tree places the descendants of root. The root keeps its position; every
// other node is assigned before its children are visited (pre-order). It
// returns the root's footprint. Unknown roots return a zero footprint.
func Tree(d *diagram.Diagram, root string, cfg TreeConfig) Footprint {
	n, ok := d.Node(root)
	if !ok {
		return Footprint{}
	}
	t := &treeLayout{d: d, cfg: cfg.withDefaults(), size: make(map[string]Footprint)}
	fp := t.measure(root, map[string]bool{})
	t.place(n, map[string]bool{})
	return fp
}

// Measure returns the footprint Tree would report without moving anything.
func Measure(d *diagram.Diagram, root string, cfg TreeConfig) Footprint {
	if !d.Has(root) {
		return Footprint{}
	}
	t := &treeLayout{d: d, cfg: cfg.withDefaults(), size: make(map[string]Footprint)}
	return t.measure(root, map[string]bool{})
}

// Forest lays out every root's tree and lines the trees up along the sibling
// axis, starting at the first root's position.
func Forest(d *diagram.Diagram, cfg TreeConfig) {
	cfg = cfg.withDefaults()
	roots := d.Roots()
	if len(roots) == 0 {
		return
	}
	first := roots[0]
	cursor := sibling(first, cfg.Horizontal) - Measure(d, first.ID, cfg).Width/2
	for _, r := range roots {
		w := Measure(d, r.ID, cfg).Width
		target := cursor + w/2
		delta := target - sibling(r, cfg.Horizontal)
		if cfg.Horizontal {
			d.MoveSubtree(r.ID, 0, delta)
			r.X = first.X
		} else {
			d.MoveSubtree(r.ID, delta, 0)
			r.Y = first.Y
		}
		Tree(d, r.ID, cfg)
		cursor += w
	}
}

func (t *treeLayout) measure(id string, seen map[string]bool) Footprint {
	seen[id] = true
	var width, height float64
	for _, c := range t.d.Children(id) {
		if seen[c] {
			continue
		}
		fp := t.measure(c, seen)
		width += fp.Width
		height = max(height, fp.Height)
	}
	fp := Footprint{
		Width:  max(t.cfg.SiblingSpacing, width),
		Height: height + t.cfg.LevelSpacing,
	}
	t.size[id] = fp
	return fp
}

func (t *treeLayout) place(n *diagram.Node, seen map[string]bool) {
	seen[n.ID] = true
	kids := t.d.ChildNodes(n.ID)
	if len(kids) == 0 {
		return
	}

	var total float64
	for _, c := range kids {
		total += t.size[c.ID].Width
	}
	cursor := sibling(n, t.cfg.Horizontal) - total/2
	level := levelPos(n, t.cfg.Horizontal) + t.cfg.LevelSpacing

	for _, c := range kids {
		if seen[c.ID] {
			continue
		}
		w := t.size[c.ID].Width
		setPos(c, cursor+w/2, level, t.cfg.Horizontal)
		cursor += w
		t.place(c, seen)
	}
}

func sibling(n *diagram.Node, horizontal bool) float64 {
	if horizontal {
		return n.Y
	}
	return n.X
}

func levelPos(n *diagram.Node, horizontal bool) float64 {
	if horizontal {
		return n.X
	}
	return n.Y
}

func setPos(n *diagram.Node, sib, lvl float64, horizontal bool) {
	if horizontal {
		n.X, n.Y = lvl, sib
		return
	}
	n.X, n.Y = sib, lvl
}
