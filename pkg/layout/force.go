package layout

import (
	"math"

	"github.com/matzehuels/canopy/pkg/diagram"
)

// Force-directed defaults.
const (
	DefaultIterations = 50
	DefaultRepulsion  = 5000.0
	DefaultAttraction = 0.01
	DefaultDamping    = 0.9
)

// ForceConfig controls [Force]. Zero values select the defaults.
type ForceConfig struct {
	Iterations int
	Repulsion  float64 // numerator of the inverse-square push
	Attraction float64 // spring constant along parent/child edges
	Damping    float64 // scale applied when force becomes displacement
}

func (c ForceConfig) withDefaults() ForceConfig {
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	if c.Repulsion <= 0 {
		c.Repulsion = DefaultRepulsion
	}
	if c.Attraction <= 0 {
		c.Attraction = DefaultAttraction
	}
	if c.Damping <= 0 {
		c.Damping = DefaultDamping
	}
	return c
}

// Force runs the simulation over the given node ids (nil means every node).
//
// Each iteration resets the FX/FY accumulators, adds repulsion/dist² between
// every pair (dist floored at 1) and a spring along every parent/child edge
// whose endpoints are both simulated, then moves each node by force*damping.
// Nodes sitting on the exact same point are pushed apart along the x axis.
func Force(d *diagram.Diagram, ids []string, cfg ForceConfig) {
	cfg = cfg.withDefaults()

	var nodes []*diagram.Node
	if ids == nil {
		nodes = d.Nodes()
	} else {
		for _, id := range ids {
			if n, ok := d.Node(id); ok {
				nodes = append(nodes, n)
			}
		}
	}
	if len(nodes) == 0 {
		return
	}

	in := make(map[string]*diagram.Node, len(nodes))
	for _, n := range nodes {
		in[n.ID] = n
	}

	for range cfg.Iterations {
		for _, n := range nodes {
			n.FX, n.FY = 0, 0
		}

		for i, a := range nodes {
			for _, b := range nodes[i+1:] {
				dx := a.X - b.X
				dy := a.Y - b.Y
				if dx == 0 && dy == 0 {
					dx = 1
				}
				dist := math.Max(math.Hypot(dx, dy), 1)
				f := cfg.Repulsion / (dist * dist)
				fx := f * dx / dist
				fy := f * dy / dist
				a.FX += fx
				a.FY += fy
				b.FX -= fx
				b.FY -= fy
			}
		}

		for _, child := range nodes {
			pid, ok := d.Parent(child.ID)
			if !ok {
				continue
			}
			parent, ok := in[pid]
			if !ok {
				continue
			}
			fx := (child.X - parent.X) * cfg.Attraction
			fy := (child.Y - parent.Y) * cfg.Attraction
			parent.FX += fx
			parent.FY += fy
			child.FX -= fx
			child.FY -= fy
		}

		for _, n := range nodes {
			n.X += n.FX * cfg.Damping
			n.Y += n.FY * cfg.Damping
		}
	}
}
