package layout

import (
	"math"

	"github.com/matzehuels/canopy/pkg/diagram"
)

// DefaultRingSpacing is the radius increment between radial layers.
const DefaultRingSpacing = 150.0

// RadialConfig controls [Radial].
type RadialConfig struct {
	RingSpacing float64 // 0 selects DefaultRingSpacing
}

// Radial places the nodes reachable from center on concentric rings: layer k
// sits at distance k*RingSpacing, spread at equal angles starting from 0.
// The center does not move. Each node is placed once even if reachable along
// several paths.
func Radial(d *diagram.Diagram, center string, cfg RadialConfig) {
	c, ok := d.Node(center)
	if !ok {
		return
	}
	ring := cfg.RingSpacing
	if ring <= 0 {
		ring = DefaultRingSpacing
	}

	visited := map[string]bool{center: true}
	layer := []string{center}
	for k := 1; len(layer) > 0; k++ {
		var next []string
		for _, id := range layer {
			for _, child := range d.Children(id) {
				if visited[child] {
					continue
				}
				visited[child] = true
				next = append(next, child)
			}
		}

		radius := float64(k) * ring
		step := 2 * math.Pi / float64(max(len(next), 1))
		for i, id := range next {
			n, _ := d.Node(id)
			angle := float64(i) * step
			n.X = c.X + radius*math.Cos(angle)
			n.Y = c.Y + radius*math.Sin(angle)
		}
		layer = next
	}
}
