package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/diagram"
)

// structureNode is the subset of a node that influences layout output.
type structureNode struct {
	ID       string   `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Parent   string   `json:"p,omitempty"`
	Children []string `json:"c,omitempty"`
}

// StructureHash returns a content hash over node ids, positions, paint order
// and edges. Text, colors and other styling do not affect it.
func StructureHash(d *diagram.Diagram) string {
	nodes := d.Nodes()
	s := make([]structureNode, len(nodes))
	for i, n := range nodes {
		parent, _ := d.Parent(n.ID)
		s[i] = structureNode{
			ID:       n.ID,
			X:        n.X,
			Y:        n.Y,
			Parent:   parent,
			Children: d.Children(n.ID),
		}
	}
	data, _ := json.Marshal(s)
	return cache.Hash(data)
}
