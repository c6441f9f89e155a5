package diagram

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// randomForest builds a forest where node i is attached to parent
// (picks[i] mod (i+1)) - 1; -1 means root.
func randomForest(picks []int) *Diagram {
	d := New()
	for i, p := range picks {
		n := NewNode(fmt.Sprintf("n%d", i), 0, 0)
		n.ID = fmt.Sprintf("n%d", i)
		_ = d.AddNode(n)
		if parent := p%(i+1) - 1; parent >= 0 {
			_ = d.Connect(fmt.Sprintf("n%d", parent), n.ID)
		}
	}
	return d
}

func TestForestProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("remove deletes exactly the subtree", prop.ForAll(
		func(picks []int, target int) bool {
			if len(picks) == 0 {
				return true
			}
			d := randomForest(picks)
			id := fmt.Sprintf("n%d", target%len(picks))

			want := map[string]bool{id: true}
			for _, n := range d.Descendants(id) {
				want[n.ID] = true
			}
			before := d.Copy()

			removed := d.RemoveNode(id)
			if len(removed) != len(want) || d.Len() != before.Len()-len(want) {
				return false
			}
			for _, r := range removed {
				if !want[r] || d.Has(r) {
					return false
				}
			}
			// Every surviving edge is untouched, except the cut to id.
			for _, n := range d.Nodes() {
				pb, okb := before.Parent(n.ID)
				pa, oka := d.Parent(n.ID)
				if okb != oka || pb != pa {
					return false
				}
			}
			return d.Validate() == nil
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.IntRange(0, 1000),
	))

	properties.Property("connect never breaks the forest", prop.ForAll(
		func(picks []int, a, b int) bool {
			if len(picks) == 0 {
				return true
			}
			d := randomForest(picks)
			pid := fmt.Sprintf("n%d", a%len(picks))
			cid := fmt.Sprintf("n%d", b%len(picks))
			_ = d.Connect(pid, cid)
			return d.Validate() == nil
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
