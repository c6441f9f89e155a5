package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/diagram"
	"github.com/matzehuels/canopy/pkg/layout"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// family builds root -> {a, b}, a -> {c} with every node at the origin.
func family(t *testing.T) *diagram.Diagram {
	t.Helper()
	d := diagram.New()
	for _, id := range []string{"root", "a", "b", "c"} {
		n := diagram.NewNode(id, 0, 0)
		n.ID = id
		if err := d.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range [][2]string{{"root", "a"}, {"root", "b"}, {"a", "c"}} {
		if err := d.Connect(e[0], e[1]); err != nil {
			t.Fatalf("Connect(%s, %s): %v", e[0], e[1], err)
		}
	}
	return d
}

func positions(d *diagram.Diagram) map[string][2]float64 {
	out := make(map[string][2]float64)
	for _, n := range d.Nodes() {
		out[n.ID] = [2]float64{n.X, n.Y}
	}
	return out
}

func TestStructureHash(t *testing.T) {
	d1, d2 := family(t), family(t)
	if StructureHash(d1) != StructureHash(d2) {
		t.Error("identical diagrams should hash equally")
	}

	n, _ := d2.Node("a")
	n.Text = "renamed"
	n.Color = "#ff0000"
	if StructureHash(d1) != StructureHash(d2) {
		t.Error("styling should not change the structure hash")
	}

	d2.MoveNode("a", 10, 0)
	if StructureHash(d1) == StructureHash(d2) {
		t.Error("moving a node should change the structure hash")
	}

	d3 := family(t)
	d3.Disconnect("a", "c")
	if StructureHash(d1) == StructureHash(d3) {
		t.Error("removing an edge should change the structure hash")
	}
}

func TestRunnerCachesLayout(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	opts := Options{Layout: layout.Options{Kind: layout.KindTree}}

	first := family(t)
	res, err := r.Layout(ctx, first, opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if res.CacheHit {
		t.Error("first run should miss")
	}
	if res.Kind != layout.KindTree || res.NodeCount != 4 {
		t.Errorf("result = %+v", res)
	}

	second := family(t)
	res2, err := r.Layout(ctx, second, opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if !res2.CacheHit {
		t.Error("second run should hit")
	}
	if res2.StructureHash != res.StructureHash {
		t.Error("same input should hash equally")
	}
	want, got := positions(first), positions(second)
	for id, p := range want {
		if got[id] != p {
			t.Errorf("%s restored at %v, want %v", id, got[id], p)
		}
	}

	// Different options miss.
	third := family(t)
	res3, err := r.Layout(ctx, third, Options{Layout: layout.Options{Kind: layout.KindTree, Tree: layout.TreeConfig{Horizontal: true}}})
	if err != nil {
		t.Fatal(err)
	}
	if res3.CacheHit {
		t.Error("different options should miss")
	}

	// Refresh skips the lookup.
	res4, err := r.Layout(ctx, family(t), Options{Layout: opts.Layout, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res4.CacheHit {
		t.Error("refresh should not hit")
	}
}

func TestRunnerAutoResolvesKind(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Layout(context.Background(), family(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != layout.KindTree {
		t.Errorf("auto on a single tree = %s, want tree", res.Kind)
	}
}

func TestRunnerUnknownRoot(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Layout(context.Background(), family(t), Options{Layout: layout.Options{Kind: layout.KindTree, Root: "nope"}})
	if !errors.Is(err, layout.ErrUnknownRoot) {
		t.Errorf("err = %v, want ErrUnknownRoot", err)
	}
}

func TestRestoreRejectsMismatch(t *testing.T) {
	d := family(t)
	data, err := snapshot(d, layout.KindTree)
	if err != nil {
		t.Fatal(err)
	}

	other := family(t)
	other.RemoveNode("c")
	if _, err := restore(other, data); !errors.Is(err, cache.ErrInvalidEntry) {
		t.Errorf("restore with fewer nodes: err = %v, want ErrInvalidEntry", err)
	}

	if _, err := restore(d, []byte("not snappy")); !errors.Is(err, cache.ErrInvalidEntry) {
		t.Errorf("restore garbage: err = %v, want ErrInvalidEntry", err)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	a := Options{Layout: layout.Options{Kind: layout.KindForce}}.LayoutKeyOpts()
	b := Options{Layout: layout.Options{Kind: layout.KindForce, Force: layout.ForceConfig{Iterations: 10}}}.LayoutKeyOpts()
	if a == b {
		t.Error("force iterations should be part of the key")
	}
	if a.Kind != "force" {
		t.Errorf("Kind = %q, want force", a.Kind)
	}
}
