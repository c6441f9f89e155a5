package palette

import (
	"regexp"
	"slices"
	"testing"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestPalettesAreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for i, p := range Palettes {
		if len(p) != 5 {
			t.Errorf("palette %d has %d colors, want 5", i, len(p))
		}
		for _, c := range p {
			if !hexColor.MatchString(c) {
				t.Errorf("palette %d color %q is not canonical", i, c)
			}
			if seen[c] {
				t.Errorf("color %q appears in more than one palette", c)
			}
			seen[c] = true
		}
	}
	for _, c := range Pool {
		if Normalize(c) != c {
			t.Errorf("pool color %q is not canonical", c)
		}
	}
}

func TestColorFor(t *testing.T) {
	indigo := Palettes[0]
	withoutIndigo := slices.DeleteFunc(slices.Clone(Pool), func(c string) bool {
		return slices.Contains(indigo, c)
	})

	tests := []struct {
		name      string
		depth     int
		rootColor string
		want      string
	}{
		{name: "RootInPalette", depth: 0, rootColor: "#4f46e5", want: indigo[0]},
		{name: "InRange", depth: 3, rootColor: "#4f46e5", want: indigo[3]},
		{name: "CaseInsensitive", depth: 2, rootColor: "#4F46E5", want: indigo[2]},
		{name: "RootIsLaterShade", depth: 1, rootColor: indigo[4], want: indigo[1]},
		{name: "PastPalette", depth: 5, rootColor: "#4f46e5", want: withoutIndigo[0]},
		{name: "PastPaletteCycles", depth: 5 + len(withoutIndigo), rootColor: "#4f46e5", want: withoutIndigo[0]},
		{name: "NoPalette", depth: 3, rootColor: "#123456", want: Pool[3]},
		{name: "NoPaletteCycles", depth: len(Pool) + 1, rootColor: "#123456", want: Pool[1]},
		{name: "Garbage", depth: 2, rootColor: "not a color", want: Pool[2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerations()
			if got := g.ColorFor(tt.depth, tt.rootColor); got != tt.want {
				t.Errorf("ColorFor(%d, %q) = %q, want %q", tt.depth, tt.rootColor, got, tt.want)
			}
		})
	}
}

func TestPastPaletteSkipsPaletteColors(t *testing.T) {
	for _, p := range Palettes {
		for depth := 5; depth < 5+len(Pool); depth++ {
			if c := pick(depth, p[0]); slices.Contains(p, c) {
				t.Errorf("depth %d with root %s reused palette color %s", depth, p[0], c)
			}
		}
	}
}

func TestColorForIsMemoized(t *testing.T) {
	g := NewGenerations()
	first := g.ColorFor(1, "#059669")
	// A different root color later must not change the depth's color.
	if got := g.ColorFor(1, "#dc2626"); got != first {
		t.Errorf("ColorFor changed from %q to %q", first, got)
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
}

func TestZeroValue(t *testing.T) {
	var g Generations
	if c := g.ColorFor(0, "#059669"); c != "#059669" {
		t.Errorf("ColorFor on zero value = %q", c)
	}
}

func TestMapRestoreCopy(t *testing.T) {
	g := NewGenerations()
	g.ColorFor(0, "#d97706")
	g.ColorFor(1, "#d97706")

	m := g.Map()
	m[7] = "#000000"
	if _, ok := g.Lookup(7); ok {
		t.Error("Map() returned the internal map")
	}

	c := g.Copy()
	c.ColorFor(2, "#d97706")
	if g.Len() != 2 || c.Len() != 3 {
		t.Errorf("Copy not independent: %d, %d", g.Len(), c.Len())
	}

	r := NewGenerations()
	r.Restore(map[int]string{0: "#ABC", 1: "#D97706", -1: "#ffffff"})
	if got, _ := r.Lookup(0); got != "#aabbcc" {
		t.Errorf("Restore shorthand = %q", got)
	}
	if got, _ := r.Lookup(1); got != "#d97706" {
		t.Errorf("Restore normalize = %q", got)
	}
	if r.Len() != 2 {
		t.Errorf("negative depth restored")
	}

	r.Reset()
	if r.Len() != 0 {
		t.Error("Reset left entries")
	}
}

func TestTextColorFor(t *testing.T) {
	if got := TextColorFor("#4f46e5"); got != "#ffffff" {
		t.Errorf("dark background text = %q", got)
	}
	if got := TextColorFor("#fde68a"); got != "#111827" {
		t.Errorf("light background text = %q", got)
	}
}

func TestValid(t *testing.T) {
	for in, want := range map[string]bool{"#fff": true, "#0a0B0c": true, "red": false, "": false} {
		if got := Valid(in); got != want {
			t.Errorf("Valid(%q) = %v, want %v", in, got, want)
		}
	}
}
