package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/canopy/pkg/diagram"
	errs "github.com/matzehuels/canopy/pkg/errors"
)

// ErrUnknownRoot is returned by [Apply] when Options.Root names a node that
// is not part of the diagram.
var ErrUnknownRoot = errors.New("unknown layout root")

// Kind selects a layout strategy.
type Kind int

const (
	KindAuto Kind = iota
	KindTree
	KindRadial
	KindForce
)

var kindNames = [...]string{
	KindAuto:   "auto",
	KindTree:   "tree",
	KindRadial: "radial",
	KindForce:  "force",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a name ("auto", "tree", "radial", "force") to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return KindAuto, errs.New(errs.ErrCodeInvalidInput, "unknown layout %q (want auto, tree, radial or force)", s)
}

// Options configures [Apply]. Zero values select defaults.
type Options struct {
	Kind Kind

	// Root is the tree root or radial center. Empty picks the first root in
	// paint order (tree layout with several roots lays out every tree).
	Root string

	Tree   TreeConfig
	Radial RadialConfig
	Force  ForceConfig
}

// Apply runs the selected layout and returns the strategy actually used
// (Auto resolves to Tree or Force). An empty diagram is left alone.
func Apply(d *diagram.Diagram, opts Options) (Kind, error) {
	if opts.Root != "" && !d.Has(opts.Root) {
		return opts.Kind, errs.Wrap(errs.ErrCodeNodeNotFound, ErrUnknownRoot, "layout root %q", opts.Root)
	}
	if d.Len() == 0 {
		return opts.Kind, nil
	}

	switch opts.Kind {
	case KindAuto:
		return Auto(d, opts), nil
	case KindTree:
		if opts.Root != "" {
			Tree(d, opts.Root, opts.Tree)
		} else {
			Forest(d, opts.Tree)
		}
		return KindTree, nil
	case KindRadial:
		center := opts.Root
		if center == "" {
			center = d.Roots()[0].ID
		}
		Radial(d, center, opts.Radial)
		return KindRadial, nil
	case KindForce:
		Force(d, nil, opts.Force)
		return KindForce, nil
	default:
		return opts.Kind, errs.New(errs.ErrCodeUnsupported, "layout kind %s", opts.Kind)
	}
}

// Auto applies tree layout when the diagram has exactly one root, and
// force-directed layout across all nodes otherwise.
func Auto(d *diagram.Diagram, opts Options) Kind {
	roots := d.Roots()
	if len(roots) == 1 {
		Tree(d, roots[0].ID, opts.Tree)
		return KindTree
	}
	Force(d, nil, opts.Force)
	return KindForce
}
