// Package pipeline runs layout passes over a diagram with result caching.
//
// A layout is a pure function of the diagram's structure and the layout
// options, so the positions it produces can be reused whenever the same
// diagram is laid out again with the same options. The CLI uses this for
// `canopy layout`; an interactive session calls the layout package directly.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Layout(ctx, d, pipeline.Options{
//	    Layout: layout.Options{Kind: layout.KindTree},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Kind, res.CacheHit)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/layout"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one layout run.
type Options struct {
	Layout layout.Options

	// Refresh skips the cache lookup. The fresh result is still stored.
	Refresh bool

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// LayoutKeyOpts returns cache key options for the layout options.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	l := o.Layout
	return cache.LayoutKeyOpts{
		Kind:           l.Kind.String(),
		Root:           l.Root,
		Horizontal:     l.Tree.Horizontal,
		SiblingSpacing: l.Tree.SiblingSpacing,
		LevelSpacing:   l.Tree.LevelSpacing,
		RingSpacing:    l.Radial.RingSpacing,
		Iterations:     l.Force.Iterations,
		Repulsion:      l.Force.Repulsion,
		Attraction:     l.Force.Attraction,
		Damping:        l.Force.Damping,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result describes a completed layout run.
type Result struct {
	// Kind is the strategy that produced the positions (Auto is resolved).
	Kind layout.Kind

	// StructureHash identifies the input diagram.
	StructureHash string

	// NodeCount is the number of nodes positioned.
	NodeCount int

	// CacheHit reports whether positions were restored from the cache.
	CacheHit bool

	// Duration covers hashing, lookup and layout.
	Duration time.Duration
}
