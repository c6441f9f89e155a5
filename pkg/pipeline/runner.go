package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/snappy"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/diagram"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/observability"
)

// Runner encapsulates layout execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can share one Runner as long as each lays out its own Diagram.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to stored layouts; NewRunner sets cache.TTLLayout.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Instrument(c),
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLLayout,
	}
}

// cachedLayout is the cache payload: resolved kind plus final positions.
type cachedLayout struct {
	Kind      string                `json:"kind"`
	Positions map[string][2]float64 `json:"positions"`
}

// Layout positions the nodes of d. On a cache hit the stored positions are
// written back; otherwise layout.Apply runs and its output is cached.
// Cache failures are logged and never fail the run.
func (r *Runner) Layout(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}
	start := time.Now()

	res := &Result{
		StructureHash: StructureHash(d),
		NodeCount:     d.Len(),
	}
	key := r.Keyer.LayoutKey(res.StructureHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			logger.Warn("layout cache lookup failed", "error", err)
		}
		if hit {
			kind, err := restore(d, data)
			if err == nil {
				res.Kind = kind
				res.CacheHit = true
				res.Duration = time.Since(start)
				logger.Debug("layout restored from cache", "kind", kind, "nodes", res.NodeCount)
				observability.Editor().OnLayout(kind.String(), res.NodeCount, res.Duration)
				return res, nil
			}
			logger.Debug("discarding cached layout", "error", err)
		}
	}

	kind, err := layout.Apply(d, opts.Layout)
	if err != nil {
		return nil, err
	}
	res.Kind = kind
	res.Duration = time.Since(start)
	observability.Editor().OnLayout(kind.String(), res.NodeCount, res.Duration)

	if data, err := snapshot(d, kind); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			logger.Warn("layout cache write failed", "error", err)
		}
	}

	logger.Debug("computed layout", "kind", kind, "nodes", res.NodeCount, "duration", res.Duration)
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Payload
// =============================================================================

func snapshot(d *diagram.Diagram, kind layout.Kind) ([]byte, error) {
	c := cachedLayout{
		Kind:      kind.String(),
		Positions: make(map[string][2]float64, d.Len()),
	}
	for _, n := range d.Nodes() {
		c.Positions[n.ID] = [2]float64{n.X, n.Y}
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

// restore applies a cached payload. It changes nothing unless the payload
// covers exactly the nodes of d.
func restore(d *diagram.Diagram, data []byte) (layout.Kind, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return layout.KindAuto, fmt.Errorf("%w: %v", cache.ErrInvalidEntry, err)
	}
	var c cachedLayout
	if err := json.Unmarshal(raw, &c); err != nil {
		return layout.KindAuto, fmt.Errorf("%w: %v", cache.ErrInvalidEntry, err)
	}
	kind, err := layout.ParseKind(c.Kind)
	if err != nil {
		return layout.KindAuto, fmt.Errorf("%w: %v", cache.ErrInvalidEntry, err)
	}
	if len(c.Positions) != d.Len() {
		return layout.KindAuto, fmt.Errorf("%w: %d positions for %d nodes", cache.ErrInvalidEntry, len(c.Positions), d.Len())
	}
	for _, n := range d.Nodes() {
		if _, ok := c.Positions[n.ID]; !ok {
			return layout.KindAuto, fmt.Errorf("%w: missing node %s", cache.ErrInvalidEntry, n.ID)
		}
	}
	for id, p := range c.Positions {
		d.MoveNode(id, p[0], p[1])
	}
	return kind, nil
}
