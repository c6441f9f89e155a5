// Package cache provides a byte-oriented cache used to skip repeated layout
// passes over unchanged diagrams.
//
// A layout run is a pure function of the diagram's structure (ids, edges,
// sizes, starting positions) and the layout options. The [Keyer] turns those
// two inputs into a stable key; the [Cache] stores the resulting positions.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the user's cache directory
//   - [RedisCache]: shared cache for several workstations or CI runners
//   - [NullCache]: caching disabled
//
// # Usage
//
//	c, err := cache.NewFileCache(cfg.CacheDir())
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	key := cache.NewDefaultKeyer().LayoutKey(structureHash, cache.LayoutKeyOpts{Kind: "tree"})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    // restore positions from data
//	}
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional TTL.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. Callers treat a failing cache like a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per entry type.
const (
	// TTLLayout bounds how long computed positions are reused.
	TTLLayout = 7 * 24 * time.Hour

	// TTLStats bounds how long `canopy inspect` summaries are reused.
	TTLStats = 24 * time.Hour
)

// Key type labels reported to observability hooks.
const (
	KeyTypeLayout = "layout"
	KeyTypeStats  = "stats"
)

// =============================================================================
// Keys
// =============================================================================

// LayoutKeyOpts holds every option that changes the output of a layout run.
type LayoutKeyOpts struct {
	Kind           string  `json:"kind"`
	Root           string  `json:"root,omitempty"`
	Horizontal     bool    `json:"horizontal,omitempty"`
	SiblingSpacing float64 `json:"sibling_spacing,omitempty"`
	LevelSpacing   float64 `json:"level_spacing,omitempty"`
	RingSpacing    float64 `json:"ring_spacing,omitempty"`
	Iterations     int     `json:"iterations,omitempty"`
	Repulsion      float64 `json:"repulsion,omitempty"`
	Attraction     float64 `json:"attraction,omitempty"`
	Damping        float64 `json:"damping,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a layout result for a diagram structure.
	LayoutKey(structureHash string, opts LayoutKeyOpts) string

	// StatsKey identifies an inspect summary for a document payload.
	StatsKey(documentHash string) string
}

// DefaultKeyer produces unscoped keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey hashes the structure hash together with the options.
func (DefaultKeyer) LayoutKey(structureHash string, opts LayoutKeyOpts) string {
	return optionsKey(KeyTypeLayout, structureHash, opts)
}

// StatsKey keys summaries directly by document hash.
func (DefaultKeyer) StatsKey(documentHash string) string {
	return typedKey(KeyTypeStats, documentHash)
}

var _ Keyer = DefaultKeyer{}
