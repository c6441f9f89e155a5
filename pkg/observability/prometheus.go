package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface on top of a private
// Prometheus registry. The CLI has no HTTP surface, so metrics are exported
// with [PrometheusHooks.WriteTextfile] for the node_exporter textfile
// collector.
type PrometheusHooks struct {
	registry *prometheus.Registry

	CommandsTotal   *prometheus.CounterVec
	LayoutDuration  *prometheus.HistogramVec
	LayoutNodes     prometheus.Histogram
	ImportsTotal    *prometheus.CounterVec
	ImportSkipped   prometheus.Counter
	ImportBytes     prometheus.Histogram
	HistoryOpsTotal *prometheus.CounterVec
	HistoryDepth    prometheus.Gauge

	CacheRequestsTotal *prometheus.CounterVec
	CacheWriteBytes    *prometheus.HistogramVec

	StoreOpsTotal   *prometheus.CounterVec
	StoreOpDuration *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors on a fresh registry.
func NewPrometheusHooks() *PrometheusHooks {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &PrometheusHooks{
		registry: reg,

		CommandsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_commands_total",
				Help: "Editing commands executed",
			},
			[]string{"command", "status"},
		),
		LayoutDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "canopy_layout_duration_seconds",
				Help:    "Layout pass duration in seconds",
				Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"kind"},
		),
		LayoutNodes: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "canopy_layout_nodes",
				Help:    "Nodes repositioned per layout pass",
				Buckets: prometheus.ExponentialBuckets(1, 4, 6),
			},
		),
		ImportsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_imports_total",
				Help: "Document loads by outcome",
			},
			[]string{"status"},
		),
		ImportSkipped: f.NewCounter(
			prometheus.CounterOpts{
				Name: "canopy_import_skipped_records_total",
				Help: "Node records dropped while loading documents",
			},
		),
		ImportBytes: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "canopy_import_bytes",
				Help:    "Size of loaded documents",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
		),
		HistoryOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_history_operations_total",
				Help: "Undo stack operations",
			},
			[]string{"op"},
		),
		HistoryDepth: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "canopy_history_depth",
				Help: "Snapshots currently held by the undo stack",
			},
		),
		CacheRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_cache_requests_total",
				Help: "Cache lookups and writes",
			},
			[]string{"key_type", "result"},
		),
		CacheWriteBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "canopy_cache_write_bytes",
				Help:    "Size of cache entries written",
				Buckets: prometheus.ExponentialBuckets(64, 4, 8),
			},
			[]string{"key_type"},
		),
		StoreOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_store_operations_total",
				Help: "Document store operations",
			},
			[]string{"backend", "op", "status"},
		),
		StoreOpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "canopy_store_operation_duration_seconds",
				Help:    "Document store operation duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"backend", "op"},
		),
	}
}

// Registry returns the underlying registry.
func (p *PrometheusHooks) Registry() *prometheus.Registry { return p.registry }

// WriteTextfile writes all metrics in text exposition format to path.
func (p *PrometheusHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *PrometheusHooks) OnCommand(command string, _ int, err error) {
	p.CommandsTotal.WithLabelValues(command, status(err)).Inc()
}

func (p *PrometheusHooks) OnLayout(kind string, nodeCount int, duration time.Duration) {
	p.LayoutDuration.WithLabelValues(kind).Observe(duration.Seconds())
	p.LayoutNodes.Observe(float64(nodeCount))
}

func (p *PrometheusHooks) OnImport(bytes, _, skipped int, err error) {
	p.ImportsTotal.WithLabelValues(status(err)).Inc()
	p.ImportBytes.Observe(float64(bytes))
	p.ImportSkipped.Add(float64(skipped))
}

func (p *PrometheusHooks) OnHistory(op string, depth int) {
	p.HistoryOpsTotal.WithLabelValues(op).Inc()
	p.HistoryDepth.Set(float64(depth))
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheRequestsTotal.WithLabelValues(keyType, "set").Inc()
	p.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (p *PrometheusHooks) OnStoreOp(_ context.Context, backend, op string, duration time.Duration, err error) {
	p.StoreOpsTotal.WithLabelValues(backend, op, status(err)).Inc()
	p.StoreOpDuration.WithLabelValues(backend, op).Observe(duration.Seconds())
}

var (
	_ EditorHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
	_ StoreHooks  = (*PrometheusHooks)(nil)
)
