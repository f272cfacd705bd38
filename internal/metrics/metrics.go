// Package metrics exports shape engine events as prometheus counters.
package metrics

import (
	"net/http"

	"github.com/Versifine/voxel/internal/shapes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voxel"

// EngineMetrics implements shapes.Observer.
type EngineMetrics struct {
	joins      *prometheus.CounterVec
	mergers    *prometheus.CounterVec
	optimized  prometheus.Counter
	collisions *prometheus.CounterVec
}

var _ shapes.Observer = (*EngineMetrics)(nil)

func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shapes",
			Name:      "joins_total",
			Help:      "Boolean joins of two shapes, by operator.",
		}, []string{"op"}),
		mergers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shapes",
			Name:      "index_mergers_total",
			Help:      "Coordinate merge strategies chosen for joins, by kind.",
		}, []string{"kind"}),
		optimized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shapes",
			Name:      "optimizations_total",
			Help:      "Shapes rebuilt into their minimal representation.",
		}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collision",
			Name:      "clamped_total",
			Help:      "Sweeps whose distance was shortened by an obstacle, by axis.",
		}, []string{"axis"}),
	}
}

// Register adds every counter to reg.
func (m *EngineMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.joins, m.mergers, m.optimized, m.collisions} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *EngineMetrics) JoinPerformed(op shapes.Op) {
	m.joins.WithLabelValues(op.String()).Inc()
}

func (m *EngineMetrics) MergerSelected(kind shapes.MergerKind) {
	m.mergers.WithLabelValues(string(kind)).Inc()
}

func (m *EngineMetrics) ShapeOptimized() {
	m.optimized.Inc()
}

func (m *EngineMetrics) CollisionClamped(axis shapes.Axis) {
	m.collisions.WithLabelValues(axis.String()).Inc()
}

// Handler serves the metrics gathered by g in the text exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
