package observe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GriffinCanCode/trichroma/internal/supervisor"
)

// Metrics holds the Prometheus collectors for one search run. The
// registry is private so repeated runs in one process never collide.
type Metrics struct {
	registry *prometheus.Registry
	started  time.Time
}

// NewMetrics registers pull-based collectors over the supervisor
// snapshot. The consume loop is never touched by a scrape.
func NewMetrics(snap func() supervisor.Snapshot) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
	}
	factory := promauto.With(m.registry)

	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "trichroma_candidates_consumed_total",
		Help: "Candidates consumed from the shared channel",
	}, func() float64 { return float64(snap().Consumed) })

	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "trichroma_improvements_total",
		Help: "Times the best obstruction set shrank",
	}, func() float64 { return float64(snap().Improvements) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "trichroma_best_length",
		Help: "Edges in the best obstruction set, -1 before the first candidate",
	}, func() float64 { return float64(snap().Best) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "trichroma_solved",
		Help: "Set to 1 once a valid 3-coloring is found",
	}, func() float64 {
		if snap().Solved {
			return 1
		}
		return 0
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "trichroma_uptime_seconds",
		Help: "Seconds since the supervisor started",
	}, func() float64 { return time.Since(m.started).Seconds() })

	return m
}

// Registry exposes the registry for the metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
