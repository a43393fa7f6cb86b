package observe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/trichroma/internal/supervisor"
)

// gatherValues scrapes the registry into a name -> value map.
func gatherValues(t *testing.T, m *Metrics) map[string]float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	values := make(map[string]float64, len(families))
	for _, fam := range families {
		require.Len(t, fam.GetMetric(), 1)
		metric := fam.GetMetric()[0]
		switch {
		case metric.GetCounter() != nil:
			values[fam.GetName()] = metric.GetCounter().GetValue()
		case metric.GetGauge() != nil:
			values[fam.GetName()] = metric.GetGauge().GetValue()
		}
	}
	return values
}

func TestMetricsTrackSnapshot(t *testing.T) {
	var mu sync.Mutex
	snap := supervisor.Snapshot{Best: -1}
	m := NewMetrics(func() supervisor.Snapshot {
		mu.Lock()
		defer mu.Unlock()
		return snap
	})

	values := gatherValues(t, m)
	assert.Equal(t, float64(0), values["trichroma_candidates_consumed_total"])
	assert.Equal(t, float64(0), values["trichroma_improvements_total"])
	assert.Equal(t, float64(-1), values["trichroma_best_length"])
	assert.Equal(t, float64(0), values["trichroma_solved"])
	assert.GreaterOrEqual(t, values["trichroma_uptime_seconds"], float64(0))

	mu.Lock()
	snap = supervisor.Snapshot{Consumed: 42, Improvements: 3, Best: 5, Solved: true}
	mu.Unlock()

	values = gatherValues(t, m)
	assert.Equal(t, float64(42), values["trichroma_candidates_consumed_total"])
	assert.Equal(t, float64(3), values["trichroma_improvements_total"])
	assert.Equal(t, float64(5), values["trichroma_best_length"])
	assert.Equal(t, float64(1), values["trichroma_solved"])
}

func TestMetricsRegistryIsPrivate(t *testing.T) {
	first := NewMetrics(func() supervisor.Snapshot { return supervisor.Snapshot{} })

	// A second instance must not panic on duplicate registration.
	second := NewMetrics(func() supervisor.Snapshot { return supervisor.Snapshot{} })

	assert.NotSame(t, first.Registry(), second.Registry())
}
