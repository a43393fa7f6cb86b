package generator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/trichroma/internal/graph"
	"github.com/GriffinCanCode/trichroma/internal/ipc"
	"github.com/GriffinCanCode/trichroma/internal/logging"
)

func testChannel(t *testing.T) *ipc.Channel {
	t.Helper()
	ch, err := ipc.Create("trichroma-gen-" + uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Destroy() })
	return ch
}

func mustParse(t *testing.T, tokens ...string) *graph.Graph {
	t.Helper()
	g, err := graph.Parse(tokens)
	require.NoError(t, err)
	return g
}

func TestRunStopsWhenTerminating(t *testing.T) {
	ch := testChannel(t)
	g := mustParse(t, "0-1", "1-2")

	ch.RequestTermination()

	gen := NewSeeded(g, ch, logging.NewNop(), 1)
	rep, err := gen.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, rep.Attempts)
	assert.Zero(t, rep.Published)
	assert.Equal(t, -1, rep.Best)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ch := testChannel(t)
	g := mustParse(t, "0-1", "1-2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewSeeded(g, ch, logging.NewNop(), 1)
	rep, err := gen.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, rep.Attempts)
}

func TestRunPublishesConflictSets(t *testing.T) {
	ch := testChannel(t)
	g := mustParse(t, "0-1", "0-2", "0-3", "1-2", "1-3", "2-3")

	gen := NewSeeded(g, ch, logging.NewNop(), 7)
	done := make(chan Report, 1)
	go func() {
		rep, err := gen.Run(context.Background())
		assert.NoError(t, err)
		done <- rep
	}()

	// Four vertices share three colors, so every coloring of K4 leaves
	// between one and six edges in conflict. Six fits a slot, so nothing
	// is discarded either.
	for i := 0; i < 50; i++ {
		cand, err := ch.Consume()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(cand), 1)
		assert.LessOrEqual(t, len(cand), 6)
		for _, p := range cand {
			assert.Contains(t, []int32{0, 1, 2, 3}, p[0])
			assert.Contains(t, []int32{0, 1, 2, 3}, p[1])
		}
	}

	ch.RequestTermination()

	// The generator may be blocked on a full ring; drain until it quits.
	var rep Report
	waiting := true
	for waiting {
		select {
		case rep = <-done:
			waiting = false
		case <-time.After(10 * time.Millisecond):
			if ch.Stats().Filled > 0 {
				_, cerr := ch.Consume()
				require.NoError(t, cerr)
			}
		}
	}
	assert.Positive(t, rep.Published)
	assert.GreaterOrEqual(t, rep.Attempts, rep.Published)
	assert.GreaterOrEqual(t, rep.Best, 1)
}

func TestRunDiscardsOversizedSets(t *testing.T) {
	ch := testChannel(t)

	// K9 has 36 edges and every 3-coloring leaves at least 9 in
	// conflict, so nothing ever fits a slot.
	var tokens []string
	for u := 0; u < 9; u++ {
		for v := u + 1; v < 9; v++ {
			tokens = append(tokens, fmt.Sprintf("%d-%d", u, v))
		}
	}
	g := mustParse(t, tokens...)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	gen := NewSeeded(g, ch, logging.NewNop(), 3)
	rep, err := gen.Run(ctx)
	require.NoError(t, err)

	assert.Positive(t, rep.Attempts)
	assert.Equal(t, rep.Attempts, rep.Discarded)
	assert.Zero(t, rep.Published)
	assert.Equal(t, -1, rep.Best)
	assert.Equal(t, int32(0), ch.Stats().Filled)
}
