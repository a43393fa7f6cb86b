// Package generator implements the randomized search worker. Each
// generator process guesses colorings and publishes the conflict sets
// small enough to fit a channel slot.
package generator

import (
	"context"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/trichroma/internal/graph"
	"github.com/GriffinCanCode/trichroma/internal/ipc"
	"github.com/GriffinCanCode/trichroma/internal/logging"
)

// Generator repeatedly randomizes the graph coloring and publishes the
// resulting conflict sets.
type Generator struct {
	graph *graph.Graph
	ch    *ipc.Channel
	rng   *rand.Rand
	log   *logging.Logger
}

// Report summarizes one generator run.
type Report struct {
	Attempts  uint64 `json:"attempts"`
	Published uint64 `json:"published"`
	Discarded uint64 `json:"discarded"`
	Best      int    `json:"best"` // -1 when nothing was published
}

// New creates a generator seeded from the process id and clock, so
// parallel generators explore different coloring sequences.
func New(g *graph.Graph, ch *ipc.Channel, log *logging.Logger) *Generator {
	return NewSeeded(g, ch, log, int64(os.Getpid())*time.Now().UnixNano())
}

// NewSeeded creates a generator with a fixed seed, for deterministic
// runs.
func NewSeeded(g *graph.Graph, ch *ipc.Channel, log *logging.Logger, seed int64) *Generator {
	return &Generator{
		graph: g,
		ch:    ch,
		rng:   rand.New(rand.NewSource(seed)),
		log:   log,
	}
}

// Run searches until the supervisor requests termination or ctx is
// canceled, checking both between attempts. A publish blocked on a full
// ring is not interruptible; it drains when the supervisor consumes.
// Conflict sets over the slot bound are discarded without touching the
// channel.
func (gen *Generator) Run(ctx context.Context) (Report, error) {
	rep := Report{Best: -1}
	for {
		if ctx.Err() != nil || gen.ch.Terminating() {
			gen.log.Info("generator stopping",
				zap.Uint64("attempts", rep.Attempts),
				zap.Uint64("published", rep.Published),
				zap.Uint64("discarded", rep.Discarded),
				zap.Int("best", rep.Best),
			)
			return rep, nil
		}

		gen.graph.Randomize(gen.rng)
		conflicts := gen.graph.Conflicts()
		rep.Attempts++

		if len(conflicts) > ipc.MaxPairs {
			rep.Discarded++
			continue
		}

		cand := make(ipc.Candidate, len(conflicts))
		for i, e := range conflicts {
			cand[i] = ipc.Pair{int32(e.U.Key), int32(e.V.Key)}
		}
		if err := gen.ch.Publish(cand); err != nil {
			return rep, err
		}
		rep.Published++

		if rep.Best == -1 || len(cand) < rep.Best {
			rep.Best = len(cand)
			gen.log.Debug("personal best improved",
				zap.Int("conflicts", rep.Best),
				zap.Uint64("attempts", rep.Attempts),
			)
		}
	}
}
