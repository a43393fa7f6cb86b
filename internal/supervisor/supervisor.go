// Package supervisor implements the single consumer of the candidate
// channel. It reduces the incoming stream to the smallest obstruction
// set and decides termination.
package supervisor

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/trichroma/internal/ipc"
	"github.com/GriffinCanCode/trichroma/internal/logging"
)

// Progress is one improvement observed by the supervisor.
type Progress struct {
	Best     int        `json:"best"`
	Pairs    []ipc.Pair `json:"pairs,omitempty"`
	Consumed uint64     `json:"consumed"`
	Solved   bool       `json:"solved"`
}

// Snapshot is the supervisor's current view, safe to read from other
// goroutines while Run executes.
type Snapshot struct {
	Consumed     uint64 `json:"consumed"`
	Improvements uint64 `json:"improvements"`
	Best         int64  `json:"best"` // -1 until the first candidate
	Solved       bool   `json:"solved"`
}

// Result is the final outcome of a supervision run.
type Result struct {
	Colorable bool          `json:"colorable"`
	Best      int           `json:"best"` // -1 when no candidate arrived
	Pairs     []ipc.Pair    `json:"pairs,omitempty"`
	Consumed  uint64        `json:"consumed"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// Supervisor consumes candidates and keeps the best one.
type Supervisor struct {
	ch     *ipc.Channel
	log    *logging.Logger
	notify func(Progress)

	consumed     atomic.Uint64
	improvements atomic.Uint64
	best         atomic.Int64
	solved       atomic.Bool
}

// New creates a supervisor for an owned channel.
func New(ch *ipc.Channel, log *logging.Logger) *Supervisor {
	s := &Supervisor{ch: ch, log: log}
	s.best.Store(-1)
	return s
}

// Notify registers a callback invoked on every improvement and on the
// solved report. It runs on the consume loop; keep it fast.
func (s *Supervisor) Notify(fn func(Progress)) {
	s.notify = fn
}

// Snapshot returns the current counters.
func (s *Supervisor) Snapshot() Snapshot {
	return Snapshot{
		Consumed:     s.consumed.Load(),
		Improvements: s.improvements.Load(),
		Best:         s.best.Load(),
		Solved:       s.solved.Load(),
	}
}

// Run consumes candidates until an empty one arrives or ctx is
// canceled, whichever happens first. Cancellation is observed between
// candidates; a consume blocked on an empty ring drains only when a
// generator publishes. On return the terminate flag is raised so
// generators stop.
func (s *Supervisor) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	res := Result{Best: -1}
	defer s.ch.RequestTermination()

	for {
		if ctx.Err() != nil {
			s.log.Info("supervision interrupted",
				zap.Uint64("consumed", res.Consumed),
				zap.Int("best", res.Best),
			)
			res.Elapsed = time.Since(start)
			return res, nil
		}

		cand, err := s.ch.Consume()
		if err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}
		res.Consumed++
		s.consumed.Store(res.Consumed)

		if len(cand) == 0 {
			res.Colorable = true
			res.Best = 0
			res.Pairs = nil
			res.Elapsed = time.Since(start)
			s.best.Store(0)
			s.solved.Store(true)
			s.log.Info("graph is 3-colorable", zap.Uint64("consumed", res.Consumed))
			s.emit(Progress{Best: 0, Consumed: res.Consumed, Solved: true})
			return res, nil
		}

		if res.Best != -1 && len(cand) >= res.Best {
			continue
		}

		res.Best = len(cand)
		res.Pairs = append(res.Pairs[:0], cand...)
		s.best.Store(int64(res.Best))
		s.improvements.Add(1)
		s.log.Info("obstruction set improved",
			zap.Int("conflicts", res.Best),
			zap.Uint64("consumed", res.Consumed),
		)
		s.emit(Progress{
			Best:     res.Best,
			Pairs:    append([]ipc.Pair(nil), cand...),
			Consumed: res.Consumed,
		})
	}
}

func (s *Supervisor) emit(p Progress) {
	if s.notify != nil {
		s.notify(p)
	}
}
