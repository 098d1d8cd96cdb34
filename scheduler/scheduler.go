package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"horror-pipeline/types"
)

// State is the scheduler's lifecycle state
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// CycleRunner executes one automation cycle. Implementations must not
// return errors or panic; failures are carried in the CycleResult. The
// scheduler still guards the call defensively.
type CycleRunner interface {
	Run(ctx context.Context) types.CycleResult
}

// Scheduler owns the timing loop and run accounting. Cycles run strictly
// one at a time: the next timer is armed only after the previous cycle
// completes, so a slow cycle pushes the next start later instead of
// overlapping it.
type Scheduler struct {
	runner         CycleRunner
	interval       time.Duration
	runImmediately bool
	onCycle        func(types.CycleResult)

	mu    sync.Mutex
	state State
	stats types.RunStatistics
}

// New creates a Scheduler that invokes runner every interval
func New(runner CycleRunner, interval time.Duration, runImmediately bool) *Scheduler {
	return &Scheduler{
		runner:         runner,
		interval:       interval,
		runImmediately: runImmediately,
		state:          StateIdle,
	}
}

// OnCycle registers a hook invoked after every completed cycle, before the
// next one is scheduled. Call before Start.
func (s *Scheduler) OnCycle(fn func(types.CycleResult)) {
	s.onCycle = fn
}

// Start runs the scheduling loop until ctx is cancelled. It blocks.
// An in-flight cycle is never interrupted: cancellation is observed only
// between cycles, and the running cycle finishes and is recorded first.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Printf("[scheduler] Starting automation loop — every %s (run immediately: %v)", s.interval, s.runImmediately)

	// Shutdown must let the current cycle finish rather than abort its
	// uploads halfway, so cycles run on an uncancellable context.
	cycleCtx := context.WithoutCancel(ctx)

	if s.runImmediately {
		s.runOnce(cycleCtx)
	}

	for {
		select {
		case <-ctx.Done():
			s.setState(StateStopped)
			log.Println("[scheduler] Shutdown requested — scheduler stopped")
			return ctx.Err()
		case <-time.After(s.interval):
			s.runOnce(cycleCtx)
		}
	}
}

// Stats returns a copy of the current run counters
func (s *Scheduler) Stats() types.RunStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// State returns the scheduler's current lifecycle state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.setState(StateRunning)
	defer s.setState(StateIdle)

	s.mu.Lock()
	runNumber := s.stats.TotalRuns + 1
	s.mu.Unlock()

	log.Printf("[scheduler] === Starting automation cycle #%d ===", runNumber)
	start := time.Now()

	result := s.safeRun(ctx)

	s.mu.Lock()
	s.stats.TotalRuns++
	if result.Status == types.StatusSuccess {
		s.stats.SuccessfulRuns++
	} else {
		s.stats.FailedRuns++
	}
	stats := s.stats
	s.mu.Unlock()

	if result.Status == types.StatusSuccess {
		log.Printf("[scheduler] ✓ Cycle #%d succeeded — %d artifact(s) published", runNumber, len(result.Artifacts))
		for _, a := range result.Artifacts {
			log.Printf("[scheduler]   - [%s] %q → %s", a.Kind, a.Title, a.RemoteURL)
		}
	} else {
		log.Printf("[scheduler] ✗ Cycle #%d failed: %s", runNumber, result.Error)
	}
	log.Printf("[scheduler] Cycle duration: %.1fs", time.Since(start).Seconds())
	log.Printf("[scheduler] Statistics: %d successful, %d failed, %d total", stats.SuccessfulRuns, stats.FailedRuns, stats.TotalRuns)
	log.Printf("[scheduler] Next run in %s", s.interval)

	if s.onCycle != nil {
		s.onCycle(result)
	}
}

// safeRun is the last line of defense: the runner contract says it never
// panics, but a panic here must still not kill the loop
func (s *Scheduler) safeRun(ctx context.Context) (result types.CycleResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[scheduler] Cycle panicked past the runner boundary: %v", rec)
			result = types.CycleResult{
				Status:    types.StatusFailure,
				Error:     fmt.Sprintf("unexpected: %v", rec),
				Timestamp: time.Now().UTC(),
			}
		}
	}()
	return s.runner.Run(ctx)
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
