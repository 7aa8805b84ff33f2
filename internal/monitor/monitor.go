// Package monitor follows submitted jobs until the scheduler stops
// reporting them and tracks task-array completion for display.
package monitor

import (
	"context"
	"iter"
	"time"

	"github.com/ppqm/hpc-funcs/internal/utils"
)

// DefaultPollInterval is the pause between status rounds. Scheduler
// frontends are expected to answer well within this window.
const DefaultPollInterval = 30 * time.Second

// StatusFunc reports whether a job id is still present in live status.
// The scheduler purges finished jobs, so false means the job is done.
type StatusFunc func(ctx context.Context, jobID string) (bool, error)

// SleepFunc pauses between poll rounds. It returns early with the
// context's error when the context is cancelled.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Monitor polls a set of job ids until every one has left live status.
// Polling is sequential and blocking; one slow query delays the round,
// which is acceptable against multi-second poll intervals.
type Monitor struct {
	// Status queries one job id. Required.
	Status StatusFunc

	// Interval is the pause between rounds. Zero means
	// DefaultPollInterval.
	Interval time.Duration

	// Sleep pauses between rounds. Nil means a context-aware
	// time.Timer sleep; tests inject an instant version.
	Sleep SleepFunc
}

// Wait returns an iterator over completed job ids. Each round queries
// every remaining id; ids no longer reported live are yielded in query
// order and dropped from the working set. A failed query is logged and
// leaves the job in the set for the next round, so one flaky id never
// stalls the rest.
//
// The loop has no round limit: it ends when the working set is empty,
// the context is cancelled, or the consumer stops iterating. Callers
// needing a deadline wrap the context.
func (m *Monitor) Wait(ctx context.Context, jobIDs []string) iter.Seq[string] {
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	sleep := m.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	return func(yield func(string) bool) {
		pending := make([]string, len(jobIDs))
		copy(pending, jobIDs)

		started := time.Now()

		for len(pending) > 0 {
			if ctx.Err() != nil {
				utils.PrintWarning("Job monitoring cancelled with %d job(s) still pending", len(pending))
				return
			}

			roundStart := time.Now()
			remaining := pending[:0]

			for _, jobID := range pending {
				live, err := m.Status(ctx, jobID)
				if err != nil {
					// Transient scheduler errors are common; keep the
					// job pending and try again next round.
					utils.PrintWarning("Status query for job %s failed: %v", utils.StyleName(jobID), err)
					remaining = append(remaining, jobID)
					continue
				}
				if live {
					remaining = append(remaining, jobID)
					continue
				}
				if !yield(jobID) {
					return
				}
			}

			pending = remaining
			utils.PrintDebug("Poll round took %s, %d job(s) remaining", time.Since(roundStart).Round(time.Millisecond), len(pending))

			if len(pending) == 0 {
				break
			}
			if err := sleep(ctx, interval); err != nil {
				utils.PrintWarning("Job monitoring cancelled with %d job(s) still pending", len(pending))
				return
			}
		}

		utils.PrintDebug("All jobs finished after %s", time.Since(started).Round(time.Second))
	}
}

// WaitAll drains Wait and returns every completed job id.
func (m *Monitor) WaitAll(ctx context.Context, jobIDs []string) []string {
	var done []string
	for jobID := range m.Wait(ctx, jobIDs) {
		done = append(done, jobID)
	}
	return done
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
