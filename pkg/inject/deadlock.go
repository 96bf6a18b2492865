package inject

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
)

// DeadlockInjector creates nLocks independent lock-file pairs; each pair
// runs nThreads worker processes that acquire two file locks in opposite
// orders to induce mutual blocking. The manager exits after
// duration_ms - 20ms and terminates all workers regardless of progress,
// the 20ms reserve accounting for teardown latency, per spec.md §4.5.
// Workers are OS processes, per spec.md §5.
type DeadlockInjector struct {
	base
	nThreads int
	nLocks   int
	scratch  string
}

// NewDeadlockInjector builds a DeadlockInjector. nThreads is floored at 2
// (spec.md §6) and scratch is the dedicated directory its lock files live
// under.
func NewDeadlockInjector(clk *clock.Source, durationMs int64, nThreads, nLocks int, scratch string) *DeadlockInjector {
	if nThreads < 2 {
		nThreads = 2
	}
	if nLocks <= 0 {
		nLocks = 1
	}
	return &DeadlockInjector{base: newBase(clk, durationMs), nThreads: nThreads, nLocks: nLocks, scratch: scratch}
}

func (d *DeadlockInjector) Inject(ctx context.Context) {
	go d.runBody(ctx, func(ctx context.Context) {
		workerCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		var wg sync.WaitGroup
		for g := 0; g < d.nLocks; g++ {
			lockA := filepath.Join(d.scratch, fmt.Sprintf("deadlock-%d-a.lock", g))
			lockB := filepath.Join(d.scratch, fmt.Sprintf("deadlock-%d-b.lock", g))
			for w := 0; w < d.nThreads; w++ {
				reversed := "false"
				if w%2 == 1 {
					reversed = "true"
				}
				cmd, err := selfExecWorker(workerCtx, "deadlock",
					"--lock-a", lockA, "--lock-b", lockB, "--reversed", reversed)
				if err != nil {
					continue
				}
				wg.Add(1)
				go func() {
					defer wg.Done()
					waitIgnoringKill(cmd)
				}()
			}
		}

		// Reserve 20ms of teardown latency: stop waiting for real
		// deadlock progress and let the campaign's forced cancel reap the
		// (by-construction, permanently blocked) worker processes.
		reserve := 20 * time.Millisecond
		wait := time.Duration(d.durationMs)*time.Millisecond - reserve
		sleepCtx(ctx, wait)
		cancel()
		wg.Wait()
	})
}

func (d *DeadlockInjector) Name() string {
	return fmt.Sprintf("DeadlockInjection(d%d-t%d-l%d)", d.durationMs, d.nThreads, d.nLocks)
}
