package inject

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
)

// CPUInjector fans out one busy-worker process per logical CPU; each
// worker performs arithmetic in an unbounded loop. The main task sleeps
// duration_ms, then terminates the pool, per spec.md §4.5. Workers are
// separate OS processes so the host scheduler is genuinely contended
// (spec.md §5).
type CPUInjector struct {
	base
}

func NewCPUInjector(clk *clock.Source, durationMs int64) *CPUInjector {
	return &CPUInjector{base: newBase(clk, durationMs)}
}

func (c *CPUInjector) Inject(ctx context.Context) {
	go c.runBody(ctx, func(ctx context.Context) {
		workerCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		n := runtime.NumCPU()
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			cmd, err := selfExecWorker(workerCtx, "cpu-burn")
			if err != nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				waitIgnoringKill(cmd)
			}()
		}

		sleepCtx(ctx, time.Duration(c.durationMs)*time.Millisecond)
		cancel()
		wg.Wait()
	})
}

func (c *CPUInjector) Name() string {
	return fmt.Sprintf("CPUStressInjection(d%d-w%d)", c.durationMs, runtime.NumCPU())
}

// RunCPUBurnWorker is the body executed by the "cpu-burn" internal-worker
// subcommand: an unbounded busy arithmetic loop, killed by the parent via
// context cancellation (SIGKILL at the process level).
func RunCPUBurnWorker() {
	x := 0
	for {
		x = (x*1103515245 + 12345) & 0x7fffffff
		_ = strconv.Itoa(x)
	}
}
