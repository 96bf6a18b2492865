package inject

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
)

// DiskInjector runs nWorkers worker processes, each opening a temporary
// file, writing nBlocks * 1MiB of 'x', rewinding, reading back, closing,
// deleting and looping, per spec.md §4.5. Per spec.md §9, workers are
// scoped to a dedicated scratch directory so SIGKILL cleanup is a
// directory-wide operation.
type DiskInjector struct {
	base
	nWorkers int
	nBlocks  int
	scratch  string
}

// NewDiskInjector builds a DiskInjector. scratch is the dedicated scratch
// directory workers create their temp files in.
func NewDiskInjector(clk *clock.Source, durationMs int64, nWorkers, nBlocks int, scratch string) *DiskInjector {
	if nWorkers <= 0 {
		nWorkers = 10
	}
	if nBlocks <= 0 {
		nBlocks = 10
	}
	return &DiskInjector{base: newBase(clk, durationMs), nWorkers: nWorkers, nBlocks: nBlocks, scratch: scratch}
}

func (d *DiskInjector) Inject(ctx context.Context) {
	go d.runBody(ctx, func(ctx context.Context) {
		workerCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		var wg sync.WaitGroup
		for i := 0; i < d.nWorkers; i++ {
			cmd, err := selfExecWorker(workerCtx, "disk-stress",
				"--scratch", d.scratch,
				"--blocks", strconv.Itoa(d.nBlocks),
				"--worker-id", strconv.Itoa(i))
			if err != nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				waitIgnoringKill(cmd)
			}()
		}

		sleepCtx(ctx, time.Duration(d.durationMs)*time.Millisecond)
		cancel()
		wg.Wait()
	})
}

func (d *DiskInjector) Name() string {
	return fmt.Sprintf("DiskStressInjection(d%d-w%d-b%d)", d.durationMs, d.nWorkers, d.nBlocks)
}
