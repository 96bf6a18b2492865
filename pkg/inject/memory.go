package inject

import (
	"context"
	"fmt"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
)

// MemoryInjector runs a single worker that repeatedly appends fixed-size
// blocks to a growing buffer, yielding ~1ms between blocks, exiting on
// duration, per spec.md §4.5.
type MemoryInjector struct {
	base
	itemsForLoop int
}

// NewMemoryInjector builds a MemoryInjector that grows its buffer by
// itemsForLoop int64 slots (~8 bytes each) per iteration, matching the
// original's items_for_loop parameter (spec.md §6).
func NewMemoryInjector(clk *clock.Source, durationMs int64, itemsForLoop int) *MemoryInjector {
	if itemsForLoop <= 0 {
		itemsForLoop = 1234567
	}
	return &MemoryInjector{base: newBase(clk, durationMs), itemsForLoop: itemsForLoop}
}

func (m *MemoryInjector) Inject(ctx context.Context) {
	go m.runBody(ctx, func(ctx context.Context) {
		start := m.clk.NowMs()
		var grown [][]int64
		for {
			block := make([]int64, m.itemsForLoop)
			for i := range block {
				block[i] = 999
			}
			grown = append(grown, block)

			if m.clk.NowMs()-start > m.durationMs {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
	})
}

func (m *MemoryInjector) Name() string {
	return fmt.Sprintf("MemoryUsageInjection-%di-(d%d)", m.itemsForLoop, m.durationMs)
}
