package inject

import (
	"context"
	"fmt"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
)

// SpinInjector is a single tight loop that exits when now_ms() - start >=
// duration_ms. No worker pool, per spec.md §4.5.
type SpinInjector struct {
	base
}

func NewSpinInjector(clk *clock.Source, durationMs int64) *SpinInjector {
	return &SpinInjector{base: newBase(clk, durationMs)}
}

func (s *SpinInjector) Inject(ctx context.Context) {
	go s.runBody(ctx, func(ctx context.Context) {
		start := s.clk.NowMs()
		for {
			if s.clk.NowMs()-start >= s.durationMs {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	})
}

func (s *SpinInjector) Name() string {
	return fmt.Sprintf("SpinInjection(d%d)", s.durationMs)
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
// Shared by every variant whose body needs a cancellable duration sleep.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
