//go:build windows

package inject

import (
	"context"
	"fmt"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// ProcessHangInjector has no SIGSTOP/SIGCONT equivalent on Windows; this
// harness targets Linux edge/IoT gateways (spec.md §1), so the Windows
// build simply sleeps the duration slot without acting, same as the
// "target absent" case on Unix.
type ProcessHangInjector struct {
	base
	processName string
}

func NewProcessHangInjector(clk *clock.Source, durationMs int64, processName string) *ProcessHangInjector {
	if processName == "" {
		processName = "arancino"
	}
	return &ProcessHangInjector{base: newBase(clk, durationMs), processName: processName}
}

func (p *ProcessHangInjector) Inject(ctx context.Context) {
	go p.runBodyNoInterval(ctx, func(ctx context.Context) *Interval {
		log.Infof("process-hang injector: unsupported on windows, sleeping the duration slot")
		sleepCtx(ctx, time.Duration(p.durationMs)*time.Millisecond)
		return nil
	})
}

func (p *ProcessHangInjector) Name() string {
	return fmt.Sprintf("ProcessHangInjection(d%d-%s)", p.durationMs, p.processName)
}
