//go:build !windows

package inject

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// ProcessHangInjector verifies a named host process exists via a
// name-lookup command; if present, sends SIGSTOP to all matching PIDs,
// waits duration_ms, sends SIGCONT. If the process is absent, the
// injector records nothing and returns after sleeping duration_ms so the
// campaign gate still advances, per spec.md §4.5.
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
		start := p.clk.NowMs()
		pids := lookupPids(p.processName)
		if len(pids) == 0 {
			log.Infof("process-hang injector: no process named %q found, sleeping the duration slot", p.processName)
			sleepCtx(ctx, time.Duration(p.durationMs)*time.Millisecond)
			return nil
		}

		for _, pid := range pids {
			if err := syscall.Kill(pid, syscall.SIGSTOP); err != nil {
				log.Warnf("process-hang injector: SIGSTOP pid %d failed: %v", pid, err)
			}
		}
		sleepCtx(ctx, time.Duration(p.durationMs)*time.Millisecond)
		for _, pid := range pids {
			if err := syscall.Kill(pid, syscall.SIGCONT); err != nil {
				log.Warnf("process-hang injector: SIGCONT pid %d failed: %v", pid, err)
			}
		}

		end := p.clk.NowMs()
		return &Interval{Start: start, End: end}
	})
}

func (p *ProcessHangInjector) Name() string {
	return fmt.Sprintf("ProcessHangInjection(d%d-%s)", p.durationMs, p.processName)
}

// lookupPids shells out to pgrep, the standard process name->pid lookup
// tool, mirroring the original's shell-backed process discovery approach
// used throughout its probes (spec.md §4.3).
func lookupPids(name string) []int {
	out, err := exec.Command("pgrep", name).Output()
	if err != nil {
		return nil
	}
	var pids []int
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		if pid, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			pids = append(pids, pid)
		}
	}
	return pids
}
