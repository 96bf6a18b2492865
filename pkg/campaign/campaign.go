// Package campaign drives the injection manager inside the isolated
// execution context described in spec.md §5: the monitor launches the
// campaign as a separate OS process via Launch, and harvests its
// injection log after the child exits via Harvest. RunInline is the body
// that actually executes inside that child process.
package campaign

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/inject"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// Header is the fixed injection-log column order, per spec.md §6.
var Header = []string{"start", "end", "inj_name"}

// Config carries everything RunInline needs to build and drive a
// Manager; it crosses the process boundary as CLI flags, not as a
// serialized struct, so every field must be flag-representable.
type Config struct {
	TickMs     int64
	TotalTicks int
	ErrorRate  float64
	CooldownMs int64
	DurationMs int64
	RedisAddr  string
	ScratchDir string
	SpecFile   string
	LogFile    string
}

// RunInline builds the injector set (from cfg.SpecFile if set, else the
// built-in defaults), runs the campaign scheduling loop to completion,
// and writes the resulting injection log to cfg.LogFile. This is the
// function the "campaign run" subcommand invokes inside the isolated
// child process.
func RunInline(ctx context.Context, cfg Config) error {
	clk := clock.New()

	var injectors []inject.Injector
	var err error
	if cfg.SpecFile != "" {
		injectors, err = inject.LoadSpecFile(clk, cfg.SpecFile, cfg.RedisAddr, cfg.ScratchDir, cfg.DurationMs)
		if err != nil {
			return fmt.Errorf("campaign: loading injector spec: %w", err)
		}
	} else {
		injectors = inject.DefaultInjectors(clk, cfg.DurationMs, cfg.RedisAddr, cfg.ScratchDir)
	}

	mgr := inject.NewManager(clk, injectors, cfg.ErrorRate, cfg.CooldownMs, cfg.DurationMs)
	mgr.Run(ctx, cfg.TickMs, cfg.TotalTicks)
	intervals := mgr.Collect()

	return writeLog(cfg.LogFile, intervals)
}

func writeLog(path string, intervals []inject.NamedInterval) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("campaign: creating injection log %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("campaign: writing injection log header: %w", err)
	}
	for _, iv := range intervals {
		record := []string{
			strconv.FormatInt(iv.Start, 10),
			strconv.FormatInt(iv.End, 10),
			iv.InjName,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("campaign: writing injection log row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// Runner launches the campaign as a genuine child OS process and harvests
// its injection log after it exits, per spec.md §5: the monitor must
// observe campaign load through the kernel, not through in-process
// accounting.
type Runner struct {
	cmd     *exec.Cmd
	logFile string
}

// Launch starts `exe campaign run <flags>` as a child process. exe is
// normally os.Executable(); the caller owns tearing the process down via
// Wait or killing it if the monitor loop errors out first.
func Launch(exe string, cfg Config) (*Runner, error) {
	args := []string{
		"campaign", "run",
		"--tick-ms", strconv.FormatInt(cfg.TickMs, 10),
		"--total-ticks", strconv.Itoa(cfg.TotalTicks),
		"--error-rate", strconv.FormatFloat(cfg.ErrorRate, 'f', -1, 64),
		"--cooldown-ms", strconv.FormatInt(cfg.CooldownMs, 10),
		"--duration-ms", strconv.FormatInt(cfg.DurationMs, 10),
		"--redis-addr", cfg.RedisAddr,
		"--scratch-dir", cfg.ScratchDir,
		"--log-file", cfg.LogFile,
	}
	if cfg.SpecFile != "" {
		args = append(args, "--spec-file", cfg.SpecFile)
	}

	cmd := exec.Command(exe, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("campaign: launching child process: %w", err)
	}
	log.Infof("campaign: launched child process pid %d", cmd.Process.Pid)
	return &Runner{cmd: cmd, logFile: cfg.LogFile}, nil
}

// Wait blocks until the campaign process exits, logging (not failing) a
// non-zero exit since a campaign that had to be force-closed is a
// documented, non-fatal outcome (spec.md §7).
func (r *Runner) Wait() {
	if err := r.cmd.Wait(); err != nil {
		log.Warnf("campaign: child process exited with error: %v", err)
	}
}

// Kill force-terminates the campaign process. Used when the monitor loop
// exits (or errors) before the campaign's own tick budget has elapsed.
func (r *Runner) Kill() {
	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
}

// Harvest reads back the injection log the child process wrote on exit.
// Must be called after Wait returns.
func (r *Runner) Harvest() ([]inject.NamedInterval, error) {
	f, err := os.Open(r.logFile)
	if err != nil {
		return nil, fmt.Errorf("campaign: opening injection log %s: %w", r.logFile, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("campaign: reading injection log header: %w", err)
	}

	var out []inject.NamedInterval
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		if len(row) != 3 {
			continue
		}
		start, errA := strconv.ParseInt(row[0], 10, 64)
		end, errB := strconv.ParseInt(row[1], 10, 64)
		if errA != nil || errB != nil {
			continue
		}
		out = append(out, inject.NamedInterval{Interval: inject.Interval{Start: start, End: end}, InjName: row[2]})
	}
	return out, nil
}

// WaitContextOrKill waits for the campaign to finish, but kills it early
// if ctx is cancelled first (e.g. the monitor loop exited under the
// strict deadline policy). timeout bounds how long Kill is given to take
// effect before Wait gives up blocking.
func (r *Runner) WaitContextOrKill(ctx context.Context, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		r.Kill()
		select {
		case <-done:
		case <-time.After(timeout):
			log.Warnf("campaign: process did not exit within %s of being killed", timeout)
		}
	}
}
