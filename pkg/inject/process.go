package inject

import (
	"context"
	"os"
	"os/exec"
)

// WorkerEnvVar is set in the environment of every self-exec'd worker
// process, marking it as a hidden internal worker invocation. No code in
// this module reads it; the CLI dispatches workers by the
// "internal-worker" subcommand alone.
const WorkerEnvVar = "ARANCINO_INTERNAL_WORKER"

// selfExecWorker launches a copy of the current binary, running the
// hidden "internal-worker <kind> <args...>" form cmd/arancino-monitor recognizes,
// as a genuine child OS process so the host scheduler is actually
// contended (spec.md §4.5 CPU/Disk/Deadlock/HTTP workers, §5 "uses a
// separate process per worker").
//
// ctx cancellation kills the child via the standard library's
// CommandContext semantics; callers that need a grace period should race
// ctx against their own timer before calling this.
func selfExecWorker(ctx context.Context, kind string, args ...string) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	cmdArgs := append([]string{"internal-worker", kind}, args...)
	cmd := exec.CommandContext(ctx, exe, cmdArgs...)
	cmd.Env = append(os.Environ(), WorkerEnvVar+"=1")
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// waitIgnoringKill waits for cmd to exit, swallowing the error produced
// when ctx cancellation killed it — that is the expected shutdown path
// for every process-backed worker, not a spawn failure.
func waitIgnoringKill(cmd *exec.Cmd) {
	_ = cmd.Wait()
}
