//go:build windows

package inject

// RunDeadlockWorker is not supported on Windows: flock()-based cross-
// process mutual exclusion has no direct equivalent via the standard
// library here, and this harness targets Linux edge/IoT gateways (spec.md
// §1). The worker exits immediately rather than busy-loop uselessly.
func RunDeadlockWorker(lockAPath, lockBPath string, reversed bool) {}
