package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tommyippoz/arancino-monitor/pkg/inject"
)

// dispatchWorker runs the hidden body named by args[0]. Every body loops
// until killed (the deadlock body also returns early if it cannot open or
// lock its files); termination is the parent's job, via context
// cancellation or SIGKILL, not a return from these functions.
func dispatchWorker(cmd *cobra.Command, args []string) error {
	kind := args[0]
	flags := cmd.Flags()

	switch kind {
	case "cpu-burn":
		inject.RunCPUBurnWorker()
		return nil

	case "disk-stress":
		scratch, _ := flags.GetString("scratch")
		blocks, _ := flags.GetInt("blocks")
		workerID, _ := flags.GetInt("worker-id")
		inject.RunDiskStressWorker(scratch, blocks, workerID)
		return nil

	case "deadlock":
		lockA, _ := flags.GetString("lock-a")
		lockB, _ := flags.GetString("lock-b")
		reversed, _ := flags.GetBool("reversed")
		inject.RunDeadlockWorker(lockA, lockB, reversed)
		return nil

	case "http-read":
		rawURLs, _ := flags.GetString("urls")
		var urls []string
		if rawURLs != "" {
			urls = strings.Split(rawURLs, ",")
		}
		inject.RunHTTPReadWorker(urls)
		return nil

	default:
		return fmt.Errorf("internal-worker: unknown kind %q", kind)
	}
}
