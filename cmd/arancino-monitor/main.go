// Command arancino-monitor is the single entry point for the telemetry
// and fault-injection harness described in spec.md: "monitor" samples
// host state, "campaign run" drives a fault campaign in an isolated OS
// process launched by monitor, "internal-worker" is the hidden form used
// by CPU/Disk/Deadlock/HTTP-read injectors to spawn their own OS-process
// workers, and "merge" joins a monitor log with an injection log.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "arancino-monitor",
		Short: "Host telemetry and fault-injection harness for edge/IoT gateways",
	}
	root.AddCommand(newMonitorCommand())
	root.AddCommand(newCampaignCommand())
	root.AddCommand(newInternalWorkerCommand())
	root.AddCommand(newMergeCommand())
	return root
}
