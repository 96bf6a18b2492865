package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tommyippoz/arancino-monitor/pkg/campaign"
	"github.com/tommyippoz/arancino-monitor/pkg/config"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// newCampaignCommand wraps the hidden "campaign run" form the monitor
// launches as a child process, per spec.md §5. It is hidden from help
// output but nothing else gates it: an operator may run a standalone
// campaign against a host with no monitor attached.
func newCampaignCommand() *cobra.Command {
	v := viper.New()
	config.BindCampaignDefaults(v)

	campaignCmd := &cobra.Command{
		Use:   "campaign",
		Short: "Drive an independently-scheduled fault injection campaign",
	}

	run := &cobra.Command{
		Use:    "run",
		Short:  "Run the campaign to completion and write its injection log",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCampaign(config.CampaignFromViper(v))
		},
	}

	flags := run.Flags()
	flags.Int64("tick-ms", v.GetInt64("tick_ms"), "campaign tick cadence in milliseconds")
	flags.Int("total-ticks", v.GetInt("total_ticks"), "campaign length in ticks")
	flags.Float64("error-rate", v.GetFloat64("error_rate"), "probability per tick of starting an injection")
	flags.Int64("cooldown-ms", v.GetInt64("cooldown_ms"), "minimum silence after a completed injection")
	flags.Int64("duration-ms", v.GetInt64("duration_ms"), "per-injection duration in milliseconds")
	flags.String("redis-addr", v.GetString("redis_addr"), "address of the auxiliary key-value store")
	flags.String("scratch-dir", v.GetString("scratch_dir"), "directory injectors may use for temporary files")
	flags.String("log-file", v.GetString("log_file"), "path the injection log is written to on exit")
	flags.String("spec-file", "", "path to a declarative injector spec; empty uses the built-in set")
	flags.Int("verbosity", v.GetInt("verbosity"), "0 quiet, 1 base info, 2 chatty per-tick diagnostics")

	bindAliased(v, flags, map[string]string{
		"tick_ms": "tick-ms", "total_ticks": "total-ticks", "error_rate": "error-rate",
		"cooldown_ms": "cooldown-ms", "duration_ms": "duration-ms", "redis_addr": "redis-addr",
		"scratch_dir": "scratch-dir", "log_file": "log-file", "injector_spec": "spec-file",
		"verbosity": "verbosity",
	})

	campaignCmd.AddCommand(run)
	return campaignCmd
}

func runCampaign(cc config.Campaign) error {
	log.Configure(cc.Verbosity)
	defer log.Flush()

	// A campaign process that receives SIGTERM (e.g. an operator killing
	// it directly, or the monitor's own teardown path) still writes
	// whatever intervals have completed so far before exiting.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return campaign.RunInline(ctx, campaign.Config{
		TickMs:     cc.TickMs,
		TotalTicks: cc.TotalTicks,
		ErrorRate:  cc.ErrorRate,
		CooldownMs: cc.CooldownMs,
		DurationMs: cc.DurationMs,
		RedisAddr:  cc.RedisAddr,
		ScratchDir: cc.ScratchDir,
		SpecFile:   cc.InjectorSpec,
		LogFile:    cc.LogFile,
	})
}

// newInternalWorkerCommand dispatches the hidden worker bodies spawned by
// the CPU/Disk/Deadlock/HTTP-read injectors via selfExecWorker (spec.md
// §4.5/§5): each variant's Inject() re-execs this same binary with
// "internal-worker <kind> <args>" so the host scheduler genuinely
// contends over separate OS processes, not goroutines.
func newInternalWorkerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "internal-worker [kind]",
		Short:  "Hidden worker body for a process-isolated injector",
		Hidden: true,
		Args:   cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchWorker(cmd, args)
		},
	}
	cmd.Flags().String("scratch", "", "disk-stress scratch directory")
	cmd.Flags().Int("blocks", 10, "disk-stress block count")
	cmd.Flags().Int("worker-id", 0, "disk-stress worker id, for a unique temp file name")
	cmd.Flags().String("lock-a", "", "deadlock first lock file path")
	cmd.Flags().String("lock-b", "", "deadlock second lock file path")
	cmd.Flags().Bool("reversed", false, "deadlock worker acquires lock-b before lock-a")
	cmd.Flags().String("urls", "", "comma-separated URL list for the http-read worker")
	return cmd
}
