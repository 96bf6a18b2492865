package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tommyippoz/arancino-monitor/pkg/campaign"
	"github.com/tommyippoz/arancino-monitor/pkg/clock"
	"github.com/tommyippoz/arancino-monitor/pkg/config"
	"github.com/tommyippoz/arancino-monitor/pkg/monitor"
	"github.com/tommyippoz/arancino-monitor/pkg/probe"
	"github.com/tommyippoz/arancino-monitor/pkg/sink"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

func newMonitorCommand() *cobra.Command {
	v := viper.New()
	config.BindMonitorDefaults(v)
	config.BindCampaignDefaults(v)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Sample host telemetry into a labeled-ready tabular log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(config.MonitorFromViper(v), config.CampaignFromViper(v))
		},
	}

	flags := cmd.Flags()
	flags.Int64("tick-ms", v.GetInt64("tick_ms"), "sampling cadence in milliseconds")
	flags.Int("total-ticks", v.GetInt("total_ticks"), "number of samples to take before exiting")
	flags.Int("batch-size", v.GetInt("batch_size"), "a sink flush fires whenever the buffered row count mod batch-size equals batch-size-1")
	flags.String("output-file", v.GetString("output_file"), "path of the monitor CSV output")
	flags.Bool("strict", v.GetBool("strict"), "exit on the first deadline miss instead of continuing")
	flags.Int("verbosity", v.GetInt("verbosity"), "0 quiet, 1 base info, 2 chatty per-tick diagnostics")
	flags.String("disk-path", v.GetString("disk_path"), "filesystem path the InProcess probe reports disk usage for")
	flags.String("redis-addr", v.GetString("redis_addr"), "address of the auxiliary key-value store")
	flags.StringSlice("redis-keys", nil, "keys the KVStoreData probe samples")

	flags.Float64("error-rate", v.GetFloat64("error_rate"), "probability per tick of starting an injection")
	flags.Int64("cooldown-ms", v.GetInt64("cooldown_ms"), "minimum silence after a completed injection")
	flags.Int64("duration-ms", v.GetInt64("duration_ms"), "per-injection duration in milliseconds")
	flags.String("injector-spec", "", "path to a declarative injector spec; empty uses the built-in set")
	flags.String("scratch-dir", v.GetString("scratch_dir"), "directory injectors may use for temporary files")
	flags.String("injections-file", v.GetString("log_file"), "path of the campaign's injection log")

	bindAliased(v, flags, map[string]string{
		"tick_ms": "tick-ms", "total_ticks": "total-ticks", "batch_size": "batch-size",
		"output_file": "output-file", "strict": "strict", "verbosity": "verbosity",
		"disk_path": "disk-path", "redis_addr": "redis-addr", "redis_keys": "redis-keys",
		"error_rate": "error-rate", "cooldown_ms": "cooldown-ms", "duration_ms": "duration-ms",
		"injector_spec": "injector-spec", "scratch_dir": "scratch-dir", "log_file": "injections-file",
	})

	cmd.AddCommand(newProbesCommand())
	return cmd
}

// newProbesCommand is a small operator-facing smoke test, supplementing
// the original's debug_main.py: list which probes are available on this
// host and print one sample, without running a full monitor cycle.
func newProbesCommand() *cobra.Command {
	var diskPath, redisAddr string

	cmd := &cobra.Command{
		Use:   "probes",
		Short: "List available probes on this host and print one sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			clk := clock.New()
			mc := config.Monitor{DiskPath: diskPath, RedisAddr: redisAddr}
			registry := probe.NewRegistry(clk, defaultCandidates(mc))

			for _, p := range registry.Active() {
				fmt.Println(p.Describe())
			}
			row := registry.Collect()
			for _, col := range registry.Header() {
				fmt.Printf("%s = %v\n", col, row[col])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&diskPath, "disk-path", "/", "filesystem path the InProcess probe reports disk usage for")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "address of the auxiliary key-value store")
	return cmd
}

// bindAliased binds every flag in aliases (canonical viper key -> flag
// name) so CampaignFromViper/MonitorFromViper can read flags through
// their snake_case keys regardless of the kebab-case flag name cobra
// wants for the CLI surface.
func bindAliased(v *viper.Viper, flags *pflag.FlagSet, aliases map[string]string) {
	for key, flag := range aliases {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

func runMonitor(mc config.Monitor, cc config.Campaign) error {
	log.Configure(mc.Verbosity)
	defer log.Flush()

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("monitor: locating own executable for campaign launch: %w", err)
	}
	runner, err := campaign.Launch(exe, cc)
	if err != nil {
		return fmt.Errorf("monitor: launching injection campaign: %w", err)
	}

	clk := clock.New()
	registry := probe.NewRegistry(clk, defaultCandidates(mc))

	policy := monitor.Lenient
	if mc.Strict {
		policy = monitor.Strict
	}
	loop := monitor.New(clk, registry, policy)
	s := sink.New(mc.OutputFile, registry.DeclaredHeader()...)
	defer s.Close()

	runErr := loop.Run(mc.TickMs, mc.TotalTicks, mc.BatchSize, s)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	runner.WaitContextOrKill(ctx, 5*time.Second)

	if runErr != nil {
		return fmt.Errorf("monitor: loop exited with error: %w", runErr)
	}
	log.Infof("monitor: run complete, %d deadline misses", loop.DeadlineMisses)
	return nil
}

// defaultCandidates builds the full candidate probe list from spec.md
// §4.4: InProcess, ShellKV for meminfo/vmstat, ShellTabular for iostat,
// FileScalar for thermal, FileTabular for netdev, and the KVStore
// variants. Availability filtering happens inside probe.NewRegistry.
func defaultCandidates(mc config.Monitor) []probe.Probe {
	candidates := []probe.Probe{
		probe.NewInProcessProbe(mc.DiskPath),
		probe.NewShellKVProbe("meminfo", "cat", "mem", "/proc/meminfo"),
		probe.NewShellKVProbeSpaceSeparated("vmstat", "cat", "vm", "/proc/vmstat"),
		probe.NewShellTabularProbe("iostat", "iostat", "cpu_io", "avg-cpu", "-c"),
		probe.NewFileScalarProbe("thermal", "/sys/class/thermal/thermal_zone0/temp", "temp_c"),
		probe.NewFileTabularProbe("netdev", "/proc/net/dev", "net"),
		probe.NewKVStoreInfoProbe(mc.RedisAddr),
	}
	if len(mc.RedisKeys) > 0 {
		candidates = append(candidates, probe.NewKVStoreDataProbe(mc.RedisAddr, mc.RedisKeys...))
	}
	return candidates
}
