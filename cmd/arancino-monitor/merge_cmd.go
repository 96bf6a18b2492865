package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tommyippoz/arancino-monitor/pkg/config"
	"github.com/tommyippoz/arancino-monitor/pkg/merge"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

func newMergeCommand() *cobra.Command {
	v := viper.New()
	config.BindMergeDefaults(v)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Join a monitor log with an injection log into a labeled dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(config.MergeFromViper(v))
		},
	}

	flags := cmd.Flags()
	flags.String("monitor-file", "", "path of the monitor CSV input (required)")
	flags.String("injections-file", "", "path of the injection CSV input (required)")
	flags.String("output-file", v.GetString("output_file"), "path of the labeled CSV output")
	flags.String("timestamp-tag", v.GetString("timestamp_tag"), "timestamp column name in the monitor file")
	flags.Int("verbosity", v.GetInt("verbosity"), "0 quiet, 1 base info, 2 chatty diagnostics")
	_ = cmd.MarkFlagRequired("monitor-file")
	_ = cmd.MarkFlagRequired("injections-file")

	bindAliased(v, flags, map[string]string{
		"monitor_file": "monitor-file", "injections_file": "injections-file",
		"output_file": "output-file", "timestamp_tag": "timestamp-tag", "verbosity": "verbosity",
	})

	return cmd
}

func runMerge(mc config.Merge) error {
	log.Configure(mc.Verbosity)
	defer log.Flush()

	nInj, nRows, err := merge.Merge(mc.MonitorFile, mc.InjectionsFile, mc.OutputFile, mc.TimestampTag)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	log.Infof("merge: %d injections retrieved, %d monitor rows labeled into %s", nInj, nRows, mc.OutputFile)
	return nil
}
