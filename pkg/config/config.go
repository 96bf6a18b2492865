// Package config defines the control surface described in spec.md §6, a
// plain struct populated from cobra flags bound through viper, passed
// explicitly into constructors rather than read from a package-level
// singleton.
package config

import "github.com/spf13/viper"

// Monitor is the control surface for the monitor entry point.
type Monitor struct {
	TickMs     int64
	TotalTicks int
	BatchSize  int
	OutputFile string
	Strict     bool
	Verbosity  int

	ProbeShellTimeout int
	DiskPath          string
	RedisAddr         string
	RedisKeys         []string
}

// Campaign is the control surface for the injection campaign, shared by
// the "campaign run" subcommand and the monitor's launch of it as a child
// process.
type Campaign struct {
	TickMs     int64
	TotalTicks int
	ErrorRate  float64
	CooldownMs int64
	DurationMs int64
	InjectorSpec string
	RedisAddr  string
	ScratchDir string
	LogFile    string
	Verbosity  int
}

// Merge is the control surface for the merge utility.
type Merge struct {
	MonitorFile    string
	InjectionsFile string
	OutputFile     string
	TimestampTag   string
	Verbosity      int
}

// BindMonitorDefaults registers the monitor flags' defaults into v so
// viper can source them from flags, environment, or a config file with a
// single precedence chain.
func BindMonitorDefaults(v *viper.Viper) {
	v.SetDefault("tick_ms", 1000)
	v.SetDefault("total_ticks", 60)
	v.SetDefault("batch_size", 10)
	v.SetDefault("output_file", "monitor.csv")
	v.SetDefault("strict", true)
	v.SetDefault("verbosity", 1)
	v.SetDefault("disk_path", "/")
	v.SetDefault("redis_addr", "localhost:6379")
}

// MonitorFromViper reads a populated Monitor out of v, after flags have
// been bound via BindMonitorDefaults and pflag.
func MonitorFromViper(v *viper.Viper) Monitor {
	return Monitor{
		TickMs:     v.GetInt64("tick_ms"),
		TotalTicks: v.GetInt("total_ticks"),
		BatchSize:  v.GetInt("batch_size"),
		OutputFile: v.GetString("output_file"),
		Strict:     v.GetBool("strict"),
		Verbosity:  v.GetInt("verbosity"),
		DiskPath:   v.GetString("disk_path"),
		RedisAddr:  v.GetString("redis_addr"),
		RedisKeys:  v.GetStringSlice("redis_keys"),
	}
}

// BindCampaignDefaults registers the campaign flags' defaults into v.
func BindCampaignDefaults(v *viper.Viper) {
	v.SetDefault("tick_ms", 1000)
	v.SetDefault("total_ticks", 60)
	v.SetDefault("error_rate", 0.1)
	v.SetDefault("cooldown_ms", 5000)
	v.SetDefault("duration_ms", 10000)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("scratch_dir", ".")
	v.SetDefault("log_file", "injections.csv")
	v.SetDefault("verbosity", 1)
}

// CampaignFromViper reads a populated Campaign out of v.
func CampaignFromViper(v *viper.Viper) Campaign {
	return Campaign{
		TickMs:       v.GetInt64("tick_ms"),
		TotalTicks:   v.GetInt("total_ticks"),
		ErrorRate:    v.GetFloat64("error_rate"),
		CooldownMs:   v.GetInt64("cooldown_ms"),
		DurationMs:   v.GetInt64("duration_ms"),
		InjectorSpec: v.GetString("injector_spec"),
		RedisAddr:    v.GetString("redis_addr"),
		ScratchDir:   v.GetString("scratch_dir"),
		LogFile:      v.GetString("log_file"),
		Verbosity:    v.GetInt("verbosity"),
	}
}

// BindMergeDefaults registers the merge flags' defaults into v.
func BindMergeDefaults(v *viper.Viper) {
	v.SetDefault("output_file", "monitor_labeled.csv")
	v.SetDefault("timestamp_tag", "timestamp")
	v.SetDefault("verbosity", 1)
}

// MergeFromViper reads a populated Merge out of v.
func MergeFromViper(v *viper.Viper) Merge {
	return Merge{
		MonitorFile:    v.GetString("monitor_file"),
		InjectionsFile: v.GetString("injections_file"),
		OutputFile:     v.GetString("output_file"),
		TimestampTag:   v.GetString("timestamp_tag"),
		Verbosity:      v.GetInt("verbosity"),
	}
}
