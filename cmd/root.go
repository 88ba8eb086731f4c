package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/guimove/trunkfit/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "trunkfit",
	Short: "Erlang-B channel sizing and provisioning simulator for cell sites",
	Long: `trunkfit sizes the voice channels of a cell site against a target grade
of service with the Erlang-B model.

It runs Monte Carlo simulations of a day of call attempts under fixed and
dynamic channel provisioning and ranks them by energy use and service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			_ = flag.Set("v", "2")
		}
		return loadConfig()
	},
}

// Execute runs the root command.
func Execute() {
	defer klog.Flush()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	klog.InitFlags(nil)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: trunkfit.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")

	// Global flags that map to config
	rootCmd.PersistentFlags().Int("daily-attempts", 0, "call attempts per day")
	rootCmd.PersistentFlags().Int("busy-hour-attempts", 0, "call attempts in the busy hour")
	rootCmd.PersistentFlags().Float64("mean-call-minutes", 0, "mean call holding time in minutes")
	rootCmd.PersistentFlags().String("profile-file", "", "hourly profile file (.json or .csv)")
	rootCmd.PersistentFlags().String("prometheus-url", "", "Prometheus endpoint to derive the hourly profile from")
	rootCmd.PersistentFlags().Float64("gos-target", 0, "target grade of service (blocking probability)")
	rootCmd.PersistentFlags().Int("max-channels", 0, "channel ceiling of the sizing search")
	rootCmd.PersistentFlags().IntSlice("block-sizes", nil, "channel block sizes for dynamic provisioning")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, markdown, csv")
	rootCmd.PersistentFlags().String("metrics-file", "", "write Prometheus metrics to this file")

	_ = viper.BindPFlag("traffic.daily_attempts", rootCmd.PersistentFlags().Lookup("daily-attempts"))
	_ = viper.BindPFlag("traffic.busy_hour_attempts", rootCmd.PersistentFlags().Lookup("busy-hour-attempts"))
	_ = viper.BindPFlag("traffic.mean_call_minutes", rootCmd.PersistentFlags().Lookup("mean-call-minutes"))
	_ = viper.BindPFlag("traffic.profile_file", rootCmd.PersistentFlags().Lookup("profile-file"))
	_ = viper.BindPFlag("traffic.prometheus.url", rootCmd.PersistentFlags().Lookup("prometheus-url"))
	_ = viper.BindPFlag("sizing.gos_target", rootCmd.PersistentFlags().Lookup("gos-target"))
	_ = viper.BindPFlag("sizing.max_channels", rootCmd.PersistentFlags().Lookup("max-channels"))
	_ = viper.BindPFlag("sizing.block_sizes", rootCmd.PersistentFlags().Lookup("block-sizes"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("metrics.file", rootCmd.PersistentFlags().Lookup("metrics-file"))
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()
	setFlagDefaults(cfg)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("trunkfit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.trunkfit")
	}

	// Environment variable overrides
	viper.SetEnvPrefix("TRUNKFIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	} else {
		klog.V(2).InfoS("Loaded config file", "path", viper.ConfigFileUsed())
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return cfg.Validate()
}

// setFlagDefaults registers the defaults of every flag-bound key, so an unset
// flag does not override them with its zero value.
func setFlagDefaults(d config.Config) {
	viper.SetDefault("traffic.daily_attempts", d.Traffic.DailyAttempts)
	viper.SetDefault("traffic.busy_hour_attempts", d.Traffic.BusyHourAttempts)
	viper.SetDefault("traffic.mean_call_minutes", d.Traffic.MeanCallMinutes)
	viper.SetDefault("traffic.profile_file", d.Traffic.ProfileFile)
	viper.SetDefault("traffic.prometheus.url", d.Traffic.Prometheus.URL)
	viper.SetDefault("sizing.gos_target", d.Sizing.GOSTarget)
	viper.SetDefault("sizing.max_channels", d.Sizing.MaxChannels)
	viper.SetDefault("sizing.block_sizes", d.Sizing.BlockSizes)
	viper.SetDefault("output.format", d.Output.Format)
	viper.SetDefault("metrics.file", d.Metrics.File)
}
