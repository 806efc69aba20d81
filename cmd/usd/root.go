package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/usd"
	"github.com/input-output-hk/catalyst-forge-libs/usd/config"
)

// volumeFunc builds the volume a command works on.
type volumeFunc func(cmd *cobra.Command) (*usd.Volume, error)

type rootFlags struct {
	configPath string
	logLevel   string
}

// newRootCmd builds the command tree. If newVolume is nil, the volume comes
// from the configuration.
func newRootCmd(newVolume volumeFunc) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "usd",
		Short:         "Micro-SD volume tool",
		Long:          `usd reads and writes files on the micro-SD volume mounted at /usd/.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := config.DefaultConfig()
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file path (TOML)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "",
		fmt.Sprintf("Log level: debug, info, warn, error (default: %s)", defaults.Log.Level))

	if newVolume == nil {
		newVolume = flags.loadVolume
	}

	rootCmd.AddCommand(newPutCmd(newVolume))
	rootCmd.AddCommand(newGetCmd(newVolume))
	rootCmd.AddCommand(newCatCmd(newVolume))
	rootCmd.AddCommand(newWriteCmd(newVolume))

	return rootCmd
}

// loadVolume loads the configuration with priority defaults < file < env < flags.
func (f *rootFlags) loadVolume(cmd *cobra.Command) (*usd.Volume, error) {
	cfg, err := config.NewLoader(f.configPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg.NewVolume(cmd.Context(), cfg.NewLogger(os.Stderr))
}
