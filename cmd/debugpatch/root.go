package main

import (
	"github.com/ThousandsOfTies/home-teacher-core/cmd/debugpatch/opts"
	"github.com/ThousandsOfTies/home-teacher-core/pkg/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
	async      bool
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".debugpatch.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&async, "async", false, "process targets concurrently")
}

// newPreRun finishes initializing RootOpts once flags are parsed
func newPreRun(rootOpts *opts.RootOpts) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}

		cfg, err := config.Load(cmd.Context(), configFile)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}

		rootOpts.Config = cfg
		rootOpts.Async = async
		return nil
	}
}
