package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vibin_discovery/config"
	"vibin_discovery/logging"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	cfg     *config.ClientConfig
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "deck",
	Short: "Swipe through discovery candidates from the terminal",
	Long: `deck talks to a vibin discovery server.

Example usage:
  deck token --user u1     # get a token from a dev mode server
  deck swipe               # start swiping with the configured token`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var errNoUser = errors.New("no user id configured")

// Execute runs the root command until ctx is done.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .vibin.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func initConfig() error {
	var err error
	cfg, err = config.LoadClient(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err = logging.New(level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", zap.String("base_url", cfg.BaseURL))
	return nil
}
