package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hupe1980/wumpusmesh/config"
	"github.com/hupe1980/wumpusmesh/logging"
)

// cli holds the state shared by all subcommands.
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "wumpusmesh",
		Short: "Cooperative agents exploring the wumpus world",
		Long: `wumpusmesh lets a population of agents explore a partially observable grid.
Each agent deduces safe cells from breezes and stenches, plans shortest paths
to gold, chests and unexplored cells, and shares what it learns with its peers.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg

			c.logger, err = newZapLogger(cfg.Logging, c.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "simulation config file (defaults to the standard world)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd(c), newValidateCmd(c), newInitCmd())
	return root
}

func newZapLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zc = zap.NewDevelopmentConfig()
	}

	lvl, err := logging.ParseLogLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: logging.level: %w", config.ErrInvalidConfig, err)
	}
	level := zapcore.InfoLevel
	switch lvl {
	case logging.LogLevelDebug:
		level = zapcore.DebugLevel
	case logging.LogLevelWarn:
		level = zapcore.WarnLevel
	case logging.LogLevelError:
		level = zapcore.ErrorLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
