package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/engage/internal/config"
	"github.com/okian/engage/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "engage"

var globalFlags = struct {
	debug      bool
	configFile string
}{}

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		// cobra has already printed the error
		stop()
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Conference engagement backend: points, challenges, leads and prize draws",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveRun(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.configFile, "config", "", "path to config file (overrides "+config.EnvConfigFile+")")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(catalogCommand())
	return rootCmd
}

// commonRun loads configuration and sets up logging and GOMAXPROCS.
func commonRun(ctx context.Context) (*config.Config, logger.Logger, error) {
	if globalFlags.configFile != "" {
		if err := os.Setenv(config.EnvConfigFile, globalFlags.configFile); err != nil {
			return nil, nil, fmt.Errorf("set config path: %w", err)
		}
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Named(programName)

	level := cfg.LogLevel
	if globalFlags.debug {
		level = "debug"
	}
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(level); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Configure max processes with our logger, toss undo func
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
		log.Info(ctx, fmt.Sprintf(format, v...))
	})); err != nil {
		log.Warn(ctx, "failed to set GOMAXPROCS", logger.Error(err))
	}

	return cfg, log, nil
}
