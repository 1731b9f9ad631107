// cmd/banking-etl/root.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hollis-data/banking-etl/pkg/cleaner"
	"github.com/hollis-data/banking-etl/pkg/config"
	"github.com/hollis-data/banking-etl/pkg/connector"
	"github.com/hollis-data/banking-etl/pkg/load"
	"github.com/hollis-data/banking-etl/pkg/pipeline"
	"github.com/hollis-data/banking-etl/pkg/quality"
	"github.com/hollis-data/banking-etl/pkg/store"
	"github.com/hollis-data/banking-etl/pkg/transform"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	envFile  string
	logLevel string
	logJSON  bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "banking-etl",
		Short: "Batch ETL pipeline for the banking warehouse",
		Long: `banking-etl cleans staged banking records into the dimensional
warehouse and evaluates the result with data quality checks.

Stages run in a fixed linear order: transform (clean, deduplicate,
populate dimensions), load (fact table), quality (check battery).
Each subcommand runs one stage; run executes the whole pipeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile != "" {
				if err := godotenv.Load(opts.envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", opts.envFile, err)
				}
			}
			return setupLogger(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to an env file loaded before configuration")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Emit JSON logs regardless of LOG_FORMAT")

	cmd.AddCommand(
		newRunCommand(),
		newTransformCommand(),
		newLoadCommand(),
		newQualityCommand(),
		newHealthCommand(),
		newMetricsCommand(),
	)

	return cmd
}

// setupLogger builds the global zap logger from flags and environment
func setupLogger(opts *rootOptions) error {
	level := opts.logLevel
	if level == "" {
		if level = os.Getenv("LOG_LEVEL"); level == "" {
			level = "info"
		}
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	format := os.Getenv("LOG_FORMAT")
	var cfg zap.Config
	if opts.logJSON || format == "" || format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	zap.ReplaceGlobals(logger)
	return nil
}

// app wires the full component graph for one command invocation
type app struct {
	cfg         *config.Config
	conn        *connector.Connector
	store       *store.Store
	transformer *transform.Orchestrator
	loader      *load.Loader
	quality     *quality.Runner
	pipeline    *pipeline.Runner
}

// newApp loads configuration, connects, and builds every component
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	conn, err := connector.NewConnector(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}

	st, err := store.New(conn.DB(), cfg.Pipeline, zap.L().Named("store"))
	if err != nil {
		conn.Close()
		return nil, err
	}

	transformer, err := transform.NewOrchestrator(
		st,
		cleaner.NewRowCleaner(zap.L().Named("row-cleaner")),
		cfg.Pipeline,
		zap.L().Named("transform"),
	)
	if err != nil {
		conn.Close()
		return nil, err
	}

	loader, err := load.NewLoader(st, cfg.Pipeline, zap.L().Named("load"))
	if err != nil {
		conn.Close()
		return nil, err
	}

	qualityRunner, err := quality.NewRunner(st, cfg.Pipeline, zap.L().Named("quality"))
	if err != nil {
		conn.Close()
		return nil, err
	}

	pipelineRunner, err := pipeline.NewRunner(
		conn, transformer, loader, qualityRunner, st,
		cfg.Pipeline, zap.L().Named("pipeline"),
	)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &app{
		cfg:         cfg,
		conn:        conn,
		store:       st,
		transformer: transformer,
		loader:      loader,
		quality:     qualityRunner,
		pipeline:    pipelineRunner,
	}, nil
}

// Close releases the database connection
func (a *app) Close() {
	if err := a.conn.Close(); err != nil {
		zap.L().Warn("Failed to close connection", zap.Error(err))
	}
}
