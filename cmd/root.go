// Package cmd defines and implements the CLI commands for the brewery
// pipeline executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/bronze"
	"github.com/diogotoledo/inbev-case/internal/clock/system"
	"github.com/diogotoledo/inbev-case/internal/config"
	"github.com/diogotoledo/inbev-case/internal/fetcher"
	"github.com/diogotoledo/inbev-case/internal/gold"
	"github.com/diogotoledo/inbev-case/internal/logging"
	"github.com/diogotoledo/inbev-case/internal/metrics"
	"github.com/diogotoledo/inbev-case/internal/pipeline"
	"github.com/diogotoledo/inbev-case/internal/quality"
	"github.com/diogotoledo/inbev-case/internal/silver"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App holds the long-lived services the commands operate on.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Runner *pipeline.Runner
}

// Close flushes buffered log entries.
func (a *App) Close() {
	_ = a.Logger.Sync() //nolint:errcheck // best-effort flush on shutdown
}

// newApp is the application factory. It's a variable so tests can replace
// it with a mock factory.
var newApp = func(_ context.Context) (*App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	metrics.Init()

	client := fetcher.New(fetcher.Config{
		BaseURL:   cfg.API.BaseURL,
		PageSize:  cfg.API.PageSize,
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.Timeout(),
		MaxPages:  cfg.API.MaxPages,
	}, logger.Named("fetcher"))

	bronzeStore, err := bronze.NewStore(cfg.Paths.Bronze, system.New(), logger.Named("bronze"))
	if err != nil {
		return nil, fmt.Errorf("init bronze store: %w", err)
	}
	silverStore, err := silver.NewStore(cfg.Paths.Silver, logger.Named("silver"))
	if err != nil {
		return nil, fmt.Errorf("init silver store: %w", err)
	}
	goldStore, err := gold.NewStore(cfg.Paths.Gold, logger.Named("gold"))
	if err != nil {
		return nil, fmt.Errorf("init gold store: %w", err)
	}

	runner := pipeline.NewRunner(
		client,
		bronzeStore,
		silver.NewCleaner(logger.Named("cleaner")),
		silverStore,
		gold.NewAggregator(logger.Named("aggregator")),
		goldStore,
		quality.NewGate(logger.Named("quality")),
		logger.Named("pipeline"),
	)

	return &App{Config: cfg, Logger: logger, Runner: runner}, nil
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brewery-pipeline",
		Short: "Medallion-architecture batch pipeline for Open Brewery DB data.",
		Long: `brewery-pipeline ingests the Open Brewery DB API into a bronze layer of
raw JSON snapshots, cleans and re-partitions it into a silver Parquet
dataset, aggregates it into a gold summary artifact, and validates the
result with a data quality gate.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; defaults + BREWERY_* env vars otherwise)")

	cmd.AddCommand(
		newIngestCmd(),
		newTransformCmd(),
		newAggregateCmd(),
		newQualityCheckCmd(),
		newRunCmd(),
		newServeCmd(),
	)
	return cmd
}

func resolveApp(ctx context.Context) (*App, error) {
	appInstance, ok := ctx.Value(appKey).(*App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command execution failed: %v\n", err)
		os.Exit(1)
	}
}
