package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newIngestCmd creates the 'ingest' subcommand: the bronze stage.
func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Fetches all breweries from the API and lands a bronze snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			path, err := app.Runner.Ingest(cmd.Context())
			if err != nil {
				return err
			}
			app.Logger.Info("ingestion complete", zap.String("path", path))
			return nil
		},
	}
}

// newTransformCmd creates the 'transform' subcommand: the silver stage.
func newTransformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform",
		Short: "Cleans the latest bronze snapshot into the partitioned silver dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			path, err := app.Runner.Transform(cmd.Context())
			if err != nil {
				return err
			}
			app.Logger.Info("silver transformation complete", zap.String("path", path))
			return nil
		},
	}
}

// newAggregateCmd creates the 'aggregate' subcommand: the gold stage.
func newAggregateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregates the silver dataset into the gold summary artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			path, err := app.Runner.Aggregate(cmd.Context())
			if err != nil {
				return err
			}
			app.Logger.Info("gold aggregation complete", zap.String("path", path))
			return nil
		},
	}
}

// newQualityCheckCmd creates the 'quality-check' subcommand.
func newQualityCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quality-check",
		Short: "Validates the gold artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			report, err := app.Runner.QualityCheck(cmd.Context())
			if err != nil {
				return err
			}
			app.Logger.Info("quality check passed",
				zap.Int("groups", report.Rows),
				zap.Int64("total_breweries", report.TotalBreweries),
			)
			return nil
		},
	}
}

// newRunCmd creates the 'run' subcommand: one full pipeline run.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Runs all four stages in order: ingest, transform, aggregate, quality-check",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return app.Runner.Run(cmd.Context())
		},
	}
}
