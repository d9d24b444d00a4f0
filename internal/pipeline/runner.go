// Package pipeline executes the medallion stages in their fixed order:
// ingest -> transform -> aggregate -> quality check. Each stage reads its
// input from durable storage written by the previous one; there is no
// in-memory handoff across stages.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/brewery"
	"github.com/diogotoledo/inbev-case/internal/bronze"
	"github.com/diogotoledo/inbev-case/internal/gold"
	"github.com/diogotoledo/inbev-case/internal/metrics"
	"github.com/diogotoledo/inbev-case/internal/quality"
	"github.com/diogotoledo/inbev-case/internal/silver"
)

// Fetcher is the upstream API surface the ingest stage depends on.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]brewery.Record, error)
}

// Runner wires the stage implementations together. It is strictly
// sequential and assumes single-writer access to the storage roots for the
// duration of one run.
type Runner struct {
	fetcher     Fetcher
	bronzeStore *bronze.Store
	cleaner     *silver.Cleaner
	silverStore *silver.Store
	aggregator  *gold.Aggregator
	goldStore   *gold.Store
	gate        *quality.Gate
	logger      *zap.Logger
}

// NewRunner builds a Runner.
func NewRunner(
	fetcher Fetcher,
	bronzeStore *bronze.Store,
	cleaner *silver.Cleaner,
	silverStore *silver.Store,
	aggregator *gold.Aggregator,
	goldStore *gold.Store,
	gate *quality.Gate,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		fetcher:     fetcher,
		bronzeStore: bronzeStore,
		cleaner:     cleaner,
		silverStore: silverStore,
		aggregator:  aggregator,
		goldStore:   goldStore,
		gate:        gate,
		logger:      logger,
	}
}

// Ingest fetches every page from the API and lands a new bronze snapshot.
func (r *Runner) Ingest(ctx context.Context) (string, error) {
	records, err := r.fetcher.FetchAll(ctx)
	if err != nil {
		return "", fmt.Errorf("ingest: %w", err)
	}
	metrics.RecordsObserved("ingested", len(records))

	path, err := r.bronzeStore.Save(ctx, records)
	if err != nil {
		return "", fmt.Errorf("ingest: %w", err)
	}
	return path, nil
}

// Transform loads the most recent bronze snapshot, cleans it, and rewrites
// the affected silver partitions.
func (r *Runner) Transform(ctx context.Context) (string, error) {
	records, err := r.bronzeStore.LoadLatest(ctx)
	if err != nil {
		return "", fmt.Errorf("transform: %w", err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("transform: bronze snapshot holds no records: %w", brewery.ErrEmptyInput)
	}

	cleaned, _ := r.cleaner.Clean(records)
	path, err := r.silverStore.Save(ctx, cleaned)
	if err != nil {
		return "", fmt.Errorf("transform: %w", err)
	}
	return path, nil
}

// Aggregate loads the full silver dataset, groups and counts it, and
// replaces the gold artifact.
func (r *Runner) Aggregate(ctx context.Context) (string, error) {
	records, err := r.silverStore.LoadAll(ctx)
	if err != nil {
		return "", fmt.Errorf("aggregate: %w", err)
	}
	rows, err := r.aggregator.Aggregate(records)
	if err != nil {
		return "", fmt.Errorf("aggregate: %w", err)
	}
	path, err := r.goldStore.Save(ctx, rows)
	if err != nil {
		return "", fmt.Errorf("aggregate: %w", err)
	}
	return path, nil
}

// QualityCheck validates the gold artifact.
func (r *Runner) QualityCheck(_ context.Context) (quality.Report, error) {
	report, err := r.gate.Check(r.goldStore.ArtifactPath())
	if err != nil {
		return quality.Report{}, fmt.Errorf("quality check: %w", err)
	}
	return report, nil
}

// Run executes all four stages in order. The first failing stage aborts the
// run and its error is returned to the caller unchanged in kind.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run_id", runID))
	logger.Info("pipeline run started")

	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"ingest", func(ctx context.Context) error {
			_, err := r.Ingest(ctx)
			return err
		}},
		{"transform", func(ctx context.Context) error {
			_, err := r.Transform(ctx)
			return err
		}},
		{"aggregate", func(ctx context.Context) error {
			_, err := r.Aggregate(ctx)
			return err
		}},
		{"quality_check", func(ctx context.Context) error {
			_, err := r.QualityCheck(ctx)
			return err
		}},
	}

	for _, stage := range stages {
		start := time.Now()
		err := stage.fn(ctx)
		elapsed := time.Since(start)

		status := "success"
		if err != nil {
			status = "failure"
		}
		metrics.StageCompleted(stage.name, status, elapsed)

		if err != nil {
			logger.Error("stage failed",
				zap.String("stage", stage.name),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
			return err
		}
		logger.Info("stage complete",
			zap.String("stage", stage.name),
			zap.Duration("elapsed", elapsed),
		)
	}

	logger.Info("pipeline run complete")
	return nil
}
