package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/brewery"
	"github.com/diogotoledo/inbev-case/internal/bronze"
	"github.com/diogotoledo/inbev-case/internal/config"
	"github.com/diogotoledo/inbev-case/internal/gold"
	"github.com/diogotoledo/inbev-case/internal/pipeline"
	"github.com/diogotoledo/inbev-case/internal/quality"
	"github.com/diogotoledo/inbev-case/internal/silver"
)

type stubFetcher struct {
	records []brewery.Record
}

func (f *stubFetcher) FetchAll(context.Context) ([]brewery.Record, error) {
	return f.records, nil
}

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func stubApp(t *testing.T) *App {
	t.Helper()

	bronzeStore, err := bronze.NewStore(t.TempDir(), &stubClock{now: time.Date(2024, 3, 7, 8, 0, 0, 0, time.UTC)}, nil)
	require.NoError(t, err)
	silverStore, err := silver.NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	goldStore, err := gold.NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	fetch := &stubFetcher{records: []brewery.Record{
		{"id": "1", "brewery_type": "micro", "state": "California", "country": "United States"},
		{"id": "2", "brewery_type": "nano", "state": "Texas", "country": "United States"},
	}}

	runner := pipeline.NewRunner(
		fetch,
		bronzeStore,
		silver.NewCleaner(nil),
		silverStore,
		gold.NewAggregator(nil),
		goldStore,
		quality.NewGate(nil),
		nil,
	)
	return &App{Config: config.Config{}, Logger: zap.NewNop(), Runner: runner}
}

func withStubApp(t *testing.T, app *App, err error) {
	t.Helper()
	orig := newApp
	t.Cleanup(func() { newApp = orig })
	newApp = func(context.Context) (*App, error) {
		return app, err
	}
}

func TestRunCommandExecutesPipeline(t *testing.T) {
	withStubApp(t, stubApp(t), nil)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run"})
	require.NoError(t, cmd.Execute())
}

func TestStageCommandsInOrder(t *testing.T) {
	withStubApp(t, stubApp(t), nil)

	for _, stage := range []string{"ingest", "transform", "aggregate", "quality-check"} {
		cmd := newRootCmd()
		cmd.SetArgs([]string{stage})
		require.NoError(t, cmd.Execute(), "stage %s", stage)
	}
}

func TestQualityCheckFailsBeforeAggregate(t *testing.T) {
	withStubApp(t, stubApp(t), nil)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"quality-check"})
	require.Error(t, cmd.Execute())
}

func TestCommandFailsWhenAppInitFails(t *testing.T) {
	withStubApp(t, nil, errors.New("boom"))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize application services")
}
