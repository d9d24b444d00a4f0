package quality_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogotoledo/inbev-case/internal/brewery"
	"github.com/diogotoledo/inbev-case/internal/gold"
	"github.com/diogotoledo/inbev-case/internal/quality"
)

// nullableRow mirrors the artifact schema with nullable key columns so tests
// can craft malformed artifacts.
type nullableRow struct {
	BreweryType  *string `parquet:"brewery_type,optional"`
	Country      *string `parquet:"country,optional"`
	State        *string `parquet:"state,optional"`
	BreweryCount int64   `parquet:"brewery_count"`
}

func strPtr(s string) *string { return &s }

func writeArtifact(t *testing.T, rows []brewery.GoldRow) string {
	t.Helper()
	store, err := gold.NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	path, err := store.Save(context.Background(), rows)
	require.NoError(t, err)
	return path
}

func TestCheckPassesOnWellFormedArtifact(t *testing.T) {
	t.Parallel()

	path := writeArtifact(t, []brewery.GoldRow{
		{BreweryType: "micro", Country: "United States", State: "California", BreweryCount: 2},
		{BreweryType: "nano", Country: "United States", State: "Texas", BreweryCount: 1},
		{BreweryType: "brewpub", Country: "Ireland", State: "Dublin", BreweryCount: 4},
	})

	report, err := quality.NewGate(nil).Check(path)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, int64(7), report.TotalBreweries)
	assert.Equal(t, 2, report.Countries)
	assert.Equal(t, 3, report.States)
}

func TestCheckFailsWhenArtifactMissing(t *testing.T) {
	t.Parallel()

	_, err := quality.NewGate(nil).Check(filepath.Join(t.TempDir(), "breweries_aggregated.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCheckFailsOnEmptyArtifact(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "breweries_aggregated.parquet")
	require.NoError(t, parquet.WriteFile(path, []brewery.GoldRow{}))

	_, err := quality.NewGate(nil).Check(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestCheckFailsWhenTotalSumsToZero(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "breweries_aggregated.parquet")
	rows := []brewery.GoldRow{
		{BreweryType: "micro", Country: "United States", State: "California", BreweryCount: 0},
		{BreweryType: "nano", Country: "United States", State: "Texas", BreweryCount: 0},
	}
	require.NoError(t, parquet.WriteFile(path, rows))

	_, err := quality.NewGate(nil).Check(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sums to zero")
}

func TestCheckFailsOnNullKeyColumns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "breweries_aggregated.parquet")
	rows := []nullableRow{
		{BreweryType: strPtr("micro"), Country: strPtr("United States"), State: strPtr("California"), BreweryCount: 2},
		{BreweryType: nil, Country: strPtr("United States"), State: nil, BreweryCount: 1},
	}
	require.NoError(t, parquet.WriteFile(path, rows))

	_, err := quality.NewGate(nil).Check(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null values in key columns")
	assert.Contains(t, err.Error(), "brewery_type=1")
	assert.Contains(t, err.Error(), "state=1")
}

func TestCheckFailsOnMissingColumn(t *testing.T) {
	t.Parallel()

	type partialRow struct {
		BreweryType string `parquet:"brewery_type"`
		Country     string `parquet:"country"`
	}
	path := filepath.Join(t.TempDir(), "breweries_aggregated.parquet")
	require.NoError(t, parquet.WriteFile(path, []partialRow{{BreweryType: "micro", Country: "US"}}))

	_, err := quality.NewGate(nil).Check(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}
