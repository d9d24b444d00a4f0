// Package quality validates the gold artifact after a pipeline run. It is a
// post-hoc gate: it detects and reports invariant violations but never
// corrects data and has no write side effects.
package quality

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/metrics"
)

// keyColumns must be present and null-free in every artifact row.
var keyColumns = []string{"brewery_type", "country", "state"}

const countColumn = "brewery_count"

// Report summarizes a passing quality check.
type Report struct {
	Rows           int
	TotalBreweries int64
	Countries      int
	States         int
}

// Gate checks gold artifacts.
type Gate struct {
	logger *zap.Logger
}

// NewGate builds a Gate.
func NewGate(logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{logger: logger}
}

// Check fails when the artifact is missing, holds zero rows, sums to a zero
// total count, or carries a null in any key column. On success it returns a
// summary of what was validated.
func (g *Gate) Check(path string) (Report, error) {
	report, err := g.check(path)
	if err != nil {
		metrics.QualityCheck("fail")
		g.logger.Error("data quality check failed", zap.Error(err))
		return Report{}, err
	}
	metrics.QualityCheck("pass")
	g.logger.Info("data quality check passed",
		zap.Int("groups", report.Rows),
		zap.Int64("total_breweries", report.TotalBreweries),
		zap.Int("countries", report.Countries),
		zap.Int("states", report.States),
	)
	return report, nil
}

func (g *Gate) check(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Report{}, fmt.Errorf("gold artifact not found at %s", path)
		}
		return Report{}, fmt.Errorf("open gold artifact: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	stat, err := f.Stat()
	if err != nil {
		return Report{}, fmt.Errorf("stat gold artifact: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return Report{}, fmt.Errorf("parse gold artifact: %w", err)
	}

	columns, err := columnIndexes(pf)
	if err != nil {
		return Report{}, err
	}

	var (
		rowCount   int
		total      int64
		nullCounts = map[string]int{}
		countries  = map[string]struct{}{}
		states     = map[string]struct{}{}
	)

	for _, group := range pf.RowGroups() {
		rows := group.Rows()
		buf := make([]parquet.Row, 64)
		for {
			n, readErr := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				rowCount++
				for _, value := range row {
					switch value.Column() {
					case columns[countColumn]:
						total += value.Int64()
					case columns["country"]:
						if !value.IsNull() {
							countries[value.String()] = struct{}{}
						}
					case columns["state"]:
						if !value.IsNull() {
							states[value.String()] = struct{}{}
						}
					}
					for _, key := range keyColumns {
						if value.Column() == columns[key] && value.IsNull() {
							nullCounts[key]++
						}
					}
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				rows.Close() //nolint:errcheck // already failing
				return Report{}, fmt.Errorf("read gold artifact rows: %w", readErr)
			}
		}
		if err := rows.Close(); err != nil {
			return Report{}, fmt.Errorf("close gold artifact rows: %w", err)
		}
	}

	if rowCount == 0 {
		return Report{}, fmt.Errorf("gold artifact %s is empty", path)
	}
	if total == 0 {
		return Report{}, fmt.Errorf("gold artifact %s: brewery_count sums to zero", path)
	}
	if len(nullCounts) > 0 {
		return Report{}, fmt.Errorf("gold artifact %s: null values in key columns: %s", path, formatNullCounts(nullCounts))
	}

	return Report{
		Rows:           rowCount,
		TotalBreweries: total,
		Countries:      len(countries),
		States:         len(states),
	}, nil
}

// columnIndexes maps the expected column names to their leaf column index in
// the artifact schema.
func columnIndexes(pf *parquet.File) (map[string]int, error) {
	indexes := make(map[string]int)
	for i, path := range pf.Schema().Columns() {
		indexes[path[len(path)-1]] = i
	}
	for _, name := range append(append([]string(nil), keyColumns...), countColumn) {
		if _, ok := indexes[name]; !ok {
			return nil, fmt.Errorf("gold artifact schema is missing column %q", name)
		}
	}
	return indexes, nil
}

func formatNullCounts(nullCounts map[string]int) string {
	keys := make([]string, 0, len(nullCounts))
	for key := range nullCounts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", key, nullCounts[key]))
	}
	return strings.Join(parts, ", ")
}
