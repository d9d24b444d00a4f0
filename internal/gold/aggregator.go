// Package gold derives the aggregated summary artifact from the full silver
// dataset.
package gold

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/brewery"
)

// Aggregator groups the silver dataset and counts breweries per group.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator builds an Aggregator.
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

type groupKey struct {
	breweryType string
	country     string
	state       string
}

// Aggregate counts records per (brewery_type, country, state) combination.
// Only combinations actually observed in the input produce a row; the result
// is sorted ascending by (country, state, brewery_type). An empty input is a
// validation error.
func (a *Aggregator) Aggregate(records []brewery.Cleaned) ([]brewery.GoldRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot aggregate: silver dataset is empty: %w", brewery.ErrEmptyInput)
	}

	counts := make(map[groupKey]int64)
	for _, rec := range records {
		counts[groupKey{rec.BreweryType, rec.Country, rec.State}]++
	}

	rows := make([]brewery.GoldRow, 0, len(counts))
	var total int64
	for key, count := range counts {
		rows = append(rows, brewery.GoldRow{
			BreweryType:  key.breweryType,
			Country:      key.country,
			State:        key.state,
			BreweryCount: count,
		})
		total += count
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Country != rows[j].Country {
			return rows[i].Country < rows[j].Country
		}
		if rows[i].State != rows[j].State {
			return rows[i].State < rows[j].State
		}
		return rows[i].BreweryType < rows[j].BreweryType
	})

	a.logger.Info("aggregation complete",
		zap.Int("groups", len(rows)),
		zap.Int64("total_breweries", total),
	)
	return rows, nil
}
