// Package silver cleans validated brewery records and manages the
// partitioned columnar dataset derived from the latest raw snapshot.
package silver

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/brewery"
	"github.com/diogotoledo/inbev-case/internal/metrics"
)

// Cleaner applies the silver-layer normalization and validation rules.
type Cleaner struct {
	logger *zap.Logger
}

// NewCleaner builds a Cleaner.
func NewCleaner(logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{logger: logger}
}

// Clean transforms raw records into validated silver rows. Field names are
// normalized to lowercase and trimmed; records missing brewery_type or state
// are dropped (the count of drops is returned); optional string fields
// default to "unknown"; latitude/longitude are coerced to numeric with
// unparseable values becoming nil, never a dropped row. An empty input
// yields an empty output without error.
func (c *Cleaner) Clean(records []brewery.Record) ([]brewery.Cleaned, int) {
	if len(records) == 0 {
		c.logger.Warn("input data is empty, returning empty result")
		return nil, 0
	}

	cleaned := make([]brewery.Cleaned, 0, len(records))
	dropped := 0
	for _, rec := range records {
		norm := normalizeKeys(rec)
		if !hasValue(norm, "brewery_type") || !hasValue(norm, "state") {
			dropped++
			continue
		}
		cleaned = append(cleaned, buildRow(norm))
	}

	if dropped > 0 {
		c.logger.Warn("dropped rows with missing brewery_type or state",
			zap.Int("dropped", dropped),
		)
	}
	metrics.RecordsObserved("cleaned", len(cleaned))
	metrics.RecordsObserved("dropped", dropped)

	c.logger.Info("transformation complete",
		zap.Int("rows", len(cleaned)),
		zap.Int("dropped", dropped),
	)
	return cleaned, dropped
}

func buildRow(rec brewery.Record) brewery.Cleaned {
	row := brewery.Cleaned{
		ID:          stringField(rec, "id"),
		Name:        stringField(rec, "name"),
		BreweryType: stringField(rec, "brewery_type"),
		State:       stringField(rec, "state"),
		Street:      stringField(rec, "street"),
		Longitude:   numericField(rec, "longitude"),
		Latitude:    numericField(rec, "latitude"),
	}

	defaulted := func(key string) string {
		if !hasValue(rec, key) {
			return "unknown"
		}
		return stringField(rec, key)
	}
	row.City = defaulted("city")
	row.Country = defaulted("country")
	row.StateProvince = defaulted("state_province")
	row.PostalCode = defaulted("postal_code")
	row.Phone = defaulted("phone")
	row.WebsiteURL = defaulted("website_url")
	row.Address1 = defaulted("address_1")
	row.Address2 = defaulted("address_2")
	row.Address3 = defaulted("address_3")
	return row
}

func normalizeKeys(rec brewery.Record) brewery.Record {
	norm := make(brewery.Record, len(rec))
	for key, value := range rec {
		norm[strings.TrimSpace(strings.ToLower(key))] = value
	}
	return norm
}

func hasValue(rec brewery.Record, key string) bool {
	value, ok := rec[key]
	return ok && value != nil
}

func stringField(rec brewery.Record, key string) string {
	value, ok := rec[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// numericField coerces a coordinate to a float. Unparseable values become
// nil rather than failing the row.
func numericField(rec brewery.Record, key string) *float64 {
	value, ok := rec[key]
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case float64:
		return &v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}
