package silver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogotoledo/inbev-case/internal/brewery"
)

var mockRecords = []brewery.Record{
	{
		"id": "1", "name": "Brew A", "brewery_type": "micro",
		"state": "California", "country": "United States",
		"city": "Los Angeles", "latitude": "34.05", "longitude": "-118.24",
	},
	{
		"id": "2", "name": "Brew B", "brewery_type": "nano",
		"state": "Texas", "country": "United States",
		"city": "Austin", "latitude": "30.26", "longitude": "-97.74",
	},
	{
		"id": "3", "name": "Brew C", "brewery_type": nil,
		"state": nil, "country": "United States",
		"city": nil, "latitude": nil, "longitude": nil,
	},
}

func TestCleanEmptyInput(t *testing.T) {
	t.Parallel()

	cleaned, dropped := NewCleaner(nil).Clean(nil)
	assert.Empty(t, cleaned)
	assert.Zero(t, dropped)
}

func TestCleanDropsRowsMissingCriticalFields(t *testing.T) {
	t.Parallel()

	cleaned, dropped := NewCleaner(nil).Clean(mockRecords)
	require.Len(t, cleaned, 2)
	assert.Equal(t, 1, dropped)
	for _, row := range cleaned {
		assert.NotEmpty(t, row.BreweryType)
		assert.NotEmpty(t, row.State)
	}
}

func TestCleanFillsMissingOptionalFieldsWithUnknown(t *testing.T) {
	t.Parallel()

	records := []brewery.Record{{
		"id": "1", "brewery_type": "micro", "state": "California",
		"country": "United States", "city": nil,
	}}
	cleaned, _ := NewCleaner(nil).Clean(records)
	require.Len(t, cleaned, 1)

	assert.Equal(t, "unknown", cleaned[0].City)
	assert.Equal(t, "unknown", cleaned[0].Phone)
	assert.Equal(t, "unknown", cleaned[0].PostalCode)
	assert.Equal(t, "unknown", cleaned[0].Address1)
	assert.Equal(t, "United States", cleaned[0].Country)
}

func TestCleanCoercesCoordinates(t *testing.T) {
	t.Parallel()

	cleaned, _ := NewCleaner(nil).Clean(mockRecords)
	require.Len(t, cleaned, 2)
	require.NotNil(t, cleaned[0].Latitude)
	assert.InDelta(t, 34.05, *cleaned[0].Latitude, 1e-9)
	require.NotNil(t, cleaned[0].Longitude)
	assert.InDelta(t, -118.24, *cleaned[0].Longitude, 1e-9)
}

func TestCleanInvalidCoordinatesBecomeNil(t *testing.T) {
	t.Parallel()

	records := []brewery.Record{{
		"id": "1", "brewery_type": "micro", "state": "California",
		"latitude": "not-a-number", "longitude": true,
	}}
	cleaned, dropped := NewCleaner(nil).Clean(records)
	require.Len(t, cleaned, 1)
	assert.Zero(t, dropped)
	assert.Nil(t, cleaned[0].Latitude)
	assert.Nil(t, cleaned[0].Longitude)
}

func TestCleanAcceptsNumericJSONCoordinates(t *testing.T) {
	t.Parallel()

	records := []brewery.Record{{
		"id": "1", "brewery_type": "micro", "state": "California",
		"latitude": 34.05, "longitude": -118.24,
	}}
	cleaned, _ := NewCleaner(nil).Clean(records)
	require.Len(t, cleaned, 1)
	require.NotNil(t, cleaned[0].Latitude)
	assert.InDelta(t, 34.05, *cleaned[0].Latitude, 1e-9)
}

func TestCleanNormalizesFieldNames(t *testing.T) {
	t.Parallel()

	records := []brewery.Record{{
		"ID": "1", " Brewery_Type ": "micro", "STATE": "California",
	}}
	cleaned, dropped := NewCleaner(nil).Clean(records)
	require.Len(t, cleaned, 1)
	assert.Zero(t, dropped)
	assert.Equal(t, "micro", cleaned[0].BreweryType)
	assert.Equal(t, "California", cleaned[0].State)
}
