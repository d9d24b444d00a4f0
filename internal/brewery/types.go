// Package brewery defines the core data model and shared contracts for the
// medallion pipeline: raw API records (bronze), cleaned rows (silver), and
// aggregated summary rows (gold).
package brewery

import "time"

// Record is a single brewery object exactly as returned by the Open Brewery
// DB API. No schema is enforced at this stage; fields may be absent or null.
type Record map[string]any

// Cleaned is one validated silver row. BreweryType and State are guaranteed
// non-empty; optional string fields default to "unknown"; coordinates are
// nil when the raw value could not be parsed.
type Cleaned struct {
	ID            string   `json:"id" parquet:"id"`
	Name          string   `json:"name" parquet:"name"`
	BreweryType   string   `json:"brewery_type" parquet:"brewery_type"`
	Address1      string   `json:"address_1" parquet:"address_1"`
	Address2      string   `json:"address_2" parquet:"address_2"`
	Address3      string   `json:"address_3" parquet:"address_3"`
	City          string   `json:"city" parquet:"city"`
	StateProvince string   `json:"state_province" parquet:"state_province"`
	PostalCode    string   `json:"postal_code" parquet:"postal_code"`
	Country       string   `json:"country" parquet:"country"`
	State         string   `json:"state" parquet:"state"`
	Street        string   `json:"street" parquet:"street"`
	Phone         string   `json:"phone" parquet:"phone"`
	WebsiteURL    string   `json:"website_url" parquet:"website_url"`
	Longitude     *float64 `json:"longitude" parquet:"longitude,optional"`
	Latitude      *float64 `json:"latitude" parquet:"latitude,optional"`
}

// PartitionKey identifies the physical silver partition a cleaned row
// belongs to.
type PartitionKey struct {
	Country string
	State   string
}

// Partition returns the (country, state) key for the row.
func (c Cleaned) Partition() PartitionKey {
	return PartitionKey{Country: c.Country, State: c.State}
}

// GoldRow is one aggregated summary row: the number of breweries observed
// for a (brewery_type, country, state) combination.
type GoldRow struct {
	BreweryType  string `json:"brewery_type" parquet:"brewery_type"`
	Country      string `json:"country" parquet:"country"`
	State        string `json:"state" parquet:"state"`
	BreweryCount int64  `json:"brewery_count" parquet:"brewery_count"`
}

// Clock abstracts time for snapshot naming so stores stay testable.
type Clock interface {
	Now() time.Time
}
