package brewery

import "errors"

// Sentinel errors separating the pipeline's failure classes. Transport
// failures from the fetcher are not wrapped in these: they propagate as-is
// so the scheduler's retry policy governs them.
var (
	// ErrNoSnapshot signals that the bronze layer holds no raw snapshots.
	ErrNoSnapshot = errors.New("no bronze snapshots found")

	// ErrNoPartitions signals that the silver layer holds no parquet files.
	ErrNoPartitions = errors.New("no silver partitions found")

	// ErrEmptyInput signals a stage received zero records where at least
	// one is required.
	ErrEmptyInput = errors.New("input is empty")
)
