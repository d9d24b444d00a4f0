package silver

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/brewery"
)

const partFileName = "part-00000.parquet"

// Store persists the silver dataset as Parquet files physically partitioned
// by country=<value>/state=<value> directory segments.
type Store struct {
	baseDir string
	logger  *zap.Logger
}

// NewStore returns a partitioned dataset store rooted at dir.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("silver directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{baseDir: dir, logger: logger}, nil
}

// Save writes the cleaned collection partition by partition. Each partition
// key present in the input replaces any stored data for that exact key:
// rows are staged to a temporary directory and swapped in with a rename, so
// reprocessing the same snapshot twice yields the same silver state.
// Partitions absent from the input are left untouched.
func (s *Store) Save(ctx context.Context, cleaned []brewery.Cleaned) (string, error) {
	if len(cleaned) == 0 {
		return "", fmt.Errorf("no cleaned records to write: %w", brewery.ErrEmptyInput)
	}
	if err := os.MkdirAll(s.baseDir, 0o750); err != nil {
		return "", fmt.Errorf("create silver dir %s: %w", s.baseDir, err)
	}

	partitions := make(map[brewery.PartitionKey][]brewery.Cleaned)
	var order []brewery.PartitionKey
	for _, row := range cleaned {
		key := row.Partition()
		if _, seen := partitions[key]; !seen {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], row)
	}

	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context canceled: %w", err)
		}
		if err := s.replacePartition(key, partitions[key]); err != nil {
			return "", err
		}
	}

	s.logger.Info("silver layer written",
		zap.String("path", s.baseDir),
		zap.Int("rows", len(cleaned)),
		zap.Int("partitions", len(partitions)),
	)
	return s.baseDir, nil
}

func (s *Store) replacePartition(key brewery.PartitionKey, rows []brewery.Cleaned) error {
	target := s.partitionDir(key)

	staging, err := os.MkdirTemp(s.baseDir, ".staging-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging) //nolint:errcheck // best-effort cleanup after rename

	if err := parquet.WriteFile(filepath.Join(staging, partFileName), rows); err != nil {
		return fmt.Errorf("write partition %s/%s: %w", key.Country, key.State, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("create partition parent for %s: %w", target, err)
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("remove stale partition %s: %w", target, err)
	}
	if err := os.Rename(staging, target); err != nil {
		return fmt.Errorf("swap partition %s: %w", target, err)
	}
	return nil
}

// LoadAll discovers every Parquet partition file recursively under the
// silver root and returns the full cleaned collection as plain Go values.
func (s *Store) LoadAll(ctx context.Context) ([]brewery.Cleaned, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context canceled: %w", err)
	}
	if _, err := os.Stat(s.baseDir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", brewery.ErrNoPartitions, s.baseDir)
		}
		return nil, fmt.Errorf("stat silver dir %s: %w", s.baseDir, err)
	}

	var files []string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Skip staging leftovers from interrupted runs.
		if d.IsDir() && strings.HasPrefix(d.Name(), ".staging-") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".parquet") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk silver dir %s: %w", s.baseDir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w at %s", brewery.ErrNoPartitions, s.baseDir)
	}

	var all []brewery.Cleaned
	for _, file := range files {
		rows, err := parquet.ReadFile[brewery.Cleaned](file)
		if err != nil {
			return nil, fmt.Errorf("read partition file %s: %w", file, err)
		}
		all = append(all, rows...)
	}

	s.logger.Info("loaded silver layer",
		zap.Int("files", len(files)),
		zap.Int("rows", len(all)),
	)
	return all, nil
}

func (s *Store) partitionDir(key brewery.PartitionKey) string {
	return filepath.Join(
		s.baseDir,
		"country="+encodePartitionValue(key.Country),
		"state="+encodePartitionValue(key.State),
	)
}

// encodePartitionValue keeps partition values filesystem-safe. Values can
// contain separators or other reserved characters; spaces stay readable.
func encodePartitionValue(value string) string {
	escaped := url.PathEscape(value)
	return strings.ReplaceAll(escaped, "%20", " ")
}
