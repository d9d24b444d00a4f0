package gold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/brewery"
)

// ArtifactName is the fixed name of the gold summary file.
const ArtifactName = "breweries_aggregated.parquet"

// Store persists the gold artifact: a single fixed-name Parquet file that is
// fully replaced on every run.
type Store struct {
	baseDir string
	logger  *zap.Logger
}

// NewStore returns a gold artifact store rooted at dir.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("gold directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{baseDir: dir, logger: logger}, nil
}

// ArtifactPath returns the location the artifact is written to.
func (s *Store) ArtifactPath() string {
	return filepath.Join(s.baseDir, ArtifactName)
}

// Save overwrites the gold artifact wholesale. The file is staged next to
// its final location and swapped in with a rename so readers never observe a
// partially written artifact.
func (s *Store) Save(ctx context.Context, rows []brewery.GoldRow) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("no aggregated rows to write: %w", brewery.ErrEmptyInput)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	if err := os.MkdirAll(s.baseDir, 0o750); err != nil {
		return "", fmt.Errorf("create gold dir %s: %w", s.baseDir, err)
	}

	target := s.ArtifactPath()
	staging := target + ".tmp"
	if err := parquet.WriteFile(staging, rows); err != nil {
		return "", fmt.Errorf("write gold artifact: %w", err)
	}
	if err := os.Rename(staging, target); err != nil {
		return "", fmt.Errorf("swap gold artifact %s: %w", target, err)
	}

	s.logger.Info("gold layer saved",
		zap.String("path", target),
		zap.Int("groups", len(rows)),
	)
	return target, nil
}
