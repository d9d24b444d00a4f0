// Package bronze persists raw API snapshots. Snapshots are write-once: each
// ingestion run lands a new timestamped JSON file and prior files are never
// modified or deleted.
package bronze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/diogotoledo/inbev-case/internal/brewery"
)

const (
	filePrefix      = "breweries_raw_"
	fileSuffix      = ".json"
	timestampLayout = "20060102_150405"
)

// Store writes and reads raw snapshots under a base directory.
type Store struct {
	baseDir string
	clock   brewery.Clock
	logger  *zap.Logger
}

// NewStore returns a snapshot store rooted at dir.
func NewStore(dir string, clock brewery.Clock, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("bronze directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{baseDir: dir, clock: clock, logger: logger}, nil
}

// Save writes the full record sequence as a single indented JSON snapshot
// whose name embeds the creation timestamp with second precision. An empty
// record set is a pipeline failure, not a valid empty run.
func (s *Store) Save(ctx context.Context, records []brewery.Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no records fetched from API: %w", brewery.ErrEmptyInput)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	if err := os.MkdirAll(s.baseDir, 0o750); err != nil {
		return "", fmt.Errorf("create bronze dir %s: %w", s.baseDir, err)
	}

	name := filePrefix + s.clock.Now().Format(timestampLayout) + fileSuffix
	target := filepath.Join(s.baseDir, name)

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(target, payload, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", target, err)
	}

	s.logger.Info("saved bronze snapshot",
		zap.String("path", target),
		zap.Int("records", len(records)),
	)
	return target, nil
}

// Snapshot describes one stored raw file and its embedded creation time.
type Snapshot struct {
	Path      string
	CreatedAt time.Time
}

// List returns every snapshot under the base directory along with its parsed
// timestamp. Files that do not match the snapshot naming scheme are ignored.
func (s *Store) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", brewery.ErrNoSnapshot, s.baseDir)
		}
		return nil, fmt.Errorf("list bronze dir %s: %w", s.baseDir, err)
	}

	var snaps []Snapshot
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseTimestamp(entry.Name())
		if !ok {
			continue
		}
		snaps = append(snaps, Snapshot{
			Path:      filepath.Join(s.baseDir, entry.Name()),
			CreatedAt: ts,
		})
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w at %s", brewery.ErrNoSnapshot, s.baseDir)
	}
	return snaps, nil
}

// LoadLatest reads the snapshot with the greatest embedded timestamp. The
// timestamp is parsed from the filename rather than compared as a string, so
// selection does not depend on lexicographic ordering.
func (s *Store) LoadLatest(ctx context.Context) ([]brewery.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context canceled: %w", err)
	}
	snaps, err := s.List()
	if err != nil {
		return nil, err
	}

	latest := snaps[0]
	for _, snap := range snaps[1:] {
		if snap.CreatedAt.After(latest.CreatedAt) {
			latest = snap
		}
	}

	payload, err := os.ReadFile(latest.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", latest.Path, err)
	}
	var records []brewery.Record
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", latest.Path, err)
	}

	s.logger.Info("loaded bronze snapshot",
		zap.String("path", latest.Path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

func parseTimestamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	ts, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
