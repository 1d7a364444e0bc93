// Package audit persists one record per classified request so contracts can
// be replayed and inspected after the fact.
package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// Record is one classified request as written to disk.
type Record struct {
	Timestamp string                `json:"timestamp"`
	ToolID    string                `json:"tool_id"`
	UserQuery string                `json:"user_query"`
	Contract  *schema.FieldContract `json:"contract"`
}

// Store is an append-only directory of JSON records, one file per request.
type Store struct {
	dir           string
	retentionDays int
	now           func() time.Time
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write, not here.
func NewStore(dir string, retentionDays int) *Store {
	return &Store{dir: dir, retentionDays: retentionDays, now: time.Now}
}

// Write persists one record as {timestamp}_{tool_id}.json and returns the
// file path. Tool slugs are already filename-safe, but slashes from
// user-supplied slugs are flattened anyway.
func (s *Store) Write(toolID, userQuery string, contract *schema.FieldContract) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create audit dir: %w", err)
	}

	ts := s.now().Format("20060102T150405")
	rec := Record{
		Timestamp: s.now().Format(time.RFC3339),
		ToolID:    toolID,
		UserQuery: userQuery,
		Contract:  contract,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal audit record: %w", err)
	}

	safe := strings.ReplaceAll(toolID, string(os.PathSeparator), "_")
	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", ts, safe))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write audit record: %w", err)
	}
	return path, nil
}

// List returns all records in the store, oldest first. The timestamped
// filenames make lexical order chronological.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read audit dir: %w", err)
	}

	var records []Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			slog.Warn("skipping unreadable audit record", "file", e.Name(), "err", err)
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			slog.Warn("skipping malformed audit record", "file", e.Name(), "err", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Sweep deletes records older than the retention window. A non-positive
// retention keeps everything.
func (s *Store) Sweep() (int, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read audit dir: %w", err)
	}

	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ts, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			continue
		}
		stamp, err := time.ParseInLocation("20060102T150405", ts, s.now().Location())
		if err != nil {
			continue
		}
		if stamp.Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
				slog.Warn("failed to remove expired audit record", "file", e.Name(), "err", err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}

// ---------------------------------------------------------------------------
// Scheduled retention
// ---------------------------------------------------------------------------

// Sweeper runs Sweep on a cron schedule until stopped.
type Sweeper struct {
	store *Store
	cron  *cron.Cron
}

// NewSweeper schedules sweeps per spec, e.g. "@daily" or "0 3 * * *".
func NewSweeper(store *Store, spec string) (*Sweeper, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := store.Sweep()
		if err != nil {
			slog.Error("audit sweep failed", "err", err)
			return
		}
		if n > 0 {
			slog.Info("audit sweep removed expired records", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return &Sweeper{store: store, cron: c}, nil
}

// Start begins the schedule in a background goroutine.
func (s *Sweeper) Start() { s.cron.Start() }

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
