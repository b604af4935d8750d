// Package jobstore persists terminal job outcomes as one JSON file per job
// under a process-shared directory. Absence of a file is the pending
// sentinel: nothing is written at job creation, the worker writes exactly
// once at completion, and records are never mutated afterwards. Readers and
// the single writer therefore need no locking.
package jobstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"careerhelper/internal/normalize"
)

// Job status values, shared by the store, the worker, and the API.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Outcome is the terminal record of one pipeline execution.
type Outcome struct {
	Status    string                       `json:"status"`
	Result    *normalize.RoadmapCollection `json:"result,omitempty"`
	Message   string                       `json:"message,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

// Success builds a success outcome stamped with the current time.
func Success(result normalize.RoadmapCollection) Outcome {
	return Outcome{
		Status:    StatusSuccess,
		Result:    &result,
		Timestamp: time.Now().UTC(),
	}
}

// Failure builds an error outcome stamped with the current time.
func Failure(message string) Outcome {
	return Outcome{
		Status:    StatusError,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Store keeps job records in a single flat directory.
type Store struct {
	dir       string
	retention time.Duration
}

// NewStore creates the record directory if absent. A non-positive retention
// disables eviction.
func NewStore(dir string, retention time.Duration) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "careerhelper-jobs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}
	return &Store{dir: dir, retention: retention}, nil
}

// Dir returns the record directory.
func (s *Store) Dir() string {
	return s.dir
}

// Create issues a fresh job identifier. No file is written: the job is
// implicitly pending until the worker records its outcome.
func (s *Store) Create() string {
	return uuid.NewString()
}

// Write persists a terminal outcome. The record is written to a temporary
// file and renamed into place so a crash mid-write never leaves a truncated
// record visible to readers. Expired records are swept on the way out.
func (s *Store) Write(id string, outcome Outcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, id+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close record: %w", err)
	}
	if err := os.Rename(tmpName, s.path(id)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish record: %w", err)
	}

	s.sweep()
	return nil
}

// Read returns the persisted outcome for id. A missing record reports
// ok=false: a never-issued id is indistinguishable from a job still in
// flight. A corrupt record is a read error, not pending.
func (s *Store) Read(id string) (Outcome, bool, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return Outcome{}, false, nil
	}
	if err != nil {
		return Outcome{}, false, fmt.Errorf("read record %s: %w", id, err)
	}

	var outcome Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return Outcome{}, false, fmt.Errorf("decode record %s: %w", id, err)
	}
	return outcome, true, nil
}

// Sweep removes records older than the configured retention. Invoked after
// every write and periodically by the worker so the directory behaves as a
// bounded cache rather than an infinite log.
func (s *Store) Sweep() (removed int, err error) {
	if s.retention <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read job dir: %w", err)
	}
	cutoff := time.Now().Add(-s.retention)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if rmErr := os.Remove(filepath.Join(s.dir, entry.Name())); rmErr == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (s *Store) sweep() {
	_, _ = s.Sweep()
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
