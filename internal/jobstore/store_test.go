package jobstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"careerhelper/internal/normalize"
)

func newTestStore(t *testing.T, retention time.Duration) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), retention)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestCreateWritesNothing(t *testing.T) {
	store := newTestStore(t, time.Hour)

	id := store.Create()
	if id == "" {
		t.Fatal("empty job id")
	}

	if _, ok, err := store.Read(id); err != nil || ok {
		t.Fatalf("fresh job: ok=%v err=%v, want pending", ok, err)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dir has %d entries after create, want 0", len(entries))
	}
}

func TestCreateIssuesUniqueIDs(t *testing.T) {
	store := newTestStore(t, time.Hour)
	seen := make(map[string]bool)
	for range 100 {
		id := store.Create()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestWriteReadSuccessRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Hour)
	id := store.Create()

	result := normalize.RoadmapCollection{CareerRoadmaps: []any{
		map[string]any{"title": "Backend Engineer"},
	}}
	if err := store.Write(id, Success(result)); err != nil {
		t.Fatalf("write: %v", err)
	}

	outcome, ok, err := store.Read(id)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !ok {
		t.Fatal("record missing after write")
	}
	if outcome.Status != StatusSuccess {
		t.Errorf("status = %q, want %q", outcome.Status, StatusSuccess)
	}
	if outcome.Result == nil || len(outcome.Result.CareerRoadmaps) != 1 {
		t.Errorf("result = %v", outcome.Result)
	}
	if outcome.Timestamp.IsZero() {
		t.Error("timestamp is zero")
	}
}

func TestWriteErrorOutcome(t *testing.T) {
	store := newTestStore(t, time.Hour)
	id := store.Create()

	if err := store.Write(id, Failure("model call failed")); err != nil {
		t.Fatalf("write: %v", err)
	}

	outcome, ok, err := store.Read(id)
	if err != nil || !ok {
		t.Fatalf("read: ok=%v err=%v", ok, err)
	}
	if outcome.Status != StatusError || outcome.Message != "model call failed" {
		t.Errorf("outcome = %+v", outcome)
	}
	if outcome.Result != nil {
		t.Errorf("error outcome carries result: %v", outcome.Result)
	}
}

func TestReadUnknownIDIsPending(t *testing.T) {
	store := newTestStore(t, time.Hour)
	if _, ok, err := store.Read("never-issued"); err != nil || ok {
		t.Fatalf("ok=%v err=%v, want pending", ok, err)
	}
}

func TestReadCorruptRecordFails(t *testing.T) {
	store := newTestStore(t, time.Hour)
	id := store.Create()
	path := filepath.Join(store.Dir(), id+".json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}

	if _, _, err := store.Read(id); err == nil {
		t.Fatal("read corrupt record succeeded, want error")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t, time.Hour)
	id := store.Create()
	if err := store.Write(id, Failure("boom")); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSweepEvictsExpiredRecords(t *testing.T) {
	store := newTestStore(t, time.Minute)

	oldID := store.Create()
	freshID := store.Create()
	for _, id := range []string{oldID, freshID} {
		if err := store.Write(id, Failure("done")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	stale := time.Now().Add(-2 * time.Minute)
	oldPath := filepath.Join(store.Dir(), oldID+".json")
	if err := os.Chtimes(oldPath, stale, stale); err != nil {
		t.Fatalf("age record: %v", err)
	}

	removed, err := store.Sweep()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, ok, _ := store.Read(oldID); ok {
		t.Error("expired record survived sweep")
	}
	if _, ok, _ := store.Read(freshID); !ok {
		t.Error("fresh record was evicted")
	}
}

func TestSweepDisabledWithoutRetention(t *testing.T) {
	store := newTestStore(t, 0)
	id := store.Create()
	if err := store.Write(id, Failure("done")); err != nil {
		t.Fatalf("write: %v", err)
	}

	stale := time.Now().Add(-48 * time.Hour)
	path := filepath.Join(store.Dir(), id+".json")
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatalf("age record: %v", err)
	}

	if removed, err := store.Sweep(); err != nil || removed != 0 {
		t.Fatalf("removed=%d err=%v, want no eviction", removed, err)
	}
}
