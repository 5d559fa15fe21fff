package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lotar-dev/lotar/internal/task"
)

func TestAddAssignsNextNumericID(t *testing.T) {
	b := NewTestBackend(t)
	id1, err := b.Add(task.New("first"), "PRJ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	id2, err := b.Add(task.New("second"), "PRJ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id1 != "PRJ-1" || id2 != "PRJ-2" {
		t.Errorf("expected PRJ-1, PRJ-2, got %s, %s", id1, id2)
	}
}

func TestAddThenGetRoundTrips(t *testing.T) {
	b := NewTestBackend(t)
	original := task.New("Implement API")
	original.Status = task.StatusInProgress
	id, err := b.Add(original, "PRJ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := b.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Implement API" || got.Status != task.StatusInProgress {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	b := NewTestBackend(t)
	if _, err := b.Get("PRJ-999"); err == nil {
		t.Errorf("expected not-found error")
	}
}

func TestEditFailsIfFileMissing(t *testing.T) {
	b := NewTestBackend(t)
	if err := b.Edit("PRJ-1", task.New("x")); err == nil {
		t.Errorf("expected Edit to fail for a task that was never Added")
	}
}

func TestEditOverwritesExisting(t *testing.T) {
	b := NewTestBackend(t)
	id, _ := b.Add(task.New("original"), "PRJ")
	updated := task.New("updated")
	if err := b.Edit(id, updated); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got, _ := b.Get(id)
	if got.Title != "updated" {
		t.Errorf("expected edited title, got %q", got.Title)
	}
}

func TestDeleteRemovesFileAndIndexEntry(t *testing.T) {
	b := NewTestBackend(t)
	id, _ := b.Add(task.New("x"), "PRJ")
	ok, err := b.Delete(id)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	if _, err := b.Get(id); err == nil {
		t.Errorf("expected deleted task to be not found")
	}
	ok2, err := b.Delete(id)
	if err != nil || ok2 {
		t.Errorf("expected second delete to report false, got ok=%v err=%v", ok2, err)
	}
}

func TestNumericIDDensity(t *testing.T) {
	b := NewTestBackend(t)
	for i := 0; i < 5; i++ {
		if _, err := b.Add(task.New("x"), "PRJ"); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	_, mid, _ := task.ParseID("PRJ-3")
	_ = mid
	if _, err := b.Delete("PRJ-3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	id, err := b.Add(task.New("x"), "PRJ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id != "PRJ-6" {
		t.Errorf("expected next ID to be max+1 (PRJ-6, gap at 3 stays a gap), got %s", id)
	}
}

func TestSearchFiltersByStatusAndTag(t *testing.T) {
	b := NewTestBackend(t)
	a := task.New("alpha")
	a.Status = task.StatusDone
	a.Tags = []string{"api"}
	c := task.New("beta")
	c.Status = task.StatusTodo
	c.Tags = []string{"web"}
	b.Add(a, "PRJ")
	b.Add(c, "PRJ")

	results, err := b.Search(Filter{Statuses: []string{"Done"}, Tags: []string{"api"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Task.Title != "alpha" {
		t.Errorf("expected exactly alpha, got %+v", results)
	}
}

func TestSearchOrdersByPrefixThenNumeric(t *testing.T) {
	b := NewTestBackend(t)
	b.Add(task.New("a"), "ZED")
	b.Add(task.New("b"), "ABC")
	b.Add(task.New("c"), "ABC")

	results, err := b.Search(Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"ABC-1", "ABC-2", "ZED-1"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("results[%d].ID = %s, want %s", i, results[i].ID, id)
		}
	}
}

func TestFindByNumericIDReportsAmbiguity(t *testing.T) {
	b := NewTestBackend(t)
	b.Add(task.New("a"), "ABC")
	b.Add(task.New("b"), "ZED")

	id, _, ambiguous, err := b.FindByNumericID(1)
	if err != nil {
		t.Fatalf("FindByNumericID: %v", err)
	}
	if id != "ABC-1" {
		t.Errorf("expected lexicographically-first prefix to win, got %s", id)
	}
	if len(ambiguous) != 1 || ambiguous[0] != "ZED-1" {
		t.Errorf("expected ZED-1 reported ambiguous, got %v", ambiguous)
	}
}

func TestRebuildIndexIsByteStableAcrossCRUDOrder(t *testing.T) {
	b1 := NewTestBackend(t)
	b1.Add(task.New("a"), "PRJ")
	b1.Add(task.New("b"), "PRJ")
	id3, _ := b1.Add(task.New("c"), "PRJ")
	b1.Delete(id3)
	if err := b1.RebuildIndex(); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	data1, err := os.ReadFile(filepath.Join(b1.Root, "index.yml"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	b2 := NewTestBackend(t)
	id3b, _ := b2.Add(task.New("c"), "PRJ")
	b2.Delete(id3b)
	b2.Add(task.New("a"), "PRJ")
	b2.Add(task.New("b"), "PRJ")
	if err := b2.RebuildIndex(); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	data2, err := os.ReadFile(filepath.Join(b2.Root, "index.yml"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if string(data1) != string(data2) {
		t.Errorf("rebuild_index not byte-stable across CRUD order:\n%s\nvs\n%s", data1, data2)
	}
}

func TestRebuildIndexRecordsPrefixAndNumeric(t *testing.T) {
	b := NewTestBackend(t)
	id, err := b.Add(task.New("a"), "PRJ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.RebuildIndex(); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	entries, err := b.loadIndex()
	if err != nil {
		t.Fatalf("loadIndex: %v", err)
	}
	entry, ok := entries[id]
	if !ok {
		t.Fatalf("expected index entry for %s", id)
	}
	if entry.Prefix != "PRJ" || entry.Numeric != 1 {
		t.Errorf("expected prefix=PRJ numeric=1, got prefix=%s numeric=%d", entry.Prefix, entry.Numeric)
	}
}

func TestLegacySprintsDirMigratedOnTouch(t *testing.T) {
	root := t.TempDir()
	legacy := filepath.Join(root, "sprints")
	if err := os.MkdirAll(legacy, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(legacy, "1.yml"), []byte("label: Sprint 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	b, err := NewFSBackend(root, DiscoverySingle)
	if err != nil {
		t.Fatalf("NewFSBackend: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "@sprints", "1.yml")); err != nil {
		t.Errorf("expected legacy sprints/ migrated to @sprints/: %v", err)
	}
	if _, err := os.Stat(legacy); !os.IsNotExist(err) {
		t.Errorf("expected legacy sprints/ directory removed (moved, not copied)")
	}
	_ = b
}
