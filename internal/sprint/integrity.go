// Package sprint implements the integrity checks that keep a task's
// sprint references consistent with the set of sprint files that actually
// exist on disk: detecting dangling references and cleaning them up. The
// underlying scan/patch primitives are storage.Backend and task.Task.
package sprint

import (
	"sort"

	"github.com/lotar-dev/lotar/internal/events"
	"github.com/lotar-dev/lotar/internal/storage"
)

// DanglingRef is one task's reference to a sprint ID that no longer has a
// corresponding sprint file.
type DanglingRef struct {
	TaskID   string
	SprintID int
}

// Report is the result of a missing-sprint-reference scan.
type Report struct {
	Dangling []DanglingRef
}

// Empty reports whether the scan found nothing to clean up.
func (r Report) Empty() bool {
	return len(r.Dangling) == 0
}

// DetectMissingSprints scans every task reachable from backend (within
// prefix, or every project when prefix is empty) and reports any sprint ID
// a task references that has no corresponding sprint file.
func DetectMissingSprints(backend storage.Backend, prefix string) (Report, error) {
	existing, err := existingSprintIDs(backend)
	if err != nil {
		return Report{}, err
	}

	records, err := scopeRecords(backend, prefix)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, rec := range records {
		for _, sid := range rec.Task.Sprints {
			if !existing[sid] {
				report.Dangling = append(report.Dangling, DanglingRef{TaskID: rec.ID, SprintID: sid})
			}
		}
	}
	sort.Slice(report.Dangling, func(i, j int) bool {
		if report.Dangling[i].TaskID != report.Dangling[j].TaskID {
			return report.Dangling[i].TaskID < report.Dangling[j].TaskID
		}
		return report.Dangling[i].SprintID < report.Dangling[j].SprintID
	})
	return report, nil
}

// CleanupMissingSprintRefs removes every dangling sprint reference found in
// scope (within prefix, or every project when prefix is empty), persists
// the affected tasks, and emits task_updated for each one touched. After
// this returns, DetectMissingSprints over the same scope returns an empty
// report.
func CleanupMissingSprintRefs(backend storage.Backend, prefix string, publisher *events.PublishHelper) (cleaned int, err error) {
	existing, err := existingSprintIDs(backend)
	if err != nil {
		return 0, err
	}

	records, err := scopeRecords(backend, prefix)
	if err != nil {
		return 0, err
	}

	for _, rec := range records {
		toRemove := map[int]bool{}
		for _, sid := range rec.Task.Sprints {
			if !existing[sid] {
				toRemove[sid] = true
			}
		}
		if len(toRemove) == 0 {
			continue
		}
		n := rec.Task.RemoveSprints(toRemove)
		if n == 0 {
			continue
		}
		rec.Task.Touch()
		if err := backend.Edit(rec.ID, rec.Task); err != nil {
			return cleaned, err
		}
		cleaned += n
		publisher.TaskUpdated(rec.ID, []string{"sprints"})
	}
	return cleaned, nil
}

func existingSprintIDs(backend storage.Backend) (map[int]bool, error) {
	ids, err := backend.ListSprintIDs()
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func scopeRecords(backend storage.Backend, prefix string) ([]storage.TaskRecord, error) {
	if prefix == "" {
		return backend.Search(storage.Filter{})
	}
	return backend.ListByProject(prefix)
}
