package taskservice

import "github.com/lotar-dev/lotar/internal/storage"

// Delete removes the task identified by id. When cleanupReferences is
// true, every other task's Relationships fields are scanned and any edge
// pointing at id is pruned, and those tasks are re-persisted; callers that
// don't need this (e.g. a bulk delete that will rebuild relationships
// itself) can skip the extra scan by passing false.
func (s *Service) Delete(id string, cleanupReferences bool) (bool, error) {
	removed, err := s.Backend.Delete(id)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	referencesCleaned := false
	if cleanupReferences {
		cleaned, err := s.pruneRelationshipReferences(id)
		if err != nil {
			return true, err
		}
		referencesCleaned = cleaned
	}

	s.Publisher.TaskDeleted(id, referencesCleaned)
	return true, nil
}

// pruneRelationshipReferences removes id from every other task's
// Relationships edges (parent/children/blocks/blocked_by/relates/
// duplicates), persisting any task actually changed.
func (s *Service) pruneRelationshipReferences(id string) (changedAny bool, err error) {
	records, err := s.Backend.Search(storage.Filter{})
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		t := rec.Task
		touched := false
		if t.Relationships.Parent == id {
			t.Relationships.Parent = ""
			touched = true
		}
		var n int
		t.Relationships.Children, n = removeFromSliceCounted(t.Relationships.Children, id)
		touched = touched || n > 0
		t.Relationships.Blocks, n = removeFromSliceCounted(t.Relationships.Blocks, id)
		touched = touched || n > 0
		t.Relationships.BlockedBy, n = removeFromSliceCounted(t.Relationships.BlockedBy, id)
		touched = touched || n > 0
		t.Relationships.Relates, n = removeFromSliceCounted(t.Relationships.Relates, id)
		touched = touched || n > 0
		t.Relationships.Duplicates, n = removeFromSliceCounted(t.Relationships.Duplicates, id)
		touched = touched || n > 0

		if !touched {
			continue
		}
		t.Touch()
		if err := s.Backend.Edit(rec.ID, t); err != nil {
			return changedAny, err
		}
		changedAny = true
		s.Publisher.TaskUpdated(rec.ID, []string{"relationships"})
	}
	return changedAny, nil
}

// removeFromSliceCounted removes every occurrence of want from list,
// returning the filtered slice and how many were removed.
func removeFromSliceCounted(list []string, want string) ([]string, int) {
	if len(list) == 0 {
		return list, 0
	}
	kept := make([]string, 0, len(list))
	removed := 0
	for _, v := range list {
		if v == want {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	return kept, removed
}
