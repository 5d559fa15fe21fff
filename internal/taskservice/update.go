package taskservice

import (
	lotarerrors "github.com/lotar-dev/lotar/internal/errors"
	"github.com/lotar-dev/lotar/internal/task"
)

// UpdatePatch is a partial update: nil/unset pointer and *Set-guarded slice
// fields are left untouched; a non-nil pointer or a *Set flag means the
// caller explicitly supplied that field, even to set it back to empty.
type UpdatePatch struct {
	Title       *string
	Status      *string
	Priority    *string
	Type        *string
	Assignee    *string
	Reporter    *string
	DueDate     *string
	Effort      *string
	Description *string
	Category    *string

	Tags                  []string
	TagsSet               bool
	AcceptanceCriteria    []string
	AcceptanceCriteriaSet bool
	CustomFields          map[string]any
	CustomFieldsSet       bool
}

// Update applies patch to the task identified by id: tags/acceptance
// criteria/custom fields are full replacements when set, @me is resolved on
// assignee/reporter, an explicit assignee/reporter in the patch always
// wins, and a status-only change auto-fills assignee only if it was empty
// (never overwrites an existing one). Persists the task and emits
// task_updated naming every field the patch touched.
func (s *Service) Update(id string, patch UpdatePatch) (*task.Task, error) {
	t, err := s.Backend.Get(id)
	if err != nil {
		return nil, err
	}

	var changed []string
	set := func(field string) { changed = append(changed, field) }

	if patch.Title != nil {
		t.Title = *patch.Title
		set("title")
	}
	if patch.Status != nil {
		prevAssignee := t.Assignee
		t.Status = task.Status(*patch.Status)
		set("status")
		if prevAssignee == "" && patch.Assignee == nil && t.Assignee == "" {
			t.Assignee = s.currentUser()
			if t.Assignee != "" {
				set("assignee")
			}
		}
	}
	if patch.Priority != nil {
		t.Priority = task.Priority(*patch.Priority)
		set("priority")
	}
	if patch.Type != nil {
		t.Type = task.Type(*patch.Type)
		set("type")
	}
	if patch.Assignee != nil {
		t.Assignee = s.resolveUser(*patch.Assignee)
		set("assignee")
	}
	if patch.Reporter != nil {
		t.Reporter = s.resolveUser(*patch.Reporter)
		set("reporter")
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
		set("due_date")
	}
	if patch.Effort != nil {
		t.Effort = *patch.Effort
		set("effort")
	}
	if patch.Description != nil {
		t.Description = *patch.Description
		set("description")
	}
	if patch.Category != nil {
		t.Category = *patch.Category
		set("category")
	}
	if patch.TagsSet {
		t.Tags = append([]string(nil), patch.Tags...)
		set("tags")
	}
	if patch.AcceptanceCriteriaSet {
		t.AcceptanceCriteria = append([]string(nil), patch.AcceptanceCriteria...)
		set("acceptance_criteria")
	}
	if patch.CustomFieldsSet {
		t.CustomFields = patch.CustomFields
		set("custom_fields")
	}

	if err := s.normalize(t); err != nil {
		return nil, err
	}

	prefix, _, ok := task.ParseID(id)
	if !ok {
		return nil, lotarerrors.InvalidIdentifier("invalid task id", id)
	}
	if err := s.enforceMembership(prefix, t); err != nil {
		return nil, err
	}

	t.Touch()
	if err := s.Backend.Edit(id, t); err != nil {
		return nil, err
	}
	s.Publisher.TaskUpdated(id, changed)
	return t, nil
}
