package sprint

import (
	"github.com/lotar-dev/lotar/internal/events"
	"github.com/lotar-dev/lotar/internal/storage"
)

// AssignResult is the outcome of a single sprint-assignment call.
type AssignResult struct {
	TaskID   string
	SprintID int
	// Replaced lists the sprint IDs a --force assignment displaced. Empty
	// for the default add policy.
	Replaced []int
}

// Assign implements the single-membership policy (spec §4.6): by default a
// task may belong to several sprints, so sprintID is simply added to its
// membership; when force is set the membership is replaced with sprintID
// alone and the previous members are reported as Replaced. sprintID must
// name an existing sprint file.
func Assign(backend storage.Backend, taskID string, sprintID int, force bool, publisher *events.PublishHelper) (*AssignResult, error) {
	if _, err := backend.GetSprint(sprintID); err != nil {
		return nil, err
	}
	t, err := backend.Get(taskID)
	if err != nil {
		return nil, err
	}

	result := &AssignResult{TaskID: taskID, SprintID: sprintID}
	if force {
		result.Replaced = t.ReplaceSprint(sprintID)
	} else {
		t.AddSprint(sprintID)
	}
	t.Touch()
	if err := backend.Edit(taskID, t); err != nil {
		return nil, err
	}
	publisher.TaskUpdated(taskID, []string{"sprints"})
	return result, nil
}
