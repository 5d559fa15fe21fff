package storage

import (
	"testing"
	"time"

	"github.com/lotar-dev/lotar/internal/task"
)

func TestAddSprintAssignsNextID(t *testing.T) {
	b := NewTestBackend(t)
	n1, _, err := b.AddSprint(&task.Sprint{Plan: task.SprintPlan{Label: "Sprint 1"}})
	if err != nil {
		t.Fatalf("AddSprint: %v", err)
	}
	n2, _, err := b.AddSprint(&task.Sprint{Plan: task.SprintPlan{Label: "Sprint 2"}})
	if err != nil {
		t.Fatalf("AddSprint: %v", err)
	}
	if n1 != 1 || n2 != 2 {
		t.Errorf("expected sprint IDs 1, 2, got %d, %d", n1, n2)
	}
}

func TestGetSprintRoundTrips(t *testing.T) {
	b := NewTestBackend(t)
	n, _, _ := b.AddSprint(&task.Sprint{Plan: task.SprintPlan{Label: "Sprint 1", Capacity: 20}})
	got, err := b.GetSprint(n)
	if err != nil {
		t.Fatalf("GetSprint: %v", err)
	}
	if got.Plan.Label != "Sprint 1" || got.Plan.Capacity != 20 {
		t.Errorf("round trip mismatch: %+v", got.Plan)
	}
}

func TestAddSprintReportsLengthDemotion(t *testing.T) {
	b := NewTestBackend(t)
	ends := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	_, warned, err := b.AddSprint(&task.Sprint{Plan: task.SprintPlan{Label: "Sprint 1", Length: 14, EndsAt: &ends}})
	if err != nil {
		t.Fatalf("AddSprint: %v", err)
	}
	if !warned {
		t.Error("expected AddSprint to report length demoted when both length and ends_at are set")
	}
}

func TestEditSprintReportsLengthDemotion(t *testing.T) {
	b := NewTestBackend(t)
	n, _, err := b.AddSprint(&task.Sprint{Plan: task.SprintPlan{Label: "Sprint 1", Length: 14}})
	if err != nil {
		t.Fatalf("AddSprint: %v", err)
	}
	ends := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	s, err := b.GetSprint(n)
	if err != nil {
		t.Fatalf("GetSprint: %v", err)
	}
	s.Plan.Length = 14
	s.Plan.EndsAt = &ends
	warned, err := b.EditSprint(n, s)
	if err != nil {
		t.Fatalf("EditSprint: %v", err)
	}
	if !warned {
		t.Error("expected EditSprint to report length demoted when both length and ends_at are set")
	}
}

func TestDeleteSprintReportsFalseWhenMissing(t *testing.T) {
	b := NewTestBackend(t)
	ok, err := b.DeleteSprint(42)
	if err != nil || ok {
		t.Errorf("expected DeleteSprint on missing sprint to report false, got ok=%v err=%v", ok, err)
	}
}

func TestListSprintIDsAscending(t *testing.T) {
	b := NewTestBackend(t)
	b.AddSprint(&task.Sprint{Plan: task.SprintPlan{Label: "a"}})
	b.AddSprint(&task.Sprint{Plan: task.SprintPlan{Label: "b"}})
	ids, err := b.ListSprintIDs()
	if err != nil {
		t.Fatalf("ListSprintIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("expected [1 2], got %v", ids)
	}
}
