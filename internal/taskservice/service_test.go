package taskservice

import (
	"os"
	"testing"
	"time"

	"github.com/lotar-dev/lotar/internal/config"
	"github.com/lotar-dev/lotar/internal/events"
	"github.com/lotar-dev/lotar/internal/storage"
)

type fakeRunner struct {
	name string
}

func (r fakeRunner) Run(dir, name string, args ...string) (string, error) {
	return r.name, nil
}

func newTestService(t *testing.T, mutate func(*config.Config)) (*Service, *storage.FSBackend) {
	t.Helper()
	backend := storage.NewTestBackend(t)
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	svc := New(backend, cfg, backend.Root, "", "", fakeRunner{name: "ada"}, events.NewPublishHelper(events.NewNopPublisher()))
	return svc, backend
}

func TestCreateAssignsDefaultsAndFallbackProject(t *testing.T) {
	svc, _ := newTestService(t, nil)

	result, err := svc.Create(CreateInput{Title: "write docs"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Task.Status != "Todo" {
		t.Errorf("expected default status Todo, got %s", result.Task.Status)
	}
	if result.Task.Reporter != "ada" {
		t.Errorf("expected auto-set reporter ada, got %s", result.Task.Reporter)
	}
	if result.Prefix != "PROJ" {
		t.Errorf("expected fallback project prefix PROJ, got %s", result.Prefix)
	}
	if result.ID == "" {
		t.Error("expected a persisted task ID")
	}
}

func TestCreateResolvesMeAliasOnAssignee(t *testing.T) {
	svc, _ := newTestService(t, nil)

	result, err := svc.Create(CreateInput{Title: "t", Assignee: "@me"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Task.Assignee != "ada" {
		t.Errorf("expected @me resolved to ada, got %s", result.Task.Assignee)
	}
}

func TestCreateResolvesStatusCaseAgainstConfiguredSpelling(t *testing.T) {
	svc, _ := newTestService(t, nil)

	result, err := svc.Create(CreateInput{Title: "t", Status: "INPROGRESS"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Task.Status != "InProgress" {
		t.Errorf("expected status resolved to configured spelling InProgress, got %q", result.Task.Status)
	}
}

func TestCreateNormalizesRelativeDueDate(t *testing.T) {
	svc, _ := newTestService(t, nil)

	result, err := svc.Create(CreateInput{Title: "t", DueDate: "tomorrow"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := time.Parse("2006-01-02", result.Task.DueDate); err != nil {
		t.Errorf("expected due date normalized to ISO-8601, got %q: %v", result.Task.DueDate, err)
	}
}

func TestCreateRejectsInvalidStatus(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Create(CreateInput{Title: "t", Status: "NotAStatus"})
	if err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}

func TestCreateRejectsMixedEffort(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Create(CreateInput{Title: "t", Effort: "3h 2pt"})
	if err == nil {
		t.Fatal("expected validation error for mixed effort tokens")
	}
}

func TestCreatePopulatesMembersFromAssigneeAndReporter(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Create(CreateInput{Title: "t", Assignee: "grace"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	found := false
	for _, m := range svc.Config.Default.Members {
		if m == "grace" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected grace added to members, got %v", svc.Config.Default.Members)
	}
}

func TestCreateDryRunDoesNotPersistMembers(t *testing.T) {
	svc, _ := newTestService(t, nil)

	result, err := svc.Create(CreateInput{Title: "t", Assignee: "grace", DryRun: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.ID != "" {
		t.Errorf("expected no persisted ID on dry run, got %s", result.ID)
	}
	if len(result.Added) != 1 || result.Added[0] != "grace" {
		t.Errorf("expected grace reported as added in-memory, got %v", result.Added)
	}
	if _, err := os.Stat(config.ProjectConfigPath(svc.TasksRoot, result.Prefix)); !os.IsNotExist(err) {
		t.Errorf("expected no project config.yml written on dry run, stat err = %v", err)
	}
}

func TestCreateRejectsAssigneeOutsideClosedMembers(t *testing.T) {
	svc, _ := newTestService(t, func(cfg *config.Config) {
		cfg.Default.Members = []string{"ada"}
		cfg.Default.MembersClosed = true
	})

	_, err := svc.Create(CreateInput{Title: "t", Assignee: "grace"})
	if err == nil {
		t.Fatal("expected membership validation error")
	}
}

func TestBranchInferenceFillsOnlyUnsetFields(t *testing.T) {
	svc, _ := newTestService(t, func(cfg *config.Config) {
		cfg.Default.Type = ""
		cfg.Branch.Mappings = map[string]config.BranchMapping{
			"fix/": {Type: "Bug", Priority: "High"},
		}
	})

	result, err := svc.Create(CreateInput{Title: "t", Branch: "fix/login-crash", Priority: "Critical"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Task.Type != "Bug" {
		t.Errorf("expected branch-inferred type Bug, got %s", result.Task.Type)
	}
	if result.Task.Priority != "Critical" {
		t.Errorf("expected explicit priority Critical preserved, got %s", result.Task.Priority)
	}
}

func TestUpdateReplacesTagsAndTracksChangedFields(t *testing.T) {
	svc, _ := newTestService(t, nil)

	created, err := svc.Create(CreateInput{Title: "t", Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newTags := []string{"c"}
	updated, err := svc.Update(created.ID, UpdatePatch{Tags: newTags, TagsSet: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "c" {
		t.Errorf("expected tags replaced with [c], got %v", updated.Tags)
	}
}

func TestUpdateStatusAutoFillsEmptyAssigneeOnly(t *testing.T) {
	svc, _ := newTestService(t, nil)

	created, err := svc.Create(CreateInput{Title: "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := "InProgress"
	updated, err := svc.Update(created.ID, UpdatePatch{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Assignee != "ada" {
		t.Errorf("expected empty assignee auto-filled to ada, got %q", updated.Assignee)
	}
}

func TestUpdateExplicitAssigneeAlwaysWins(t *testing.T) {
	svc, _ := newTestService(t, nil)

	created, err := svc.Create(CreateInput{Title: "t", Assignee: "grace"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := "InProgress"
	explicit := "ada"
	updated, err := svc.Update(created.ID, UpdatePatch{Status: &status, Assignee: &explicit})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Assignee != "ada" {
		t.Errorf("expected explicit assignee ada to win, got %q", updated.Assignee)
	}
}

func TestDeletePrunesRelationshipReferences(t *testing.T) {
	svc, backend := newTestService(t, nil)

	victim, err := svc.Create(CreateInput{Title: "victim"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	dependent, err := svc.Create(CreateInput{Title: "dependent"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	depTask, err := backend.Get(dependent.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	depTask.Relationships.BlockedBy = []string{victim.ID}
	if err := backend.Edit(dependent.ID, depTask); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	removed, err := svc.Delete(victim.ID, true)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Fatal("expected task to be removed")
	}

	after, err := backend.Get(dependent.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(after.Relationships.BlockedBy) != 0 {
		t.Errorf("expected blocked_by pruned, got %v", after.Relationships.BlockedBy)
	}
}

func TestDeleteMissingTaskReturnsFalse(t *testing.T) {
	svc, _ := newTestService(t, nil)

	removed, err := svc.Delete("PROJ-999", false)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed {
		t.Error("expected false for a task that does not exist")
	}
}

func TestAppendCommentRejectsEmptyText(t *testing.T) {
	svc, _ := newTestService(t, nil)

	created, err := svc.Create(CreateInput{Title: "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AppendComment(created.ID, "ada", "   "); err == nil {
		t.Fatal("expected error for empty comment text")
	}
}

func TestAppendCommentThenList(t *testing.T) {
	svc, _ := newTestService(t, nil)

	created, err := svc.Create(CreateInput{Title: "t"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AppendComment(created.ID, "@me", "looks good"); err != nil {
		t.Fatalf("AppendComment: %v", err)
	}
	comments, err := svc.ListComments(created.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 || comments[0].Author != "ada" || comments[0].Text != "looks good" {
		t.Errorf("unexpected comments: %+v", comments)
	}
}
