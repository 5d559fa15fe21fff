// Package taskservice orchestrates task creation, update, and deletion:
// project resolution, config-default population, normalization,
// branch/path-tag inference hooks, membership enforcement, and event
// emission, on top of internal/storage and internal/task's pure helpers.
// Generalizes the Task.New/getter-with-default idiom (internal/task/task.go)
// into a service-layer orchestration step.
package taskservice

import (
	"sort"
	"strings"

	"github.com/lotar-dev/lotar/internal/config"
	lotarerrors "github.com/lotar-dev/lotar/internal/errors"
	"github.com/lotar-dev/lotar/internal/events"
	"github.com/lotar-dev/lotar/internal/identity"
	"github.com/lotar-dev/lotar/internal/storage"
	"github.com/lotar-dev/lotar/internal/task"
)

// fallbackProjectName is used when no project can be resolved from an
// explicit override, config default, or monorepo inference (spec §4.3
// step 1).
const fallbackProjectName = "project"

// Service wires storage, configuration, identity, and the event bus
// together to implement the task lifecycle operations.
type Service struct {
	Backend   storage.Backend
	Config    *config.Config
	TasksRoot string
	Runner    identity.CommandRunner
	RepoRoot  string
	CWD       string
	Publisher *events.PublishHelper
}

// New constructs a Service. publisher may be nil, in which case events are
// dropped (PublishHelper is nil-safe).
func New(backend storage.Backend, cfg *config.Config, tasksRoot, repoRoot, cwd string, runner identity.CommandRunner, publisher *events.PublishHelper) *Service {
	if publisher == nil {
		publisher = events.NewPublishHelper(nil)
	}
	return &Service{
		Backend:   backend,
		Config:    cfg,
		TasksRoot: tasksRoot,
		Runner:    runner,
		RepoRoot:  repoRoot,
		CWD:       cwd,
		Publisher: publisher,
	}
}

func (s *Service) currentUser() string {
	return identity.CurrentUser(s.Runner, s.RepoRoot)
}

func (s *Service) resolveUser(value string) string {
	return identity.ResolveUser(value, s.Runner, s.RepoRoot)
}

// resolveProject resolves the project in this order: explicit -> config
// default -> discovery-derived monorepo label (InferMonorepoProject) ->
// fallback constant. There is no separate step that derives a name from
// git or a manifest. explicitName may be a project name or an existing
// prefix; returns the resolved project prefix.
func (s *Service) resolveProject(explicitName string) (string, error) {
	name := explicitName
	if name == "" {
		name = s.Config.Default.Project
	}
	if name == "" {
		if label, _, ok := identity.InferMonorepoProject(s.CWD); ok {
			name = label
		}
	}
	if name == "" {
		name = fallbackProjectName
	}
	return s.namedPrefix(name)
}

// namedPrefix resolves name to a project prefix: if name is already an
// existing prefix (case-insensitive), it is reused as-is; otherwise a
// fresh prefix is generated and disambiguated against the existing set.
func (s *Service) namedPrefix(name string) (string, error) {
	existingProjects, err := s.Backend.ListProjects()
	if err != nil {
		return "", err
	}
	existing := make(map[string]bool, len(existingProjects))
	for _, p := range existingProjects {
		existing[strings.ToUpper(p)] = true
	}
	upper := strings.ToUpper(name)
	if existing[upper] {
		return upper, nil
	}
	return config.GenerateProjectPrefix(name, existing), nil
}

// CreateInput carries the raw, pre-normalization fields for a new task.
type CreateInput struct {
	Project            string
	Title              string
	Status             string
	Priority           string
	Type               string
	Assignee           string
	Reporter           string
	Tags               []string
	DueDate            string
	Effort             string
	Description        string
	Category           string
	AcceptanceCriteria []string
	CustomFields       map[string]any
	Branch             string // current VCS branch, for inference hook (step 4)
	DryRun             bool   // member auto-population stays in-memory only
}

// CreateResult is the outcome of Create.
type CreateResult struct {
	ID      string
	Task    *task.Task
	Prefix  string
	Added   []string // members newly added to the project roster
}

// Create runs the full 7-step creation flow (spec §4.3) and persists the
// result unless input.DryRun is set.
func (s *Service) Create(input CreateInput) (*CreateResult, error) {
	prefix, err := s.resolveProject(input.Project)
	if err != nil {
		return nil, err
	}

	t := task.New(input.Title)
	t.Status = task.Status(firstNonEmpty(input.Status, s.Config.Default.Status))
	t.Priority = task.Priority(firstNonEmpty(input.Priority, s.Config.Default.Priority))
	t.Type = task.Type(firstNonEmpty(input.Type, s.Config.Default.Type))
	t.Assignee = input.Assignee
	t.Reporter = firstNonEmpty(input.Reporter, s.Config.Default.Reporter)
	t.DueDate = input.DueDate
	t.Effort = input.Effort
	t.Tags = append([]string(nil), input.Tags...)
	t.Description = input.Description
	t.Category = input.Category
	t.AcceptanceCriteria = append([]string(nil), input.AcceptanceCriteria...)
	t.CustomFields = input.CustomFields

	if s.Config.Auto.SetReporter && t.Reporter == "" {
		t.Reporter = s.currentUser()
	}
	t.Assignee = s.resolveUser(t.Assignee)
	t.Reporter = s.resolveUser(t.Reporter)

	if err := s.normalize(t); err != nil {
		return nil, err
	}

	if s.Config.Auto.BranchInference && input.Branch != "" {
		applyBranchInference(t, s.Config.Branch.Mappings, input.Branch)
	}

	if s.Config.Auto.PathTag {
		if tag, ok := identity.PathTag(s.RepoRoot, s.CWD); ok && !containsString(t.Tags, tag) {
			t.Tags = append(t.Tags, tag)
		}
	}

	var added []string
	if s.Config.Auto.PopulateMembers {
		added, err = s.populateMembers(prefix, []string{t.Assignee, t.Reporter}, input.DryRun)
		if err != nil {
			return nil, err
		}
	}

	if err := s.enforceMembership(prefix, t); err != nil {
		return nil, err
	}

	if input.DryRun {
		return &CreateResult{Task: t, Prefix: prefix, Added: added}, nil
	}

	id, err := s.Backend.Add(t, prefix)
	if err != nil {
		return nil, err
	}
	s.Publisher.TaskCreated(id, prefix)
	return &CreateResult{ID: id, Task: t, Prefix: prefix, Added: added}, nil
}

// normalize validates and canonicalizes a task's fields in place (spec
// §4.3 step 3): trims/drops empty tags, canonicalizes effort and due date,
// validates enums, and rejects reserved custom-field/tag names.
func (s *Service) normalize(t *task.Task) error {
	t.Tags = task.NormalizeTags(t.Tags)
	if err := task.ValidateTags(t.Tags); err != nil {
		return lotarerrors.Validation("invalid tags", err.Error())
	}

	effort, err := task.ParseEffort(t.Effort)
	if err != nil {
		return lotarerrors.Validation("invalid effort", err.Error())
	}
	t.Effort = effort

	dueDate, err := task.ParseDueDate(t.DueDate)
	if err != nil {
		return lotarerrors.Validation("invalid due date", err.Error())
	}
	t.DueDate = dueDate

	if t.Status != "" {
		if !containsFold(s.Config.Issue.Statuses, string(t.Status)) {
			return lotarerrors.Validation("invalid status", string(t.Status)+" is not a configured status")
		}
		t.Status = task.Status(task.ResolveEnumCase(s.Config.Issue.Statuses, string(t.Status)))
	}
	if t.Priority != "" {
		if !containsFold(s.Config.Issue.Priorities, string(t.Priority)) {
			return lotarerrors.Validation("invalid priority", string(t.Priority)+" is not a configured priority")
		}
		t.Priority = task.Priority(task.ResolveEnumCase(s.Config.Issue.Priorities, string(t.Priority)))
	}
	if t.Type != "" {
		if !containsFold(s.Config.Issue.Types, string(t.Type)) {
			return lotarerrors.Validation("invalid type", string(t.Type)+" is not a configured type")
		}
		t.Type = task.Type(task.ResolveEnumCase(s.Config.Issue.Types, string(t.Type)))
	}

	if t.CustomFields != nil {
		if err := task.ValidateCustomFields(t.CustomFields); err != nil {
			return lotarerrors.Validation("invalid custom field", err.Error())
		}
	}
	return nil
}

// applyBranchInference maps a branch name to default type/status/priority
// via the longest matching configured prefix, filling only unset fields
// (spec §4.3 step 4).
func applyBranchInference(t *task.Task, mappings map[string]config.BranchMapping, branch string) {
	var best string
	var bestMapping config.BranchMapping
	for prefix, mapping := range mappings {
		if strings.HasPrefix(branch, prefix) && len(prefix) > len(best) {
			best = prefix
			bestMapping = mapping
		}
	}
	if best == "" {
		return
	}
	if t.Type == "" && bestMapping.Type != "" {
		t.Type = task.Type(bestMapping.Type)
	}
	if t.Status == "" && bestMapping.Status != "" {
		t.Status = task.Status(bestMapping.Status)
	}
	if t.Priority == "" && bestMapping.Priority != "" {
		t.Priority = task.Priority(bestMapping.Priority)
	}
}

// populateMembers adds any non-empty, not-yet-listed name to the project's
// member roster (case-insensitive uniqueness, kept sorted). When the
// roster is a closed list, membership is enforced instead of grown: no
// names are added. dryRun keeps the change in memory only.
func (s *Service) populateMembers(prefix string, names []string, dryRun bool) ([]string, error) {
	if s.Config.Default.MembersClosed {
		return nil, nil
	}
	existing := make(map[string]bool, len(s.Config.Default.Members))
	for _, m := range s.Config.Default.Members {
		existing[strings.ToLower(m)] = true
	}
	var added []string
	for _, name := range names {
		if name == "" || existing[strings.ToLower(name)] {
			continue
		}
		existing[strings.ToLower(name)] = true
		s.Config.Default.Members = append(s.Config.Default.Members, name)
		added = append(added, name)
	}
	if len(added) == 0 {
		return nil, nil
	}
	sort.Strings(s.Config.Default.Members)
	if dryRun {
		return added, nil
	}
	if err := s.writeProjectMembers(prefix); err != nil {
		return nil, err
	}
	s.Publisher.ConfigUpdated("project")
	return added, nil
}

// enforceMembership rejects an assignee/reporter outside a closed member
// list.
func (s *Service) enforceMembership(prefix string, t *task.Task) error {
	if !s.Config.Default.MembersClosed {
		return nil
	}
	allowed := make(map[string]bool, len(s.Config.Default.Members))
	for _, m := range s.Config.Default.Members {
		allowed[strings.ToLower(m)] = true
	}
	for _, who := range []string{t.Assignee, t.Reporter} {
		if who != "" && !allowed[strings.ToLower(who)] {
			return lotarerrors.Validation("assignee/reporter not a project member",
				who+" is not in the closed member list for "+prefix)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
