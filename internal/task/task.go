// Package task defines the on-disk entity model: Task, Sprint, their
// enumerated fields, and the pure (non-I/O) logic that operates on them.
// Persistence lives in internal/storage; this package only knows how to
// validate, normalize, and diff values in memory.
package task

import (
	"fmt"
	"sort"
	"time"
)

// Status is a task's workflow state. The concrete set of allowed values is
// configurable (see internal/config); these are only the built-in defaults.
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
)

// DefaultStatuses is the built-in status enum used when no tier overrides it.
func DefaultStatuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Priority is a task's urgency. Configurable like Status.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriorities is the built-in priority enum.
func DefaultPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Type is a task's kind (feature, bug, chore, ...). Configurable.
type Type string

const (
	TypeFeature Type = "Feature"
	TypeBug     Type = "Bug"
	TypeChore   Type = "Chore"
)

// DefaultTypes is the built-in type enum.
func DefaultTypes() []Type {
	return []Type{TypeFeature, TypeBug, TypeChore}
}

// ReferenceKind is the tag on a Task.References entry.
type ReferenceKind string

const (
	ReferenceLink ReferenceKind = "link"
	ReferenceFile ReferenceKind = "file"
	ReferenceCode ReferenceKind = "code"
)

// IsValidReferenceKind reports whether k is one of the three reference
// kinds the data model allows.
func IsValidReferenceKind(k ReferenceKind) bool {
	switch k {
	case ReferenceLink, ReferenceFile, ReferenceCode:
		return true
	default:
		return false
	}
}

// Reference is one entry of Task.References: `link:<url>`, `file:<path>`,
// or `code:<path>#<line>`.
type Reference struct {
	Kind ReferenceKind
	Path string // URL for link, repo-relative POSIX path for file/code
	Line int    // only meaningful for ReferenceCode; 0 means unset
}

// String renders the reference in its on-disk tagged form.
func (r Reference) String() string {
	switch r.Kind {
	case ReferenceCode:
		if r.Line > 0 {
			return fmt.Sprintf("code:%s#%d", r.Path, r.Line)
		}
		return fmt.Sprintf("code:%s", r.Path)
	default:
		return fmt.Sprintf("%s:%s", r.Kind, r.Path)
	}
}

// RelationKind is an edge type in Task.Relationships.
type RelationKind string

const (
	RelationParent     RelationKind = "parent"
	RelationChild      RelationKind = "child"
	RelationBlocks     RelationKind = "blocks"
	RelationBlockedBy  RelationKind = "blocked_by"
	RelationRelates    RelationKind = "relates"
	RelationDuplicates RelationKind = "duplicates"
)

// Relationships holds the typed edges from a task to other task IDs.
type Relationships struct {
	Parent     string   `yaml:"parent,omitempty" json:"parent,omitempty"`
	Children   []string `yaml:"children,omitempty" json:"children,omitempty"`
	Blocks     []string `yaml:"blocks,omitempty" json:"blocks,omitempty"`
	BlockedBy  []string `yaml:"blocked_by,omitempty" json:"blocked_by,omitempty"`
	Relates    []string `yaml:"relates,omitempty" json:"relates,omitempty"`
	Duplicates []string `yaml:"duplicates,omitempty" json:"duplicates,omitempty"`
}

// IsEmpty reports whether every edge list is empty, so the section can be
// pruned from canonical output.
func (r Relationships) IsEmpty() bool {
	return r.Parent == "" && len(r.Children) == 0 && len(r.Blocks) == 0 &&
		len(r.BlockedBy) == 0 && len(r.Relates) == 0 && len(r.Duplicates) == 0
}

// Comment is one entry of Task.Comments.
type Comment struct {
	Author string    `yaml:"author" json:"author"`
	Date   time.Time `yaml:"date" json:"date"`
	Text   string    `yaml:"text" json:"text"`
}

// HistoryEntry is one append-only change-log entry.
type HistoryEntry struct {
	Date   time.Time `yaml:"date" json:"date"`
	Field  string    `yaml:"field" json:"field"`
	Old    string    `yaml:"old,omitempty" json:"old,omitempty"`
	New    string    `yaml:"new,omitempty" json:"new,omitempty"`
	Author string    `yaml:"author,omitempty" json:"author,omitempty"`
}

// Task is the in-memory representation of a task file. Its ID is never
// stored here: it is derived entirely from the file's path
// (<root>/<PREFIX>/<N>.yml), per the data-model invariant that a task
// file's location fully determines its identity.
type Task struct {
	Title              string
	Status             Status
	Priority           Priority
	Type               Type
	Assignee           string
	Reporter           string
	Created            time.Time
	Modified           time.Time // zero until first mutation after creation
	DueDate            string    // ISO-8601 date, or a relative expression at input
	Effort             string    // canonical form, see effort.go
	Tags               []string
	Description        string
	Category           string
	AcceptanceCriteria []string
	Relationships      Relationships
	References         []Reference
	Sprints            []int
	Comments           []Comment
	CustomFields       map[string]any
	History            []HistoryEntry

	// Blocks is computed by scanning other tasks' Relationships.BlockedBy;
	// it is never persisted.
	Blocks []string `yaml:"-" json:"blocks,omitempty"`
}

// New creates a task with the given title and creation timestamp defaults.
func New(title string) *Task {
	return &Task{
		Title:   title,
		Created: time.Now().UTC(),
	}
}

// HasModified reports whether the task has been mutated since creation.
func (t *Task) HasModified() bool {
	return !t.Modified.IsZero()
}

// Touch marks the task as modified now. Callers invoke this on every
// service-level mutation (never on load).
func (t *Task) Touch() {
	t.Modified = time.Now().UTC()
}

// AddReference appends a reference, avoiding an exact duplicate.
func (t *Task) AddReference(ref Reference) {
	for _, existing := range t.References {
		if existing.Kind == ref.Kind && existing.Path == ref.Path && existing.Line == ref.Line {
			return
		}
	}
	t.References = append(t.References, ref)
}

// RemoveReference removes all references matching kind+path (ignoring
// line, since code references anchor by path).
func (t *Task) RemoveReference(kind ReferenceKind, path string) int {
	kept := t.References[:0]
	removed := 0
	for _, ref := range t.References {
		if ref.Kind == kind && ref.Path == path {
			removed++
			continue
		}
		kept = append(kept, ref)
	}
	t.References = kept
	return removed
}

// LatestCodeAnchorPerFile prunes code: references so that only the
// highest-line reference remains per file path, per the scanner's
// "latest occurrence per file" anchoring rule.
func (t *Task) LatestCodeAnchorPerFile() {
	latest := make(map[string]Reference)
	var other []Reference
	for _, ref := range t.References {
		if ref.Kind != ReferenceCode {
			other = append(other, ref)
			continue
		}
		if cur, ok := latest[ref.Path]; !ok || ref.Line > cur.Line {
			latest[ref.Path] = ref
		}
	}
	paths := make([]string, 0, len(latest))
	for p := range latest {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	result := other
	for _, p := range paths {
		result = append(result, latest[p])
	}
	t.References = result
}

// AddSprint adds a sprint ID to Sprints if not already present.
func (t *Task) AddSprint(id int) {
	for _, s := range t.Sprints {
		if s == id {
			return
		}
	}
	t.Sprints = append(t.Sprints, id)
}

// ReplaceSprint sets Sprints to exactly [id], returning the previous
// members (the "replaced" set reported by a --force sprint assignment).
func (t *Task) ReplaceSprint(id int) []int {
	previous := append([]int(nil), t.Sprints...)
	t.Sprints = []int{id}
	return previous
}

// RemoveSprints removes every sprint ID in ids from Sprints, returning the
// number actually removed.
func (t *Task) RemoveSprints(ids map[int]bool) int {
	kept := t.Sprints[:0]
	removed := 0
	for _, s := range t.Sprints {
		if ids[s] {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	t.Sprints = kept
	return removed
}

// AppendComment appends a comment. An empty text is rejected by callers
// (service layer), not here: this is the pure data operation.
func (t *Task) AppendComment(author, text string) {
	t.Comments = append(t.Comments, Comment{Author: author, Date: time.Now().UTC(), Text: text})
}

// RecordHistory appends a history entry for a single field change.
func (t *Task) RecordHistory(field, old, new, author string) {
	if old == new {
		return
	}
	t.History = append(t.History, HistoryEntry{
		Date:   time.Now().UTC(),
		Field:  field,
		Old:    old,
		New:    new,
		Author: author,
	})
}

// ComputeBlocks calculates the Blocks field for a task ID by scanning all
// tasks' BlockedBy relationships — the inverse edge is computed, not
// stored.
func ComputeBlocks(id string, all map[string]*Task) []string {
	var blocks []string
	for otherID, t := range all {
		for _, blocker := range t.Relationships.BlockedBy {
			if blocker == id {
				blocks = append(blocks, otherID)
				break
			}
		}
	}
	sort.Strings(blocks)
	return blocks
}

// PopulateComputedFields fills Blocks for every task in the set. Called
// after loading a full project or root so list/search can surface the
// computed field without a second pass per caller.
func PopulateComputedFields(all map[string]*Task) {
	for id, t := range all {
		t.Blocks = ComputeBlocks(id, all)
	}
}

// DependencyError reports a problem with a relationship edge.
type DependencyError struct {
	TaskID  string
	Message string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.TaskID, e.Message)
}

// ValidateBlockedBy checks that every blocked_by entry references an
// existing, distinct task.
func ValidateBlockedBy(taskID string, blockedBy []string, existingIDs map[string]bool) []error {
	var errs []error
	for _, dep := range blockedBy {
		if dep == taskID {
			errs = append(errs, &DependencyError{TaskID: taskID, Message: "task cannot block itself"})
			continue
		}
		if !existingIDs[dep] {
			errs = append(errs, &DependencyError{TaskID: taskID, Message: fmt.Sprintf("blocked_by references non-existent task %s", dep)})
		}
	}
	return errs
}

// DetectCircularDependency checks whether adding newBlocker to taskID's
// blocked_by set would create a cycle in the blocks/blocked-by graph.
// Returns the cycle path (in order) if one would be created, nil
// otherwise.
func DetectCircularDependency(taskID, newBlocker string, all map[string]*Task) []string {
	graph := make(map[string][]string, len(all))
	for id, t := range all {
		graph[id] = append([]string(nil), t.Relationships.BlockedBy...)
	}
	graph[taskID] = append(graph[taskID], newBlocker)

	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		if onPath[id] {
			cycle = append(cycle, id)
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		onPath[id] = true
		for _, dep := range graph[id] {
			if dfs(dep) {
				cycle = append(cycle, id)
				return true
			}
		}
		onPath[id] = false
		return false
	}

	if !dfs(taskID) {
		return nil
	}
	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	return cycle
}
