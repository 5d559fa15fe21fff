// Package storage implements the plain-file task/project/sprint
// persistence layer: CRUD against `.tasks/<PREFIX>/<N>.yml`, a rebuildable
// `index.yml` cache, and tasks-root discovery. The Backend interface shape
// carries over from a hybrid file+SQLite design, narrowed to a files-only
// backend since the data model is explicitly plain-text-first.
package storage

import (
	"github.com/lotar-dev/lotar/internal/task"
)

// DiscoveryMode controls whether read operations span sibling `.tasks/`
// roots in a monorepo. Writes always target exactly one resolved root
// regardless of mode (see DESIGN.md Open Question a).
type DiscoveryMode string

const (
	DiscoveryWide   DiscoveryMode = "discovery-wide"
	DiscoverySingle DiscoveryMode = "single-root"
)

// TaskRecord pairs a resolved full task ID with its loaded task.
type TaskRecord struct {
	ID   string
	Task *task.Task
}

// Filter selects tasks for Search. List-valued fields are ORed within
// themselves; all non-empty fields of a Filter are ANDed together.
type Filter struct {
	Prefix       string
	Statuses     []string
	Priorities   []string
	Types        []string
	Tags         []string
	Sprints      []int
	TextQuery    string
	CustomFields map[string][]string
}

// Backend is the storage contract for tasks, projects, and sprints. All
// methods operate against exactly one resolved root in write paths; Search
// and ListByProject may additionally read across sibling roots when the
// backend's DiscoveryMode is DiscoveryWide.
type Backend interface {
	// Task CRUD (spec §4.2 CRUD contract)
	Add(t *task.Task, prefix string) (string, error)
	Get(id string) (*task.Task, error)
	Edit(id string, t *task.Task) error
	Delete(id string) (bool, error)
	Search(filter Filter) ([]TaskRecord, error)
	ListByProject(prefix string) ([]TaskRecord, error)
	FindByNumericID(n int) (id string, t *task.Task, ambiguousWith []string, err error)

	// Sprint CRUD
	AddSprint(s *task.Sprint) (id int, lengthDemoted bool, err error)
	GetSprint(n int) (*task.Sprint, error)
	EditSprint(n int, s *task.Sprint) (lengthDemoted bool, err error)
	DeleteSprint(n int) (bool, error)
	ListSprintIDs() ([]int, error)

	// Index maintenance
	RebuildIndex() error

	// Discovery
	ListProjects() ([]string, error)
}
