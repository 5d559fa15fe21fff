package task

import "time"

// SprintPlan is the planned shape of a sprint. Length and EndsAt are
// mutually exclusive on persist: Canonicalize drops Length when EndsAt is
// also set (see DESIGN.md Open Question c).
type SprintPlan struct {
	Label            string     `yaml:"label,omitempty" json:"label,omitempty"`
	Goal             string     `yaml:"goal,omitempty" json:"goal,omitempty"`
	Capacity         int        `yaml:"capacity,omitempty" json:"capacity,omitempty"`
	Start            *time.Time `yaml:"start,omitempty" json:"start,omitempty"`
	Length           int        `yaml:"length,omitempty" json:"length,omitempty"` // days
	EndsAt           *time.Time `yaml:"ends_at,omitempty" json:"ends_at,omitempty"`
	OverdueThreshold int        `yaml:"overdue_threshold,omitempty" json:"overdue_threshold,omitempty"`
}

// IsEmpty reports whether every field of the plan is unset.
func (p SprintPlan) IsEmpty() bool {
	return p.Label == "" && p.Goal == "" && p.Capacity == 0 &&
		p.Start == nil && p.Length == 0 && p.EndsAt == nil && p.OverdueThreshold == 0
}

// SprintActual records when a sprint actually started/closed.
type SprintActual struct {
	StartedAt *time.Time `yaml:"started_at,omitempty" json:"started_at,omitempty"`
	ClosedAt  *time.Time `yaml:"closed_at,omitempty" json:"closed_at,omitempty"`
}

// IsEmpty reports whether neither timestamp is set.
func (a SprintActual) IsEmpty() bool {
	return a.StartedAt == nil && a.ClosedAt == nil
}

// Sprint is the in-memory representation of a sprint file. Its numeric ID,
// like a task's, is derived from its file path (<root>/@sprints/<N>.yml),
// never stored inside the file.
type Sprint struct {
	Plan   SprintPlan
	Actual *SprintActual
}

// Canonicalize enforces the length/ends_at mutual exclusion and prunes an
// empty Actual section. Returns true if length was demoted, so callers can
// surface the canonicalization warning required by the data model.
func (s *Sprint) Canonicalize() (warned bool) {
	if s.Plan.Length != 0 && s.Plan.EndsAt != nil {
		s.Plan.Length = 0
		warned = true
	}
	if s.Actual != nil && s.Actual.IsEmpty() {
		s.Actual = nil
	}
	return warned
}
