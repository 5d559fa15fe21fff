package config

// Config is the merged, five-tier-resolved configuration for a tasks root.
// The nested sections match the on-disk layout documented in the data
// model: server, default, issue, scan, auto, branch, sprints.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty" json:"server,omitempty"`
	Default DefaultConfig `yaml:"default,omitempty" json:"default,omitempty"`
	Issue   IssueConfig   `yaml:"issue,omitempty" json:"issue,omitempty"`
	Scan    ScanConfig    `yaml:"scan,omitempty" json:"scan,omitempty"`
	Auto    AutoConfig    `yaml:"auto,omitempty" json:"auto,omitempty"`
	Branch  BranchConfig  `yaml:"branch,omitempty" json:"branch,omitempty"`
	Sprints SprintsConfig `yaml:"sprints,omitempty" json:"sprints,omitempty"`
}

// ServerConfig controls the optional local web UI / API server.
type ServerConfig struct {
	Host          string `yaml:"host,omitempty" json:"host,omitempty"`
	Port          int    `yaml:"port,omitempty" json:"port,omitempty"`
	WebUIPath     string `yaml:"web_ui_path,omitempty" json:"web_ui_path,omitempty"`
	WebUIEmbedded bool   `yaml:"web_ui_embedded,omitempty" json:"web_ui_embedded,omitempty"`
}

// DefaultConfig holds the values a new task is populated with when a field
// is left unset on creation, plus the project's membership policy.
type DefaultConfig struct {
	Project       string   `yaml:"project,omitempty" json:"project,omitempty"`
	Status        string   `yaml:"status,omitempty" json:"status,omitempty"`
	Priority      string   `yaml:"priority,omitempty" json:"priority,omitempty"`
	Type          string   `yaml:"type,omitempty" json:"type,omitempty"`
	Reporter      string   `yaml:"reporter,omitempty" json:"reporter,omitempty"`
	Members       []string `yaml:"members,omitempty" json:"members,omitempty"`
	MembersClosed bool     `yaml:"members_closed,omitempty" json:"members_closed,omitempty"`
}

// IssueConfig holds the configurable enum lists and ticket-reference
// patterns a project validates task fields against.
type IssueConfig struct {
	Statuses       []string          `yaml:"statuses,omitempty" json:"statuses,omitempty"`
	Priorities     []string          `yaml:"priorities,omitempty" json:"priorities,omitempty"`
	Types          []string          `yaml:"types,omitempty" json:"types,omitempty"`
	TicketPatterns map[string]string `yaml:"ticket_patterns,omitempty" json:"ticket_patterns,omitempty"`
}

// ScanConfig controls the source-code marker scanner.
type ScanConfig struct {
	SignalWords   []string `yaml:"signal_words,omitempty" json:"signal_words,omitempty"`
	IncludeExts   []string `yaml:"include_exts,omitempty" json:"include_exts,omitempty"`
	ExcludeExts   []string `yaml:"exclude_exts,omitempty" json:"exclude_exts,omitempty"`
	MaxFileBytes  int64    `yaml:"max_file_bytes,omitempty" json:"max_file_bytes,omitempty"`
	Parallel      bool     `yaml:"parallel,omitempty" json:"parallel,omitempty"`
	DiscoveryMode string   `yaml:"discovery_mode,omitempty" json:"discovery_mode,omitempty"`
	// Mentions toggles whether an existing-key marker produces or updates a
	// code: reference on its task (§4.4 "Mentions toggle"). When false, the
	// scanner still reports the finding but never mutates the task.
	Mentions bool `yaml:"mentions,omitempty" json:"mentions,omitempty"`
}

// AutoConfig toggles automatic field population performed by the task
// service on create/update.
type AutoConfig struct {
	BranchInference bool `yaml:"branch_inference,omitempty" json:"branch_inference,omitempty"`
	PathTag         bool `yaml:"path_tag,omitempty" json:"path_tag,omitempty"`
	PopulateMembers bool `yaml:"populate_members,omitempty" json:"populate_members,omitempty"`
	SetReporter     bool `yaml:"set_reporter,omitempty" json:"set_reporter,omitempty"`
}

// BranchMapping maps a branch-name prefix (e.g. "bugfix/") to the task
// field values it should imply.
type BranchMapping struct {
	Type     string `yaml:"type,omitempty" json:"type,omitempty"`
	Status   string `yaml:"status,omitempty" json:"status,omitempty"`
	Priority string `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// BranchConfig holds the branch-prefix-to-field-value inference table.
type BranchConfig struct {
	Mappings map[string]BranchMapping `yaml:"mappings,omitempty" json:"mappings,omitempty"`
}

// SprintsConfig holds project-wide sprint defaults.
type SprintsConfig struct {
	DefaultCapacity      int `yaml:"default_capacity,omitempty" json:"default_capacity,omitempty"`
	OverdueThresholdDays int `yaml:"overdue_threshold_days,omitempty" json:"overdue_threshold_days,omitempty"`
}
