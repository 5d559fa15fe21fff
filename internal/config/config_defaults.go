package config

// Default returns the built-in configuration applied before any of the
// four higher tiers (project, global, home, env) are merged in.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8787,
		},
		Default: DefaultConfig{
			Status:   "Todo",
			Priority: "Medium",
			Type:     "Feature",
		},
		Issue: IssueConfig{
			Statuses:   []string{"Todo", "InProgress", "Blocked", "Done", "Cancelled"},
			Priorities: []string{"Low", "Medium", "High", "Critical"},
			Types:      []string{"Feature", "Bug", "Chore", "Epic"},
		},
		Scan: ScanConfig{
			SignalWords:   []string{"TODO", "FIXME", "TASK"},
			IncludeExts:   nil,
			ExcludeExts:   []string{".min.js", ".lock"},
			MaxFileBytes:  1 << 20,
			Parallel:      true,
			DiscoveryMode: "discovery-wide",
			Mentions:      true,
		},
		Auto: AutoConfig{
			BranchInference: true,
			PathTag:         false,
			PopulateMembers: true,
			SetReporter:     true,
		},
		Sprints: SprintsConfig{
			DefaultCapacity:      0,
			OverdueThresholdDays: 0,
		},
	}
}
