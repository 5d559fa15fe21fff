package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ResolutionEntry is one tier's contribution to a single config key,
// re-keyed to LoTaR's five tiers.
type ResolutionEntry struct {
	Source    Source
	Path      string // file path (or env var name for the env tier)
	Value     any
	IsSet     bool
	IsWinning bool
}

// ResolutionChain is the full --explain report for one dotted config key.
type ResolutionChain struct {
	Key         string
	FinalValue  any
	WinningFrom Source
	Entries     []ResolutionEntry
}

// GetResolutionChain reports, for one dotted key, what every tier
// contributed and which tier won. tc must come from a prior l.Load() call
// against the same Loader.
func (l *Loader) GetResolutionChain(tc *TrackedConfig, key string) (*ResolutionChain, error) {
	final, err := GetValue(tc.Config, key)
	if err != nil {
		return nil, err
	}
	winning := tc.SourceOf(key)
	chain := &ResolutionChain{Key: key, FinalValue: final, WinningFrom: winning}

	order := []Source{SourceDefaults, SourceProject, SourceGlobal, SourceHome, SourceEnv}
	for _, source := range order {
		entry := ResolutionEntry{Source: source, IsWinning: source == winning}
		switch source {
		case SourceDefaults:
			v, _ := GetValue(Default(), key)
			entry.Value = v
			entry.IsSet = true
		case SourceEnv:
			for _, m := range EnvVarMappings {
				if m.Path != key {
					continue
				}
				entry.Path = m.Env
				if raw := l.Getenv(m.Env); raw != "" {
					entry.Value = raw
					entry.IsSet = true
				}
			}
		default:
			path := l.path(source)
			entry.Path = path
			if path != "" {
				val, ok, err := getValueFromFile(path, key)
				if err != nil {
					return nil, err
				}
				entry.IsSet = ok
				entry.Value = val
			}
		}
		chain.Entries = append(chain.Entries, entry)
	}
	return chain, nil
}

// getValueFromFile reads one tier's config.yml, normalizes dotted-key
// input to nested form, and looks up key.
func getValueFromFile(path, key string) (value any, ok bool, err error) {
	data, readErr := os.ReadFile(path)
	if os.IsNotExist(readErr) {
		return nil, false, nil
	}
	if readErr != nil {
		return nil, false, fmt.Errorf("config: reading %s: %w", path, readErr)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, false, fmt.Errorf("config: malformed YAML in %s: %w", path, err)
	}
	tree = Normalize(tree)

	parts := strings.Split(key, ".")
	var cur any = tree
	for _, part := range parts {
		m, isMap := cur.(map[string]any)
		if !isMap {
			return nil, false, nil
		}
		v, present := m[part]
		if !present {
			return nil, false, nil
		}
		cur = v
	}
	return cur, true, nil
}
