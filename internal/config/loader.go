package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Loader resolves the five-tier configuration for one tasks root: a
// LoadWithSources-style merge re-keyed to LoTaR's env/home/global/project/
// defaults tiers (spec §4.1, §6).
type Loader struct {
	TasksRoot string // <root>, e.g. ".tasks"
	Prefix    string // project prefix, selects <root>/<PREFIX>/config.yml
	HomeDir   string // for ~/.lotar/config.yml
	Getenv    func(string) string
}

// NewLoader constructs a Loader. getenv defaults to os.Getenv if nil.
func NewLoader(tasksRoot, prefix, homeDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Loader{TasksRoot: tasksRoot, Prefix: prefix, HomeDir: homeDir, Getenv: getenv}
}

// ProjectConfigPath returns the project-tier config file path for prefix
// under tasksRoot, for callers (e.g. member auto-population) that need to
// persist a change to that single tier without going through Load/Save.
func ProjectConfigPath(tasksRoot, prefix string) string {
	return filepath.Join(tasksRoot, prefix, "config.yml")
}

func (l *Loader) path(source Source) string {
	switch source {
	case SourceHome:
		return filepath.Join(l.HomeDir, ".lotar", "config.yml")
	case SourceGlobal:
		return filepath.Join(l.TasksRoot, "config.yml")
	case SourceProject:
		if l.Prefix == "" {
			return ""
		}
		return filepath.Join(l.TasksRoot, l.Prefix, "config.yml")
	default:
		return ""
	}
}

// Load resolves the full five-tier chain and returns the merged config
// along with per-field provenance.
func (l *Loader) Load() (*TrackedConfig, error) {
	tc := NewTrackedConfig(Default())
	allPaths := AllConfigPaths()
	for _, p := range allPaths {
		tc.SetSource(p, SourceDefaults)
	}

	// Lowest precedence (project) to highest (env), so later merges win.
	fileTiers := []Source{SourceProject, SourceGlobal, SourceHome}
	for _, tier := range fileTiers {
		path := l.path(tier)
		if path == "" {
			continue
		}
		if err := l.mergeFile(tc, path, tier); err != nil {
			return nil, err
		}
	}
	l.mergeEnv(tc)

	return tc, nil
}

// mergeFile reads one tier's config.yml (if present; a missing file is not
// an error, every tier is optional) and merges only the fields it sets.
func (l *Loader) mergeFile(tc *TrackedConfig, path string, source Source) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	var rawTree map[string]any
	if err := yaml.Unmarshal(data, &rawTree); err != nil {
		return fmt.Errorf("config: malformed YAML in %s: %w", path, err)
	}
	rawTree = Normalize(rawTree)

	present := make(map[string]bool)
	flatten(rawTree, "", present)

	reencoded, err := yaml.Marshal(rawTree)
	if err != nil {
		return fmt.Errorf("config: re-encoding %s: %w", path, err)
	}
	var tierCfg Config
	if err := yaml.Unmarshal(reencoded, &tierCfg); err != nil {
		return fmt.Errorf("config: malformed YAML in %s: %w", path, err)
	}

	mergePresent(tc, &tierCfg, present, source)
	return nil
}

// mergePresent copies every leaf field present in the raw document from src
// into tc.Config, honoring the wildcard-token defer rule for list fields.
func mergePresent(tc *TrackedConfig, src *Config, present map[string]bool, source Source) {
	srcV := reflect.ValueOf(src).Elem()
	walkFields(srcV, "", func(fp fieldPath) {
		if !present[fp.path] {
			return
		}
		if fp.value.Kind() == reflect.Slice && fp.value.Len() == 1 &&
			fp.value.Index(0).Kind() == reflect.String && fp.value.Index(0).String() == "*" {
			return // wildcard token: keep the value already merged from the lower-precedence tier
		}
		dstField, err := findFieldByTag(tc.Config, fp.path)
		if err != nil {
			return
		}
		dstField.Set(fp.value)
		tc.SetSource(fp.path, source)
	})
}

// mergeEnv applies LOTAR_* environment variable overrides, the highest
// precedence tier.
func (l *Loader) mergeEnv(tc *TrackedConfig) {
	for _, mapping := range EnvVarMappings {
		raw := l.Getenv(mapping.Env)
		if raw == "" {
			continue
		}
		if err := SetValue(tc.Config, mapping.Path, raw); err != nil {
			continue
		}
		tc.SetSource(mapping.Path, SourceEnv)
	}
}
