package taskservice

import (
	"os"

	"github.com/lotar-dev/lotar/internal/config"
	lotarerrors "github.com/lotar-dev/lotar/internal/errors"
	"github.com/lotar-dev/lotar/internal/util"
	"gopkg.in/yaml.v3"
)

// writeProjectMembers persists the current in-memory Default.Members
// field to the project tier's config.yml, merging over
// whatever else that file already holds so unrelated keys survive.
func (s *Service) writeProjectMembers(prefix string) error {
	path := config.ProjectConfigPath(s.TasksRoot, prefix)

	raw := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return lotarerrors.Serialization(path, err)
		}
	} else if !os.IsNotExist(err) {
		return lotarerrors.IO("read project config", err)
	}

	defaults, _ := raw["default"].(map[string]any)
	if defaults == nil {
		defaults = map[string]any{}
	}
	defaults["members"] = s.Config.Default.Members
	raw["default"] = defaults

	out, err := yaml.Marshal(raw)
	if err != nil {
		return lotarerrors.Serialization(path, err)
	}
	if err := util.AtomicWriteFile(path, out, 0o644); err != nil {
		return lotarerrors.IO("write project config", err)
	}
	return nil
}
