package storage

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	lotarerrors "github.com/lotar-dev/lotar/internal/errors"
	"github.com/lotar-dev/lotar/internal/task"
	"github.com/lotar-dev/lotar/internal/util"
	"gopkg.in/yaml.v3"
)

// sprintFile is the on-disk shape of a sprint file: plan fields flattened
// at the top level, actual fields nested under "actual" when present.
type sprintFile struct {
	task.SprintPlan `yaml:",inline"`
	Actual          *task.SprintActual `yaml:"actual,omitempty"`
}

// AddSprint assigns the next numeric sprint ID and writes the sprint
// file. lengthDemoted reports whether the sprint plan set both length
// and ends_at, in which case length was dropped in favor of ends_at
// (task.Sprint.Canonicalize's canonicalization warning).
func (b *FSBackend) AddSprint(s *task.Sprint) (id int, lengthDemoted bool, err error) {
	if err := os.MkdirAll(b.sprintsDir(), 0o755); err != nil {
		return 0, false, lotarerrors.IO("create sprints directory", err)
	}
	entries, err := os.ReadDir(b.sprintsDir())
	if err != nil {
		return 0, false, lotarerrors.IO("list sprints directory", err)
	}
	max := 0
	for _, e := range entries {
		if n, ok := stemToInt(e.Name()); ok && n > max {
			max = n
		}
	}
	n := max + 1
	warned, err := b.writeSprintFile(n, s)
	if err != nil {
		return 0, false, err
	}
	return n, warned, nil
}

// GetSprint loads one sprint by numeric ID.
func (b *FSBackend) GetSprint(n int) (*task.Sprint, error) {
	data, err := os.ReadFile(b.sprintPath(n))
	if os.IsNotExist(err) {
		return nil, lotarerrors.NotFound("sprint", strconv.Itoa(n))
	}
	if err != nil {
		return nil, lotarerrors.IO(fmt.Sprintf("read sprint %d", n), err)
	}
	var sf sprintFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, lotarerrors.Serialization(b.sprintPath(n), err)
	}
	return &task.Sprint{Plan: sf.SprintPlan, Actual: sf.Actual}, nil
}

// EditSprint overwrites a sprint file only if it already exists.
// lengthDemoted reports whether s's length was dropped in favor of
// ends_at during canonicalization.
func (b *FSBackend) EditSprint(n int, s *task.Sprint) (lengthDemoted bool, err error) {
	if _, err := os.Stat(b.sprintPath(n)); os.IsNotExist(err) {
		return false, lotarerrors.NotFound("sprint", strconv.Itoa(n))
	}
	return b.writeSprintFile(n, s)
}

// DeleteSprint removes a sprint file.
func (b *FSBackend) DeleteSprint(n int) (bool, error) {
	if err := os.Remove(b.sprintPath(n)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, lotarerrors.IO(fmt.Sprintf("delete sprint %d", n), err)
	}
	return true, nil
}

// ListSprintIDs enumerates every sprint's numeric ID, ascending.
func (b *FSBackend) ListSprintIDs() ([]int, error) {
	entries, err := os.ReadDir(b.sprintsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, lotarerrors.IO("list sprints directory", err)
	}
	var ids []int
	for _, e := range entries {
		if n, ok := stemToInt(e.Name()); ok {
			ids = append(ids, n)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (b *FSBackend) writeSprintFile(n int, s *task.Sprint) (lengthDemoted bool, err error) {
	warned := s.Canonicalize()
	sf := sprintFile{SprintPlan: s.Plan, Actual: s.Actual}
	data, err := yaml.Marshal(sf)
	if err != nil {
		return false, lotarerrors.Serialization(b.sprintPath(n), err)
	}
	if err := util.AtomicWriteFile(b.sprintPath(n), data, 0o644); err != nil {
		return false, lotarerrors.IO(fmt.Sprintf("write sprint file %d", n), err)
	}
	return warned, nil
}
