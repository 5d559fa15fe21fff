package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lotar-dev/lotar/internal/storage"
	"github.com/lotar-dev/lotar/internal/task"
)

func TestSprintCreateAndAssign(t *testing.T) {
	root := withTasksDir(t)
	id := seedTask(t, root, "ship the release notes")

	create := newSprintCreateCmd()
	var createOut bytes.Buffer
	create.SetOut(&createOut)
	create.SetArgs([]string{"--label", "Sprint 1"})
	require.NoError(t, create.Execute())
	require.Contains(t, createOut.String(), "created sprint 1")

	assign := newSprintAssignCmd()
	var assignOut bytes.Buffer
	assign.SetOut(&assignOut)
	assign.SetArgs([]string{id, "1"})
	require.NoError(t, assign.Execute())
	require.Contains(t, assignOut.String(), "added to sprint 1")

	backend, err := storage.NewFSBackend(root, storage.DiscoverySingle)
	require.NoError(t, err)
	updated, err := backend.Get(id)
	require.NoError(t, err)
	require.Equal(t, []int{1}, updated.Sprints)
}

func TestSprintCreateSurfacesLengthDemotionWarning(t *testing.T) {
	_ = withTasksDir(t)

	create := newSprintCreateCmd()
	var out bytes.Buffer
	create.SetOut(&out)
	create.SetArgs([]string{"--label", "Sprint 1", "--length", "14", "--ends-at", "2026-08-01"})
	require.NoError(t, create.Execute())
	require.Contains(t, out.String(), "length was dropped in favor of ends_at")
}

func TestSprintEditSurfacesLengthDemotionWarning(t *testing.T) {
	root := withTasksDir(t)

	create := newSprintCreateCmd()
	create.SetArgs([]string{"--label", "Sprint 1", "--length", "14"})
	require.NoError(t, create.Execute())

	edit := newSprintEditCmd()
	var out bytes.Buffer
	edit.SetOut(&out)
	edit.SetArgs([]string{"1", "--ends-at", "2026-08-01"})
	require.NoError(t, edit.Execute())
	require.Contains(t, out.String(), "length was dropped in favor of ends_at")

	backend, err := storage.NewFSBackend(root, storage.DiscoverySingle)
	require.NoError(t, err)
	s, err := backend.GetSprint(1)
	require.NoError(t, err)
	require.Equal(t, 0, s.Plan.Length)
	require.NotNil(t, s.Plan.EndsAt)
}

func TestSprintAssignForceReplaces(t *testing.T) {
	root := withTasksDir(t)
	id := seedTask(t, root, "ship the release notes")

	backend, err := storage.NewFSBackend(root, storage.DiscoverySingle)
	require.NoError(t, err)
	for _, label := range []string{"Sprint 1", "Sprint 2"} {
		s := &task.Sprint{Plan: task.SprintPlan{Label: label, Capacity: 10}}
		_, _, err := backend.AddSprint(s)
		require.NoError(t, err)
	}

	first := newSprintAssignCmd()
	first.SetArgs([]string{id, "1"})
	require.NoError(t, first.Execute())

	second := newSprintAssignCmd()
	var out bytes.Buffer
	second.SetOut(&out)
	second.SetArgs([]string{"--force", id, "2"})
	require.NoError(t, second.Execute())
	require.Contains(t, out.String(), "replaced")

	updated, err := backend.Get(id)
	require.NoError(t, err)
	require.Equal(t, []int{2}, updated.Sprints)
}

func TestSprintIntegrityDetectsAndCleansDanglingRef(t *testing.T) {
	root := withTasksDir(t)
	id := seedTask(t, root, "ship the release notes")

	backend, err := storage.NewFSBackend(root, storage.DiscoverySingle)
	require.NoError(t, err)
	tk, err := backend.Get(id)
	require.NoError(t, err)
	tk.Sprints = []int{42}
	require.NoError(t, backend.Edit(id, tk))

	detect := newSprintIntegrityCmd()
	var detectOut bytes.Buffer
	detect.SetOut(&detectOut)
	detect.SetArgs(nil)
	require.NoError(t, detect.Execute())
	require.Contains(t, detectOut.String(), "missing sprint 42")

	cleanup := newSprintIntegrityCmd()
	var cleanupOut bytes.Buffer
	cleanup.SetOut(&cleanupOut)
	cleanup.SetArgs([]string{"--cleanup"})
	require.NoError(t, cleanup.Execute())
	require.Contains(t, cleanupOut.String(), "cleaned 1")

	tk, err = backend.Get(id)
	require.NoError(t, err)
	require.Empty(t, tk.Sprints)
}
