package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lotar-dev/lotar/internal/storage"
	"github.com/lotar-dev/lotar/internal/task"
)

func TestListCommandFiltersByFuzzyStatus(t *testing.T) {
	root := withTasksDir(t)
	backend, err := storage.NewFSBackend(root, storage.DiscoverySingle)
	require.NoError(t, err)
	inProgress := task.New("first")
	inProgress.Status = task.StatusInProgress
	_, err = backend.Add(inProgress, "PROJ")
	require.NoError(t, err)
	done := task.New("second")
	done.Status = task.StatusDone
	_, err = backend.Add(done, "PROJ")
	require.NoError(t, err)

	cmd := newListCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--status", "in-progress"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "first")
	require.NotContains(t, out.String(), "second")
}

func TestListCommandLimitBoundsResults(t *testing.T) {
	root := withTasksDir(t)
	seedTask(t, root, "alpha")
	seedTask(t, root, "bravo")
	seedTask(t, root, "charlie")

	cmd := newListCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--limit", "1"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "alpha")
	require.NotContains(t, out.String(), "bravo")
	require.NotContains(t, out.String(), "charlie")
}

func TestListCommandOffsetSkipsResults(t *testing.T) {
	root := withTasksDir(t)
	seedTask(t, root, "alpha")
	seedTask(t, root, "bravo")

	cmd := newListCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--offset", "1"})
	require.NoError(t, cmd.Execute())
	require.NotContains(t, out.String(), "alpha")
	require.Contains(t, out.String(), "bravo")
}
