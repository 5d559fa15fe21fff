package cli

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lotar-dev/lotar/internal/storage"
	"github.com/lotar-dev/lotar/internal/task"
)

// runGit runs a git subcommand in dir, failing the test on error. Uses a
// real repo via exec.Command rather than stubbing the CommandRunner, since
// bootstrap() always wires a real git.NewExecRunner with no injection seam.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
}

func TestChangelogCommandReportsWorkingTreeFieldChange(t *testing.T) {
	repoRoot := t.TempDir()
	runGit(t, repoRoot, "init")
	runGit(t, repoRoot, "config", "user.email", "test@example.com")
	runGit(t, repoRoot, "config", "user.name", "test")

	tasksRoot := filepath.Join(repoRoot, ".tasks")
	prev := tasksDirOpt
	tasksDirOpt = tasksRoot
	t.Cleanup(func() { tasksDirOpt = prev })

	backend, err := storage.NewFSBackend(tasksRoot, storage.DiscoverySingle)
	require.NoError(t, err)
	id, err := backend.Add(task.New("first draft"), "PROJ")
	require.NoError(t, err)

	runGit(t, repoRoot, "add", "-A")
	runGit(t, repoRoot, "commit", "-m", "add task")

	committed, err := backend.Get(id)
	require.NoError(t, err)
	committed.Title = "revised title"
	require.NoError(t, backend.Edit(id, committed))

	chdir(t, repoRoot)

	cmd := newChangelogCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), id)
	require.Contains(t, out.String(), "title")
}
