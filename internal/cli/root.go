// Package cli implements the lotar command-line interface: a thin cobra
// wrapper that drives the task service, scanner, VCS reader, and sprint
// packages. Persistent flags and command groups hang off a singleton
// rootCmd; each leaf command resolves its own appContext fresh per
// invocation rather than sharing process-lifetime state.
package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lotar-dev/lotar/internal/config"
	lotarerrors "github.com/lotar-dev/lotar/internal/errors"
	"github.com/lotar-dev/lotar/internal/events"
	"github.com/lotar-dev/lotar/internal/git"
	"github.com/lotar-dev/lotar/internal/identity"
	"github.com/lotar-dev/lotar/internal/storage"
	"github.com/lotar-dev/lotar/internal/taskservice"
)

// Command group IDs.
const (
	groupTasks  = "tasks"
	groupSprint = "sprint"
	groupVCS    = "vcs"
	groupConfig = "config"
)

var (
	jsonOut     bool
	tasksDirOpt string
)

var rootCmd = &cobra.Command{
	Use:           "lotar",
	Short:         "Local-first task tracking grounded in your working tree",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command, printing any returned error and
// translating it to the process exit code its errors.Kind specifies.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		printErr(err)
	}
	return exitCodeForError(err)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&tasksDirOpt, "tasks-dir", "", "override the discovered .tasks root")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupTasks, Title: "Task Commands:"},
		&cobra.Group{ID: groupSprint, Title: "Sprint Commands:"},
		&cobra.Group{ID: groupVCS, Title: "History Commands:"},
		&cobra.Group{ID: groupConfig, Title: "Configuration:"},
	)

	addCmd(newAddCmd(), groupTasks)
	addCmd(newListCmd(), groupTasks)
	addCmd(newGetCmd(), groupTasks)
	addCmd(newEditCmd(), groupTasks)
	addCmd(newDeleteCmd(), groupTasks)
	addCmd(newScanCmd(), groupTasks)
	addCmd(newCommentCmd(), groupTasks)
	addCmd(newReferenceCmd(), groupTasks)

	addCmd(newSprintCmd(), groupSprint)

	addCmd(newChangelogCmd(), groupVCS)

	addCmd(newConfigCmd(), groupConfig)
}

func addCmd(cmd *cobra.Command, groupID string) {
	cmd.GroupID = groupID
	rootCmd.AddCommand(cmd)
}

// appContext bundles the filesystem/identity/config state every command
// needs, resolved once per invocation from the process's environment and
// working directory.
type appContext struct {
	Service   *taskservice.Service
	Backend   *storage.FSBackend
	Config    *config.Config
	Tracked   *config.TrackedConfig
	Loader    *config.Loader
	TasksRoot string
	RepoRoot  string
	CWD       string
	Runner    git.CommandRunner
}

// bootstrap reads LOTAR_TASKS_DIR (via envOrFlagTasksDir) directly from
// the environment, ahead of constructing any config.Loader, since it has
// no Config path. LOTAR_LOG_LEVEL and LOTAR_TEST_SILENT are not read.
func bootstrap() (*appContext, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	repoRoot := identity.RepoRoot(cwd)
	tasksRoot, err := identity.DiscoverTasksRoot(cwd, envOrFlagTasksDir())
	if err != nil {
		return nil, err
	}

	loader := config.NewLoader(tasksRoot, "", homeDir(), os.Getenv)
	tracked, err := loader.Load()
	if err != nil {
		return nil, err
	}

	backend, err := storage.NewBackendFromConfig(tasksRoot, tracked.Config)
	if err != nil {
		return nil, err
	}

	runner := git.NewExecRunner()
	svc := taskservice.New(backend, tracked.Config, tasksRoot, repoRoot, cwd, identityRunner{runner}, events.NewPublishHelper(events.NewNopPublisher()))

	return &appContext{
		Service:   svc,
		Backend:   backend,
		Config:    tracked.Config,
		Tracked:   tracked,
		Loader:    loader,
		TasksRoot: tasksRoot,
		RepoRoot:  repoRoot,
		CWD:       cwd,
		Runner:    runner,
	}, nil
}

// identityRunner adapts git.CommandRunner to identity.CommandRunner: the
// two interfaces are structurally identical, but distinct types, since
// each package defines its own small capability interface rather than
// sharing one across module boundaries.
type identityRunner struct {
	runner git.CommandRunner
}

func (r identityRunner) Run(dir, name string, args ...string) (string, error) {
	return r.runner.Run(dir, name, args...)
}

func envOrFlagTasksDir() string {
	if tasksDirOpt != "" {
		return tasksDirOpt
	}
	return os.Getenv("LOTAR_TASKS_DIR")
}

func homeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return h
}

// colorEnabled reports whether stdout is an interactive terminal, the
// default-output-mode signal render.go's styledID uses when --json is
// not set.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func exitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	var lotarErr *lotarerrors.Error
	if lotarerrors.As(err, &lotarErr) {
		return lotarErr.Kind.ExitCode()
	}
	return 1
}

func printErr(err error) {
	fmt.Fprintln(os.Stderr, err)
}
