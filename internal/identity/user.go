package identity

import (
	"os"
	"os/exec"
	"strings"
)

const MeAlias = "@me"

// CommandRunner abstracts subprocess invocation so CurrentUser is testable
// without shelling out, mirroring the capability-interface style of
// internal/vcs's runner.
type CommandRunner interface {
	Run(dir, name string, args ...string) (string, error)
}

// ExecRunner invokes the real `git` binary.
type ExecRunner struct{}

func (ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

// ResolveUser resolves a stored assignee/reporter value, expanding the
// "@me" alias to the detected current identity and leaving any other
// value untouched.
func ResolveUser(value string, runner CommandRunner, repoDir string) string {
	if value != MeAlias {
		return value
	}
	return CurrentUser(runner, repoDir)
}

// CurrentUser detects the acting identity: git user.name (repo-scoped),
// then the LOTAR_DEFAULT_REPORTER / USER environment variables, in that
// order.
func CurrentUser(runner CommandRunner, repoDir string) string {
	if runner != nil {
		if name, err := runner.Run(repoDir, "git", "config", "user.name"); err == nil && name != "" {
			return name
		}
	}
	if v := os.Getenv("LOTAR_DEFAULT_REPORTER"); v != "" {
		return v
	}
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return ""
}
