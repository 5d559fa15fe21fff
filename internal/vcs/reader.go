package vcs

import (
	"strings"
	"time"

	"github.com/lotar-dev/lotar/internal/git"
)

// logFormat injects a field separator (ASCII unit separator) unlikely to
// appear in a commit subject, and each log line is split on it.
const logFormat = "%H\x1f%an\x1f%aI\x1f%s"

// GitReader is the default History implementation, invoking the git
// binary as a subprocess through a git.CommandRunner.
type GitReader struct {
	Runner   git.CommandRunner
	RepoRoot string
}

// NewGitReader constructs a GitReader rooted at repoRoot.
func NewGitReader(runner git.CommandRunner, repoRoot string) *GitReader {
	return &GitReader{Runner: runner, RepoRoot: repoRoot}
}

// ListChanges returns every commit that touched path, most recent first.
// rev, when non-empty, is passed through to `git log` as a revision or
// revision range; empty means the full history of path.
func (r *GitReader) ListChanges(path, rev string) ([]Snapshot, error) {
	args := []string{"log", "--follow", "--format=" + logFormat}
	if rev != "" {
		args = append(args, rev)
	}
	args = append(args, "--", path)
	out, err := r.Runner.Run(r.RepoRoot, "git", args...)
	if err != nil {
		return nil, err
	}
	return parseLog(out), nil
}

func parseLog(out string) []Snapshot {
	if strings.TrimSpace(out) == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	snapshots := make([]Snapshot, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 4)
		if len(parts) != 4 {
			continue
		}
		date, _ := time.Parse(time.RFC3339, parts[2])
		snapshots = append(snapshots, Snapshot{
			Commit:  parts[0],
			Author:  parts[1],
			Date:    date,
			Summary: parts[3],
		})
	}
	return snapshots
}

// ReadAt returns path's content as of rev (a commit SHA, branch, tag, or
// "HEAD").
func (r *GitReader) ReadAt(path, rev string) ([]byte, error) {
	out, err := r.Runner.Run(r.RepoRoot, "git", "show", rev+":"+path)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// BlameLatest returns the author of the most recent commit to touch path.
func (r *GitReader) BlameLatest(path string) (string, error) {
	return r.Runner.Run(r.RepoRoot, "git", "log", "-1", "--format=%an", "--", path)
}
