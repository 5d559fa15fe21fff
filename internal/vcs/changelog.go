package vcs

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lotar-dev/lotar/internal/task"
)

// ChangelogRange enumerates every task file touched within rev (a
// revision range such as "base..head" or a single revision) under
// tasksRoot (repo-relative), and returns one TaskDiff per touched task.
// With rev "", it lists every task file in tasksRoot's whole history and
// diffs each one's HEAD content against the working tree, including
// files with no change (empty Changes); task files that were never
// committed are not listed. Per-file read/parse failures
// are skipped rather than aborting the whole range, matching the
// "scanner/changelog errors on individual files are warnings" recovery
// rule of spec §7.
func ChangelogRange(reader *GitReader, tasksRoot, rev string) ([]TaskDiff, error) {
	args := []string{"log", "--name-only", "--format=%H"}
	if rev != "" {
		args = append(args, rev)
	}
	args = append(args, "--", tasksRoot)
	out, err := reader.Runner.Run(reader.RepoRoot, "git", args...)
	if err != nil {
		return nil, err
	}

	touched := map[string]bool{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !isTaskFilePath(line) {
			continue
		}
		touched[line] = true
	}

	paths := make([]string, 0, len(touched))
	for p := range touched {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	from, to := splitRange(rev)

	var diffs []TaskDiff
	for _, p := range paths {
		id, ok := taskIDFromPath(tasksRoot, p)
		if !ok {
			continue
		}
		d, err := Diff(reader, id, p, from, to)
		if err != nil {
			continue
		}
		diffs = append(diffs, *d)
	}
	return diffs, nil
}

// isTaskFilePath reports whether a path reported by `git log --name-only`
// names a numeric task file rather than a project/global config.yml or the
// index.yml cache.
func isTaskFilePath(path string) bool {
	if path == "" || !strings.HasSuffix(path, ".yml") {
		return false
	}
	base := filepath.Base(path)
	if base == "config.yml" || base == "index.yml" {
		return false
	}
	stem := strings.TrimSuffix(base, ".yml")
	_, err := strconv.Atoi(stem)
	return err == nil
}

// taskIDFromPath derives a full task ID from a tasksRoot-relative path of
// the form "<PREFIX>/<N>.yml".
func taskIDFromPath(tasksRoot, path string) (string, bool) {
	rel, err := filepath.Rel(tasksRoot, path)
	if err != nil {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 || strings.HasPrefix(parts[0], "@") {
		return "", false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(parts[1], ".yml"))
	if err != nil {
		return "", false
	}
	return task.FormatID(parts[0], n), true
}

// splitRange interprets a `git log`-style revision expression into the
// (from, to) pair Diff expects. "" means "last commit vs. the working
// tree" (the overlay changelog scenario); "a..b" diffs a against b
// directly; a bare revision diffs its parent against itself.
func splitRange(rev string) (from, to string) {
	switch {
	case rev == "":
		return "HEAD", ""
	case strings.Contains(rev, ".."):
		parts := strings.SplitN(rev, "..", 2)
		return parts[0], parts[1]
	default:
		return rev + "^", rev
	}
}
