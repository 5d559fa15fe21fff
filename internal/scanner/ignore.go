package scanner

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

const (
	lotarIgnoreFile = ".lotarignore"
	gitIgnoreFile   = ".gitignore"
)

// ignoreCache compiles each directory's ignore file at most once per
// scan, since a breadth-first walk would otherwise recompile the same
// ancestor's .gitignore once per descendant directory (spec §4.4
// "per-directory ignore-file caching").
//
// A .lotarignore at the repo root fully replaces .gitignore semantics
// for the whole tree; otherwise every directory's own .gitignore (if
// any) is consulted the way git itself walks ignore files.
type ignoreCache struct {
	mu        sync.Mutex
	byDir     map[string]*gitignore.GitIgnore
	lotarRoot bool
}

func newIgnoreCache(repoRoot string) *ignoreCache {
	c := &ignoreCache{byDir: make(map[string]*gitignore.GitIgnore)}
	if gi, err := gitignore.CompileIgnoreFile(filepath.Join(repoRoot, lotarIgnoreFile)); err == nil {
		c.lotarRoot = true
		c.byDir[repoRoot] = gi
	}
	return c
}

func (c *ignoreCache) matcherFor(dir string) *gitignore.GitIgnore {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gi, ok := c.byDir[dir]; ok {
		return gi
	}
	gi, err := gitignore.CompileIgnoreFile(filepath.Join(dir, gitIgnoreFile))
	if err != nil {
		gi = nil
	}
	c.byDir[dir] = gi
	return gi
}

// Ignored reports whether a repo-root-relative, forward-slash path
// should be excluded from the scan.
func (c *ignoreCache) Ignored(repoRoot, relPath string) bool {
	if c.lotarRoot {
		gi := c.byDir[repoRoot]
		return gi != nil && gi.MatchesPath(relPath)
	}

	dir := repoRoot
	if gi := c.matcherFor(dir); gi != nil && gi.MatchesPath(relPath) {
		return true
	}
	parent := filepath.ToSlash(filepath.Dir(relPath))
	if parent == "." {
		return false
	}
	for _, seg := range strings.Split(parent, "/") {
		dir = filepath.Join(dir, seg)
		rel, err := filepath.Rel(dir, filepath.Join(repoRoot, relPath))
		if err != nil {
			continue
		}
		if gi := c.matcherFor(dir); gi != nil && gi.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// extensionAllowed applies the scan config's include/exclude extension
// filters on top of ignore-file matching. Each configured value may be a
// literal extension (".go") or a full doublestar glob ("*.min.js");
// literal extensions are treated as a basename suffix glob.
func extensionAllowed(name string, include, exclude []string) bool {
	for _, pattern := range exclude {
		if matchesExtPattern(pattern, name) {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, pattern := range include {
		if matchesExtPattern(pattern, name) {
			return true
		}
	}
	return false
}

func matchesExtPattern(pattern, name string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		pattern = "*" + pattern
	}
	ok, _ := doublestar.Match(pattern, name)
	return ok
}
