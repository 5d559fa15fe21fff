// Package codeowners resolves a file path to the owner(s) named for it in
// a repository's CODEOWNERS file, for auto-assigning tasks the scanner
// creates from source markers.
package codeowners

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// candidatePaths are tried, in order, relative to the repo root; the
// first one that exists wins.
var candidatePaths = []string{
	filepath.Join(".github", "CODEOWNERS"),
	"CODEOWNERS",
	filepath.Join("docs", "CODEOWNERS"),
	filepath.Join(".gitlab", "CODEOWNERS"),
}

// Rule is one non-comment CODEOWNERS line: a path pattern and the owners
// assigned to it. anchored patterns (leading "/") only match from the
// repo root; unanchored patterns match at any depth.
type Rule struct {
	Pattern  string
	Owners   []string
	Anchored bool
	re       *regexp.Regexp
}

// CodeOwners is a parsed CODEOWNERS file. Rules are kept in file order;
// OwnersForPath uses last-match-wins, matching how GitHub/GitLab apply
// CODEOWNERS.
type CodeOwners struct {
	Rules []Rule
}

// Load finds and parses the first CODEOWNERS file present under
// repoRoot, trying the same candidate locations GitHub/GitLab recognize.
// Returns nil, nil if none is present.
func Load(repoRoot string) (*CodeOwners, error) {
	for _, rel := range candidatePaths {
		path := filepath.Join(repoRoot, rel)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return Parse(string(data)), nil
	}
	return nil, nil
}

// Parse builds a CodeOwners from raw CODEOWNERS file content.
func Parse(content string) *CodeOwners {
	var rules []Rule
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pattern := fields[0]
		owners := append([]string(nil), fields[1:]...)
		anchored := strings.HasPrefix(pattern, "/")
		rules = append(rules, Rule{
			Pattern:  pattern,
			Owners:   owners,
			Anchored: anchored,
			re:       compilePattern(pattern, anchored),
		})
	}
	return &CodeOwners{Rules: rules}
}

// OwnersForPath returns the owners (leading "@" stripped) of the last
// rule whose pattern matches path, or nil if none match.
func (c *CodeOwners) OwnersForPath(path string) []string {
	if c == nil {
		return nil
	}
	var matched *Rule
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.re != nil && r.re.MatchString(path) {
			matched = r
		}
	}
	if matched == nil {
		return nil
	}
	owners := make([]string, len(matched.Owners))
	for i, o := range matched.Owners {
		owners[i] = strings.TrimPrefix(o, "@")
	}
	return owners
}

// DefaultOwner returns the repo-wide fallback owner: whoever owns "/"
// if named explicitly, else whoever a catch-all "*" pattern names.
func (c *CodeOwners) DefaultOwner() string {
	if c == nil {
		return ""
	}
	if owners := c.OwnersForPath("/"); len(owners) > 0 {
		return owners[0]
	}
	if owners := c.OwnersForPath("any/path.ext"); len(owners) > 0 {
		return owners[0]
	}
	return ""
}

// compilePattern translates a CODEOWNERS glob pattern ("*", "**", "?")
// into an anchored or path-suffix regular expression.
func compilePattern(pattern string, anchored bool) *regexp.Regexp {
	var b strings.Builder
	b.WriteByte('^')
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '.', '+', '(', ')', '|', '^', '$', '{', '}', '[', ']', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '/':
			b.WriteByte('/')
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		default:
			b.WriteByte(c)
		}
	}
	regexStr := b.String()
	if !anchored {
		regexStr = ".*" + strings.TrimPrefix(regexStr, "^")
	}
	regexStr += "$"
	re, err := regexp.Compile(regexStr)
	if err != nil {
		return nil
	}
	return re
}
