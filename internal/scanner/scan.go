package scanner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lotar-dev/lotar/internal/config"
)

// Finding is one parsed marker occurrence, located precisely enough for
// Apply to create or refresh a task.
type Finding struct {
	Path       string // repo-relative, forward-slash
	Line       int    // 1-based
	SignalWord string
	Key        string
	Title      string
	Effort     string
}

// Options configures one scan run.
type Options struct {
	Root           string
	SignalWords    []string
	TicketPatterns map[string]*regexp.Regexp
	IncludeExts    []string
	ExcludeExts    []string
	MaxFileBytes   int64
	Parallel       bool
}

const defaultMaxFileBytes = 1 << 20 // 1 MiB

var defaultSignalWords = []string{"TODO", "FIXME", "HACK", "BUG", "NOTE"}

// OptionsFromConfig builds scan Options from a resolved configuration,
// applying the scanner's own defaults where a field was left unset.
func OptionsFromConfig(root string, cfg *config.Config) Options {
	patterns := make(map[string]*regexp.Regexp, len(cfg.Issue.TicketPatterns))
	for name, raw := range cfg.Issue.TicketPatterns {
		re, err := regexp.Compile(raw)
		if err != nil {
			continue
		}
		patterns[name] = re
	}

	signalWords := cfg.Scan.SignalWords
	if len(signalWords) == 0 {
		signalWords = defaultSignalWords
	}
	maxBytes := cfg.Scan.MaxFileBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxFileBytes
	}

	return Options{
		Root:           root,
		SignalWords:    signalWords,
		TicketPatterns: patterns,
		IncludeExts:    cfg.Scan.IncludeExts,
		ExcludeExts:    cfg.Scan.ExcludeExts,
		MaxFileBytes:   maxBytes,
		Parallel:       cfg.Scan.Parallel,
	}
}

// Scan walks opts.Root breadth-first, honoring ignore files and
// extension filters, skipping oversized and binary files, and returns
// every marker found. Findings are always returned ordered by (path,
// line), even when opts.Parallel fans file parsing out across goroutines
// (spec §5 determinism requirement).
func Scan(opts Options) ([]Finding, []string, error) {
	files, err := listCandidateFiles(opts)
	if err != nil {
		return nil, nil, err
	}

	sigRe := CompileSignalWords(opts.SignalWords)

	var (
		findings []Finding
		warnings []string
	)

	if opts.Parallel {
		var mu sync.Mutex
		g := new(errgroup.Group)
		for _, f := range files {
			f := f
			g.Go(func() error {
				fs, warn := scanFile(f, opts, sigRe)
				mu.Lock()
				defer mu.Unlock()
				findings = append(findings, fs...)
				if warn != "" {
					warnings = append(warnings, warn)
				}
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, f := range files {
			fs, warn := scanFile(f, opts, sigRe)
			findings = append(findings, fs...)
			if warn != "" {
				warnings = append(warnings, warn)
			}
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		return findings[i].Line < findings[j].Line
	})
	sort.Strings(warnings)
	return findings, warnings, nil
}

// ListFiles returns every repo-relative path Scan would walk for opts,
// regardless of whether it carries a marker. Apply's reanchor pass needs
// this full list, not just the paths findings happen to name, to tell a
// file with no marker apart from a file it never walked at all.
func ListFiles(opts Options) ([]string, error) {
	files, err := listCandidateFiles(opts)
	if err != nil {
		return nil, err
	}
	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(opts.Root, f)
		if err != nil {
			continue
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel, nil
}

func listCandidateFiles(opts Options) ([]string, error) {
	cache := newIgnoreCache(opts.Root)
	var files []string
	dirs := []string{opts.Root}
	for len(dirs) > 0 {
		dir := dirs[0]
		dirs = dirs[1:]
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			rel, err := filepath.Rel(opts.Root, full)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if e.Name() == ".git" || strings.HasPrefix(e.Name(), "@") {
				continue
			}
			if cache.Ignored(opts.Root, rel) {
				continue
			}
			if e.IsDir() {
				dirs = append(dirs, full)
				continue
			}
			if !extensionAllowed(e.Name(), opts.IncludeExts, opts.ExcludeExts) {
				continue
			}
			files = append(files, full)
		}
	}
	sort.Strings(files)
	return files, nil
}

func scanFile(path string, opts Options, sigRe *regexp.Regexp) ([]Finding, string) {
	rel, err := filepath.Rel(opts.Root, path)
	if err != nil {
		return nil, ""
	}
	rel = filepath.ToSlash(rel)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Sprintf("%s: %v", rel, err)
	}
	if info.Size() > opts.MaxFileBytes {
		return nil, ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Sprintf("%s: %v", rel, err)
	}
	if isBinary(data) {
		return nil, ""
	}

	syntax, ok := SyntaxFor(filepath.Ext(path))
	if !ok {
		return nil, ""
	}

	var findings []Finding
	for _, c := range extractComments(string(data), syntax) {
		marker, found := ParseMarker(c.Text, sigRe, opts.TicketPatterns)
		if !found {
			continue
		}
		findings = append(findings, Finding{
			Path:       rel,
			Line:       c.Line,
			SignalWord: marker.SignalWord,
			Key:        marker.Key,
			Title:      marker.Title,
			Effort:     marker.Effort,
		})
	}
	return findings, ""
}

// isBinary sniffs the first 8 KB for a null byte.
func isBinary(data []byte) bool {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	return bytes.IndexByte(data[:n], 0) >= 0
}

type commentSpan struct {
	Line int
	Text string
}

// extractComments walks content line by line, yielding one span per
// physical line that falls inside a comment (line comment or block
// comment), so a marker buried mid-block is still located at its own
// line number rather than the block's opening line.
func extractComments(content string, syntax Syntax) []commentSpan {
	lines := strings.Split(content, "\n")
	var spans []commentSpan
	inBlock := false
	blockEnd := ""
	for i, line := range lines {
		lineNo := i + 1
		if inBlock {
			if idx := strings.Index(line, blockEnd); idx >= 0 {
				spans = append(spans, commentSpan{Line: lineNo, Text: line[:idx]})
				inBlock = false
			} else {
				spans = append(spans, commentSpan{Line: lineNo, Text: line})
			}
			continue
		}
		if text, ok := matchLinePrefix(line, syntax.LinePrefixes); ok {
			spans = append(spans, commentSpan{Line: lineNo, Text: text})
			continue
		}
		if end, rest, ok := matchBlockStart(line, syntax.BlockDelimiters); ok {
			if idx := strings.Index(rest, end); idx >= 0 {
				spans = append(spans, commentSpan{Line: lineNo, Text: rest[:idx]})
			} else {
				spans = append(spans, commentSpan{Line: lineNo, Text: rest})
				inBlock = true
				blockEnd = end
			}
		}
	}
	return spans
}

func matchLinePrefix(line string, prefixes []string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, p := range prefixes {
		if strings.HasPrefix(trimmed, p) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, p)), true
		}
	}
	return "", false
}

func matchBlockStart(line string, delimiters [][2]string) (end, rest string, ok bool) {
	for _, d := range delimiters {
		if idx := strings.Index(line, d[0]); idx >= 0 {
			return d[1], line[idx+len(d[0]):], true
		}
	}
	return "", "", false
}
