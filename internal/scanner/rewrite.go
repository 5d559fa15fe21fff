package scanner

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// keyTagPattern matches an already-injected " (PREFIX-N)" immediately
// following a signal word, so RewriteMarkerLine never double-inserts one
// on a second scan of the same line.
var keyTagPattern = regexp.MustCompile(`^\s*\([A-Z][A-Z0-9]{1,3}-\d+\)`)

// RewriteMarkerLine injects " (key)" right after signalWord's first
// occurrence in line, unless that spot already carries a parenthesized
// key (idempotent re-scan) or carries the same key already. Returns the
// possibly-unchanged line and whether a rewrite was made.
func RewriteMarkerLine(line, signalWord, key string) (string, bool) {
	idx := strings.Index(line, signalWord)
	if idx < 0 || key == "" {
		return line, false
	}
	after := idx + len(signalWord)
	rest := line[after:]
	if m := keyTagPattern.FindString(rest); m != "" {
		if strings.Contains(m, key) {
			return line, false
		}
		return line, false // a different key is already anchored here; don't clobber it
	}
	rewritten := line[:after] + " (" + key + ")" + rest
	return rewritten, true
}

// RewriteSourceLine reads the file at root/relPath, rewrites line number
// lineNum (1-based) in place to inject the newly assigned key after
// signalWord, and writes the file back only if the line actually
// changed.
func RewriteSourceLine(root, relPath string, lineNum int, signalWord, key string) error {
	path := filepath.Join(root, relPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	trailingNewline := strings.HasSuffix(string(data), "\n")
	lines := strings.Split(string(data), "\n")
	idx := lineNum - 1
	if idx < 0 || idx >= len(lines) {
		return nil
	}
	rewritten, changed := RewriteMarkerLine(lines[idx], signalWord, key)
	if !changed {
		return nil
	}
	lines[idx] = rewritten
	out := strings.Join(lines, "\n")
	if !trailingNewline {
		out = strings.TrimSuffix(out, "\n")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), info.Mode())
}
