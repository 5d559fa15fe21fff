// Package scanner walks a working tree harvesting task markers from
// source comments and correlating them with tasks (spec §4.4). Re-keys a
// dispatch-table idiom (per-language switch statements, as used for
// project/framework detection elsewhere) from project/framework detection
// to comment-syntax detection: a plain data table keyed by file extension
// plus a signal-word set, with no per-language inheritance (spec §9
// "Polymorphism over signal words and comment syntaxes").
package scanner

import "strings"

// Syntax describes how comments are written in one source language: the
// line-comment prefixes it recognizes and the block-comment delimiter
// pairs.
type Syntax struct {
	LinePrefixes    []string
	BlockDelimiters [][2]string
}

var (
	cStyle       = Syntax{LinePrefixes: []string{"//"}, BlockDelimiters: [][2]string{{"/*", "*/"}}}
	hashStyle    = Syntax{LinePrefixes: []string{"#"}}
	dashStyle    = Syntax{LinePrefixes: []string{"--"}}
	semiStyle    = Syntax{LinePrefixes: []string{";"}}
	pythonStyle  = Syntax{LinePrefixes: []string{"#"}, BlockDelimiters: [][2]string{{`"""`, `"""`}, {"'''", "'''"}}}
	phpStyle     = Syntax{LinePrefixes: []string{"//", "#"}, BlockDelimiters: [][2]string{{"/*", "*/"}}}
	htmlStyle    = Syntax{BlockDelimiters: [][2]string{{"<!--", "-->"}}}
)

// syntaxByExt is the table spec §9 asks for: {language-hint -> {line-
// prefixes, block-delimiters}}, with no inheritance hierarchy behind it.
var syntaxByExt = map[string]Syntax{
	".go":    cStyle,
	".rs":    cStyle,
	".c":     cStyle,
	".h":     cStyle,
	".cpp":   cStyle,
	".hpp":   cStyle,
	".cc":    cStyle,
	".java":  cStyle,
	".kt":    cStyle,
	".swift": cStyle,
	".cs":    cStyle,
	".js":    cStyle,
	".jsx":   cStyle,
	".ts":    cStyle,
	".tsx":   cStyle,
	".scala": cStyle,
	".php":   phpStyle,
	".py":    pythonStyle,
	".rb":    hashStyle,
	".sh":    hashStyle,
	".bash":  hashStyle,
	".yml":   hashStyle,
	".yaml":  hashStyle,
	".toml":  hashStyle,
	".r":     hashStyle,
	".sql":   dashStyle,
	".lua":   dashStyle,
	".el":    semiStyle,
	".lisp":  semiStyle,
	".clj":   semiStyle,
	".html":  htmlStyle,
	".htm":   htmlStyle,
	".vue":   htmlStyle,
}

// SyntaxFor returns the comment syntax registered for a file extension
// (case-insensitive, with or without the leading dot).
func SyntaxFor(ext string) (Syntax, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	s, ok := syntaxByExt[ext]
	return s, ok
}
