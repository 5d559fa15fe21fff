package scanner

import (
	"regexp"
	"strings"
)

// keyPattern matches a bare <PREFIX>-<N> task key wherever it appears in
// a marker's remaining text, once attribute forms have been stripped.
var keyPattern = regexp.MustCompile(`\b([A-Z][A-Z0-9]{1,3}-\d+)\b`)

// ticketAttrPattern matches the explicit [ticket=<KEY>] attribute form.
var ticketAttrPattern = regexp.MustCompile(`\[\s*ticket\s*=\s*([A-Za-z0-9_-]+)\s*\]`)

// effortAttrPattern matches the [effort=<value>] attribute form; the
// captured value is handed to task.ParseEffort by the caller.
var effortAttrPattern = regexp.MustCompile(`\[\s*effort\s*=\s*([^\]]+)\]`)

// Marker is one parsed signal-word occurrence within a comment.
type Marker struct {
	SignalWord string
	Key        string // "" if no key could be resolved
	Title      string
	Effort     string // "" if no [effort=...] attribute was present
}

// CompileSignalWords builds the case-sensitive, word-boundary regex used
// to find any of the configured signal words in a line of comment text.
func CompileSignalWords(words []string) *regexp.Regexp {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(` + strings.Join(escaped, "|") + `)\b`)
}

// ParseMarker inspects one line of comment text for a signal word and, if
// found, extracts an optional key and effort attribute per the four key
// forms spec §4.4 recognizes: a [ticket=KEY] attribute, a parenthesized
// (KEY), a bare KEY anywhere in the text after the signal word, or any
// configured ticket_pattern's first capture group.
func ParseMarker(text string, signalWords *regexp.Regexp, ticketPatterns map[string]*regexp.Regexp) (*Marker, bool) {
	loc := signalWords.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil, false
	}
	m := &Marker{SignalWord: text[loc[2]:loc[3]]}
	rest := text[loc[1]:]

	if effort := effortAttrPattern.FindStringSubmatch(rest); effort != nil {
		m.Effort = strings.TrimSpace(effort[1])
		rest = effortAttrPattern.ReplaceAllString(rest, "")
	}

	if key := ticketAttrPattern.FindStringSubmatch(rest); key != nil {
		m.Key = strings.ToUpper(key[1])
		rest = ticketAttrPattern.ReplaceAllString(rest, "")
	} else {
		for _, pattern := range ticketPatterns {
			if sub := pattern.FindStringSubmatch(rest); len(sub) > 1 {
				m.Key = strings.ToUpper(sub[1])
				break
			}
		}
	}
	if m.Key == "" {
		if key := keyPattern.FindStringSubmatch(rest); key != nil {
			m.Key = key[1]
		}
	}

	m.Title = cleanTitle(rest, m.Key)
	return m, true
}

// cleanTitle strips the resolved key's own spelling (bare or
// parenthesized) and leading punctuation left over from stripped
// attributes, so Title reads as a plain sentence.
func cleanTitle(text, key string) string {
	text = strings.TrimLeft(text, " \t:")
	if key != "" {
		text = strings.Replace(text, "("+key+")", "", 1)
		text = strings.Replace(text, key, "", 1)
	}
	text = strings.Trim(strings.TrimSpace(text), "()")
	return strings.TrimSpace(text)
}
