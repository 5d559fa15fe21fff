package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lotar-dev/lotar/internal/task"
)

// GenerateProjectPrefix derives a project prefix from a project name: short
// names are uppercased as-is, hyphen/underscore-separated names take the
// first letter of each token (up to 4), otherwise the first four
// characters are uppercased. existing is consulted to append the smallest
// decimal suffix that makes the result unique within the root.
func GenerateProjectPrefix(name string, existing map[string]bool) string {
	base := basePrefix(name)
	if !existing[base] {
		return base
	}
	for n := 2; ; n++ {
		suffixed := suffixedPrefix(base, n)
		if !existing[suffixed] {
			return suffixed
		}
	}
}

func basePrefix(name string) string {
	upper := strings.ToUpper(name)
	if len(upper) <= 4 {
		return upper
	}
	if strings.ContainsAny(upper, "-_") {
		var letters []byte
		for _, tok := range splitTokens(upper) {
			if tok == "" {
				continue
			}
			letters = append(letters, tok[0])
			if len(letters) == 4 {
				break
			}
		}
		if len(letters) > 0 {
			return string(letters)
		}
	}
	return upper[:4]
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
}

// suffixedPrefix appends the decimal suffix n to base, trimming base so the
// combined prefix still fits within 4 characters where possible.
func suffixedPrefix(base string, n int) string {
	suffix := fmt.Sprintf("%d", n)
	limit := 4 - len(suffix)
	if limit < 1 {
		limit = 1
	}
	if len(base) > limit {
		base = base[:limit]
	}
	return base + suffix
}

// ValidationWarning is a non-fatal issue surfaced by Validate (an
// overlapping ticket_pattern).
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate runs the post-merge checks required by the data model:
// non-empty enum lists, default-in-list membership, ticket_pattern regex
// validity and overlap, prefix format, and reserved-name collisions.
// Fatal problems are returned as an error; ticket_pattern overlaps are
// returned as warnings alongside a nil error. Unknown keys are not
// reported.
func Validate(cfg *Config, prefix string, extraReservedNames []string) ([]ValidationWarning, error) {
	if len(cfg.Issue.Statuses) == 0 {
		return nil, fmt.Errorf("config: issue.statuses must not be empty")
	}
	if len(cfg.Issue.Priorities) == 0 {
		return nil, fmt.Errorf("config: issue.priorities must not be empty")
	}
	if len(cfg.Issue.Types) == 0 {
		return nil, fmt.Errorf("config: issue.types must not be empty")
	}

	if cfg.Default.Status != "" && !containsFold(cfg.Issue.Statuses, cfg.Default.Status) {
		return nil, fmt.Errorf("config: default.status %q is not in issue.statuses", cfg.Default.Status)
	}
	if cfg.Default.Priority != "" && !containsFold(cfg.Issue.Priorities, cfg.Default.Priority) {
		return nil, fmt.Errorf("config: default.priority %q is not in issue.priorities", cfg.Default.Priority)
	}
	if cfg.Default.Type != "" && !containsFold(cfg.Issue.Types, cfg.Default.Type) {
		return nil, fmt.Errorf("config: default.type %q is not in issue.types", cfg.Default.Type)
	}

	var warnings []ValidationWarning
	compiled := make(map[string]*regexp.Regexp, len(cfg.Issue.TicketPatterns))
	for name, pattern := range cfg.Issue.TicketPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("config: issue.ticket_patterns[%s] is not a valid regular expression: %w", name, err)
		}
		compiled[name] = re
	}
	warnings = append(warnings, overlapWarnings(compiled)...)

	if prefix != "" && !isValidPrefixFormat(prefix) {
		return nil, fmt.Errorf("config: project prefix %q must be 2-4 uppercase alphanumerics", prefix)
	}

	for _, name := range extraReservedNames {
		if task.IsReservedFieldName(name) {
			return nil, fmt.Errorf("config: custom field %q collides with a reserved built-in field", name)
		}
	}

	return warnings, nil
}

// overlapWarnings reports every pair of ticket_patterns whose compiled
// regexes have identical source text (as written) — a cheap proxy for
// "could match the same key" without attempting full regex-language
// intersection.
func overlapWarnings(patterns map[string]*regexp.Regexp) []ValidationWarning {
	var warnings []ValidationWarning
	seen := make(map[string]string)
	for name, re := range patterns {
		key := re.String()
		if other, ok := seen[key]; ok {
			warnings = append(warnings, ValidationWarning{
				Field:   "issue.ticket_patterns",
				Message: fmt.Sprintf("pattern %q overlaps with %q", name, other),
			})
			continue
		}
		seen[key] = name
	}
	return warnings
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// isValidPrefixFormat is the stricter 2-4 grammar of §3/§4.1(d), used when
// validating a config-selected or generated prefix (as distinct from
// task.IsValidPrefix's 1-4 grammar, used when validating the testable
// property of generate_project_prefix in isolation — see DESIGN.md).
func isValidPrefixFormat(prefix string) bool {
	if len(prefix) < 2 || len(prefix) > 4 {
		return false
	}
	for _, r := range prefix {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

