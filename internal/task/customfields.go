package task

import (
	"fmt"
	"strings"
)

// reservedFieldNames lists every built-in Task attribute name. A custom
// field whose normalized name collides with one of these is rejected.
var reservedFieldNames = map[string]bool{
	"title": true, "status": true, "priority": true, "type": true,
	"tasktype": true, "assignee": true, "reporter": true,
	"created": true, "modified": true, "duedate": true, "effort": true,
	"tags": true, "description": true, "category": true,
	"acceptancecriteria": true, "relationships": true, "references": true,
	"sprints": true, "comments": true, "customfields": true, "history": true,
	"id": true,
}

// normalizeFieldName lowercases and strips `_`/`-` separators, matching
// the reserved-name collision rule of the custom-fields design note.
func normalizeFieldName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	return name
}

// IsReservedFieldName reports whether name collides with a built-in
// attribute under case- and separator-insensitive comparison.
func IsReservedFieldName(name string) bool {
	return reservedFieldNames[normalizeFieldName(name)]
}

// ValidateCustomFields rejects any key that collides with a reserved name.
func ValidateCustomFields(fields map[string]any) error {
	for key := range fields {
		if IsReservedFieldName(key) {
			return fmt.Errorf("custom field name %q collides with a reserved built-in field", key)
		}
	}
	return nil
}

// NormalizeTags trims, drops empties, and leaves duplicates and order
// intact per the data model's tag semantics. It is idempotent: running it
// twice produces the same result as running it once.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// ValidateTags rejects any tag that collides with a reserved field name,
// matching the "reserved names rejected" clause of the tags attribute.
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if IsReservedFieldName(tag) {
			return fmt.Errorf("tag %q collides with a reserved built-in field name", tag)
		}
	}
	return nil
}
