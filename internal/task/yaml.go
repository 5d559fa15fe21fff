package task

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// canonicalTaskKeys is the fixed key order required for canonical YAML
// emission of a task file.
var canonicalTaskKeys = []string{
	"title", "status", "priority", "type", "assignee", "reporter",
	"created", "modified", "due_date", "effort", "tags", "description",
	"category", "acceptance_criteria", "relationships", "references",
	"sprints", "comments", "custom_fields", "history",
}

// MarshalCanonical renders a task as canonical YAML: the fixed key order
// above, with default/empty fields omitted.
func (t *Task) MarshalCanonical() ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	put := func(key string, value any) {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		v := &yaml.Node{}
		if err := v.Encode(value); err != nil {
			return
		}
		doc.Content = append(doc.Content, k, v)
	}

	put("title", t.Title)
	if t.Status != "" {
		put("status", string(t.Status))
	}
	if t.Priority != "" {
		put("priority", string(t.Priority))
	}
	if t.Type != "" {
		put("type", string(t.Type))
	}
	if t.Assignee != "" {
		put("assignee", t.Assignee)
	}
	if t.Reporter != "" {
		put("reporter", t.Reporter)
	}
	if !t.Created.IsZero() {
		put("created", t.Created.UTC().Format(time.RFC3339))
	}
	if t.HasModified() {
		put("modified", t.Modified.UTC().Format(time.RFC3339))
	}
	if t.DueDate != "" {
		put("due_date", t.DueDate)
	}
	if t.Effort != "" {
		put("effort", t.Effort)
	}
	if len(t.Tags) > 0 {
		put("tags", t.Tags)
	}
	if t.Description != "" {
		put("description", t.Description)
	}
	if t.Category != "" {
		put("category", t.Category)
	}
	if len(t.AcceptanceCriteria) > 0 {
		put("acceptance_criteria", t.AcceptanceCriteria)
	}
	if !t.Relationships.IsEmpty() {
		put("relationships", t.Relationships)
	}
	if len(t.References) > 0 {
		refs := make([]string, len(t.References))
		for i, r := range t.References {
			refs[i] = r.String()
		}
		put("references", refs)
	}
	if len(t.Sprints) > 0 {
		sorted := append([]int(nil), t.Sprints...)
		sort.Ints(sorted)
		put("sprints", sorted)
	}
	if len(t.Comments) > 0 {
		put("comments", t.Comments)
	}
	if len(t.CustomFields) > 0 {
		put("custom_fields", sortedFieldMap(t.CustomFields))
	}
	if len(t.History) > 0 {
		put("history", t.History)
	}

	return yaml.Marshal(doc)
}

// sortedFieldMap renders a map deterministically by wrapping it in an
// ordered yaml.Node, so repeated marshals of the same task are byte-equal.
func sortedFieldMap(m map[string]any) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		vn := &yaml.Node{}
		_ = vn.Encode(m[k])
		node.Content = append(node.Content, kn, vn)
	}
	return node
}

// rawTask is the untyped first pass of a tolerant YAML load: every field
// is decoded into a loosely-typed form so schema drift (case, synonyms)
// does not hard-fail the read. Keys not named here are dropped.
type rawTask struct {
	Title              string         `yaml:"title"`
	Status             string         `yaml:"status"`
	Priority           string         `yaml:"priority"`
	Type               string         `yaml:"type"`
	TaskType           string         `yaml:"task_type"` // legacy synonym for Type
	Assignee           string         `yaml:"assignee"`
	Reporter           string         `yaml:"reporter"`
	Created            string         `yaml:"created"`
	Modified           string         `yaml:"modified"`
	DueDate            string         `yaml:"due_date"`
	Effort             string         `yaml:"effort"`
	Tags               []string       `yaml:"tags"`
	Description        string         `yaml:"description"`
	Category           string         `yaml:"category"`
	AcceptanceCriteria []string       `yaml:"acceptance_criteria"`
	Relationships      Relationships  `yaml:"relationships"`
	References         []string       `yaml:"references"`
	Sprints            []int          `yaml:"sprints"`
	Comments           []Comment      `yaml:"comments"`
	CustomFields       map[string]any `yaml:"custom_fields"`
	History            []HistoryEntry `yaml:"history"`
}

// UnmarshalTask implements the two-pass tolerant load described in §4.2 and
// §9: parse into the untyped rawTask (unknown keys are simply absent from
// the struct and therefore preserved only insofar as the caller re-reads
// the source; known fields accept legacy synonyms and case-folded enum
// values), then project it onto a typed Task.
func UnmarshalTask(data []byte) (*Task, error) {
	var raw rawTask
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	t := &Task{
		Title:              raw.Title,
		Status:             Status(strings.TrimSpace(raw.Status)),
		Priority:           Priority(strings.TrimSpace(raw.Priority)),
		Assignee:           raw.Assignee,
		Reporter:           raw.Reporter,
		DueDate:            raw.DueDate,
		Effort:             raw.Effort,
		Tags:               raw.Tags,
		Description:        raw.Description,
		Category:           raw.Category,
		AcceptanceCriteria: raw.AcceptanceCriteria,
		Relationships:      raw.Relationships,
		Sprints:            raw.Sprints,
		Comments:           raw.Comments,
		CustomFields:       raw.CustomFields,
		History:            raw.History,
	}

	typ := raw.Type
	if typ == "" {
		typ = raw.TaskType // accept legacy task_type alias
	}
	t.Type = Type(strings.TrimSpace(typ))

	if raw.Created != "" {
		if ts, err := time.Parse(time.RFC3339, raw.Created); err == nil {
			t.Created = ts
		}
	}
	if raw.Modified != "" {
		if ts, err := time.Parse(time.RFC3339, raw.Modified); err == nil {
			t.Modified = ts
		}
	}
	// modified missing defaults to empty (zero value), per the tolerant
	// parse contract.

	for _, s := range raw.References {
		if ref, ok := parseReference(s); ok {
			t.References = append(t.References, ref)
		}
	}

	return t, nil
}

// ResolveEnumCase looks up raw (case-insensitively) in configured and
// returns the exact spelling configured uses, e.g. resolving a file's
// "inprogress" against a configured "InProgress" entry. Multi-word
// configured spellings (like "InProgress" itself) only round-trip
// correctly through this lookup, never through a generic title-case
// transform. Returns raw unchanged if no entry matches.
func ResolveEnumCase(configured []string, raw string) string {
	for _, c := range configured {
		if strings.EqualFold(c, raw) {
			return c
		}
	}
	return raw
}

// parseReference parses one on-disk reference string (e.g.
// "code:src/main.rs#12") into a typed Reference.
func parseReference(s string) (Reference, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return Reference{}, false
	}
	kind := ReferenceKind(parts[0])
	if !IsValidReferenceKind(kind) {
		return Reference{}, false
	}
	value := parts[1]
	if kind == ReferenceCode {
		if idx := strings.LastIndex(value, "#"); idx >= 0 {
			path := value[:idx]
			var line int
			fmt.Sscanf(value[idx+1:], "%d", &line)
			return Reference{Kind: kind, Path: path, Line: line}, true
		}
	}
	return Reference{Kind: kind, Path: value}, true
}
