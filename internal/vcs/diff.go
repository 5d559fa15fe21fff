package vcs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/lotar-dev/lotar/internal/task"
)

// Diff computes the change to the task file at path (repo-relative, as
// laid out by the storage layer: <PREFIX>/<N>.yml under the tasks root)
// between revisions from and to. to == "" compares against the current
// working tree — the "working-tree overlay" diff of spec §4.5. A side
// that cannot be read at all is treated as the file not existing at that
// point, producing a synthetic created/deleted change rather than an
// error.
func Diff(reader *GitReader, taskID, path, from, to string) (*TaskDiff, error) {
	oldData, oldErr := readSnapshot(reader, path, from)
	newData, newErr := readSnapshot(reader, path, to)

	result := &TaskDiff{TaskID: taskID, From: from, To: to, Mode: "committed"}
	if to == "" {
		result.Mode = "working"
	}

	switch {
	case oldErr != nil && newErr != nil:
		return nil, fmt.Errorf("vcs: %s unreadable at both %q and %q", path, from, to)
	case oldErr != nil:
		result.Changes = []FieldChange{{Field: "created", New: path}}
		return result, nil
	case newErr != nil:
		result.Changes = []FieldChange{{Field: "deleted", Old: path}}
		return result, nil
	}

	oldTask, oldParseErr := task.UnmarshalTask(oldData)
	newTask, newParseErr := task.UnmarshalTask(newData)
	if oldParseErr == nil && newParseErr == nil {
		result.Changes = diffTasks(oldTask, newTask)
		return result, nil
	}

	result.Textual = unifiedDiff(path, oldData, newData)
	return result, nil
}

// readSnapshot reads path at rev, or directly from the working tree when
// rev is empty.
func readSnapshot(reader *GitReader, path, rev string) ([]byte, error) {
	if rev == "" {
		return os.ReadFile(filepath.Join(reader.RepoRoot, path))
	}
	return reader.ReadAt(path, rev)
}

func unifiedDiff(path string, a, b []byte) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: path + " (old)",
		ToFile:   path + " (new)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}

// diffTasks compares two typed tasks by flattening each to a canonical
// dotted-field map (via the same MarshalCanonical a file write uses) and
// reporting every path whose rendered value differs: nested maps diff per
// dotted key, while list fields diff as a whole rather than
// element-by-element.
func diffTasks(oldTask, newTask *task.Task) []FieldChange {
	oldFields := fieldSnapshot(oldTask)
	newFields := fieldSnapshot(newTask)

	names := make(map[string]bool, len(oldFields)+len(newFields))
	for k := range oldFields {
		names[k] = true
	}
	for k := range newFields {
		names[k] = true
	}
	sorted := make([]string, 0, len(names))
	for k := range names {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var changes []FieldChange
	for _, name := range sorted {
		o, n := oldFields[name], newFields[name]
		if o != n {
			changes = append(changes, FieldChange{Field: name, Old: o, New: n})
		}
	}
	return changes
}

func fieldSnapshot(t *task.Task) map[string]string {
	data, err := t.MarshalCanonical()
	if err != nil {
		return nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}
	out := make(map[string]string)
	flattenValues(raw, "", out)
	return out
}

func flattenValues(m map[string]any, prefix string, out map[string]string) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenValues(nested, path, out)
			continue
		}
		out[path] = fmt.Sprintf("%v", v)
	}
}
