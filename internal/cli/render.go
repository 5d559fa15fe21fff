package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lotar-dev/lotar/internal/task"
)

// renderTask prints one task either as JSON or a minimal text summary.
// Full text/json/markdown/table rendering is out of scope (spec §1); this
// exists only to drive the core end to end.
func renderTask(w io.Writer, id string, t *task.Task) error {
	if jsonOut {
		return renderJSON(w, struct {
			ID string `json:"id"`
			*task.Task
		}{ID: id, Task: t})
	}
	fmt.Fprintf(w, "%s  %-12s %-8s %-8s %s\n", styledID(id), t.Status, t.Priority, t.Type, t.Title)
	if t.Assignee != "" {
		fmt.Fprintf(w, "  assignee: %s\n", t.Assignee)
	}
	if len(t.Sprints) > 0 {
		fmt.Fprintf(w, "  sprints: %v\n", t.Sprints)
	}
	return nil
}

func renderTaskList(w io.Writer, records []taskRecord) error {
	if jsonOut {
		return renderJSON(w, records)
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s  %-12s %-8s %-8s %s\n", r.ID, r.Task.Status, r.Task.Priority, r.Task.Type, r.Task.Title)
	}
	return nil
}

// taskRecord is the JSON-friendly shape for a list result.
type taskRecord struct {
	ID   string     `json:"id"`
	Task *task.Task `json:"task"`
}

// styledID bolds a task ID when stdout is a real terminal, the default-
// output-mode signal go-isatty's detection drives.
func styledID(id string) string {
	if !colorEnabled() {
		return id
	}
	return "\033[1m" + id + "\033[0m"
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
