package scanner

import (
	"fmt"

	"github.com/lotar-dev/lotar/internal/codeowners"
	"github.com/lotar-dev/lotar/internal/storage"
	"github.com/lotar-dev/lotar/internal/task"
	"github.com/lotar-dev/lotar/internal/taskservice"
)

// Disposition classifies how one finding was applied.
type Disposition string

const (
	DispositionCreated    Disposition = "created"
	DispositionLinked     Disposition = "linked"
	DispositionUnresolved Disposition = "unresolved"
	DispositionReported   Disposition = "reported" // mentions disabled: found but not mutated
)

// AppliedFinding is one finding's outcome after Apply.
type AppliedFinding struct {
	Finding
	Disposition Disposition
	TaskID      string
	Warning     string
}

// Result is the outcome of applying a full scan's findings.
type Result struct {
	Applied  []AppliedFinding
	Warnings []string
}

// Apply carries out spec §4.4's per-marker disposition rules: a keyless
// marker creates a task and anchors a code: reference to it; a marker
// naming an existing key refreshes that task's anchor there (unless the
// project's Mentions toggle is off, in which case it is only reported);
// a marker naming an unresolvable key produces a warning and mutates
// nothing.
//
// scannedFiles is the full list of files this run walked (not just the
// ones carrying a marker); when reanchor is true, once every finding has
// been applied, any code: reference a touched task holds at a path this
// run actually scanned — but did not reconfirm a marker for — is pruned,
// so a marker that moved files or was deleted does not leave a stale
// anchor behind.
//
// When rewriteSource is true, every keyless marker that results in a
// newly created task also has its source line rewritten in place to
// inject "(PREFIX-N)" after the signal word, so a second scan resolves
// that marker as an existing-key reference instead of creating a
// duplicate task. root is the absolute directory findings' paths are
// relative to.
func Apply(svc *taskservice.Service, backend storage.Backend, findings []Finding, scannedFiles []string, mentionsEnabled, reanchor bool, owners *codeowners.CodeOwners, root string, rewriteSource bool) (*Result, error) {
	result := &Result{}
	confirmed := map[string]map[string]bool{}
	scannedPaths := make(map[string]bool, len(scannedFiles))
	for _, p := range scannedFiles {
		scannedPaths[p] = true
	}

	for _, f := range findings {
		applied, err := applyFinding(svc, backend, f, mentionsEnabled, owners, root, rewriteSource)
		if err != nil {
			return nil, err
		}
		result.Applied = append(result.Applied, *applied)
		if applied.Warning != "" {
			result.Warnings = append(result.Warnings, applied.Warning)
		}
		if applied.TaskID != "" && (applied.Disposition == DispositionCreated || applied.Disposition == DispositionLinked) {
			if confirmed[applied.TaskID] == nil {
				confirmed[applied.TaskID] = map[string]bool{}
			}
			confirmed[applied.TaskID][f.Path] = true
		}
	}

	if reanchor {
		if err := pruneStaleAnchors(backend, confirmed, scannedPaths); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func applyFinding(svc *taskservice.Service, backend storage.Backend, f Finding, mentionsEnabled bool, owners *codeowners.CodeOwners, root string, rewriteSource bool) (*AppliedFinding, error) {
	if f.Key == "" {
		assignee := ""
		if matched := owners.OwnersForPath(f.Path); len(matched) > 0 {
			assignee = matched[0]
		}
		result, err := svc.Create(taskservice.CreateInput{Title: f.Title, Effort: f.Effort, Assignee: assignee})
		if err != nil {
			return nil, err
		}
		if _, err := svc.AddReference(result.ID, task.ReferenceCode, f.Path, f.Line); err != nil {
			return nil, err
		}
		if rewriteSource && root != "" {
			if err := RewriteSourceLine(root, f.Path, f.Line, f.SignalWord, result.ID); err != nil {
				return nil, err
			}
		}
		return &AppliedFinding{Finding: f, Disposition: DispositionCreated, TaskID: result.ID}, nil
	}

	if _, err := backend.Get(f.Key); err != nil {
		return &AppliedFinding{
			Finding:     f,
			Disposition: DispositionUnresolved,
			Warning:     fmt.Sprintf("%s:%d: marker references unknown task %s", f.Path, f.Line, f.Key),
		}, nil
	}

	if !mentionsEnabled {
		return &AppliedFinding{Finding: f, Disposition: DispositionReported, TaskID: f.Key}, nil
	}

	if _, err := svc.AddReference(f.Key, task.ReferenceCode, f.Path, f.Line); err != nil {
		return nil, err
	}
	return &AppliedFinding{Finding: f, Disposition: DispositionLinked, TaskID: f.Key}, nil
}

// pruneStaleAnchors implements the reanchor guarantee: for every task
// touched this run, drop any code: reference sitting at a path this run
// walked but did not reconfirm a marker for.
func pruneStaleAnchors(backend storage.Backend, confirmed map[string]map[string]bool, scannedPaths map[string]bool) error {
	for taskID, paths := range confirmed {
		t, err := backend.Get(taskID)
		if err != nil {
			return err
		}
		var kept []task.Reference
		changed := false
		for _, ref := range t.References {
			if ref.Kind != task.ReferenceCode || !scannedPaths[ref.Path] || paths[ref.Path] {
				kept = append(kept, ref)
				continue
			}
			changed = true
		}
		if !changed {
			continue
		}
		t.References = kept
		t.Touch()
		if err := backend.Edit(taskID, t); err != nil {
			return err
		}
	}
	return nil
}
