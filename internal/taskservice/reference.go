package taskservice

import (
	"path/filepath"
	"strings"

	lotarerrors "github.com/lotar-dev/lotar/internal/errors"
	"github.com/lotar-dev/lotar/internal/task"
)

// AddReference appends a reference to a task. file/code values are
// normalized to a repo-relative POSIX path before being stored; code
// references anchor at the given line. After adding a code reference,
// LatestCodeAnchorPerFile re-applies the latest-per-file rule so re-adding
// a reference to a file that moved keeps only the newest line.
func (s *Service) AddReference(id string, kind task.ReferenceKind, value string, line int) (*task.Task, error) {
	if !task.IsValidReferenceKind(kind) {
		return nil, lotarerrors.Validation("invalid reference kind", string(kind))
	}
	t, err := s.Backend.Get(id)
	if err != nil {
		return nil, err
	}

	path := value
	if kind == task.ReferenceFile || kind == task.ReferenceCode {
		path = s.repoRelativePOSIX(value)
	}
	t.AddReference(task.Reference{Kind: kind, Path: path, Line: line})
	if kind == task.ReferenceCode {
		t.LatestCodeAnchorPerFile()
	}
	t.Touch()
	if err := s.Backend.Edit(id, t); err != nil {
		return nil, err
	}
	s.Publisher.TaskUpdated(id, []string{"references"})
	return t, nil
}

// RemoveReference removes every reference matching kind+path.
func (s *Service) RemoveReference(id string, kind task.ReferenceKind, value string) (*task.Task, error) {
	t, err := s.Backend.Get(id)
	if err != nil {
		return nil, err
	}
	path := value
	if kind == task.ReferenceFile || kind == task.ReferenceCode {
		path = s.repoRelativePOSIX(value)
	}
	removed := t.RemoveReference(kind, path)
	if removed == 0 {
		return t, nil
	}
	t.Touch()
	if err := s.Backend.Edit(id, t); err != nil {
		return nil, err
	}
	s.Publisher.TaskUpdated(id, []string{"references"})
	return t, nil
}

// repoRelativePOSIX normalizes path to a forward-slash path relative to
// RepoRoot, leaving it unchanged if it can't be made relative (e.g. it's
// already relative, or RepoRoot is unset).
func (s *Service) repoRelativePOSIX(path string) string {
	if s.RepoRoot == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(s.RepoRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// AppendComment appends a comment to a task. An empty text is rejected: use
// ListComments to just list the existing comments instead of appending.
func (s *Service) AppendComment(id, author, text string) (*task.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, lotarerrors.Validation("empty comment text", "comment text must not be empty")
	}
	t, err := s.Backend.Get(id)
	if err != nil {
		return nil, err
	}
	author = s.resolveUser(author)
	t.AppendComment(author, text)
	t.Touch()
	if err := s.Backend.Edit(id, t); err != nil {
		return nil, err
	}
	s.Publisher.TaskUpdated(id, []string{"comments"})
	return t, nil
}

// ListComments returns a task's comments without modifying anything,
// matching the "empty-text invocation lists instead of appending"
// behavior at the call-site boundary (CLI layer decides to call this
// instead of AppendComment when no text is given).
func (s *Service) ListComments(id string) ([]task.Comment, error) {
	t, err := s.Backend.Get(id)
	if err != nil {
		return nil, err
	}
	return t.Comments, nil
}
