package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	lotarerrors "github.com/lotar-dev/lotar/internal/errors"
	"github.com/lotar-dev/lotar/internal/identity"
	"github.com/lotar-dev/lotar/internal/task"
	"github.com/lotar-dev/lotar/internal/util"
)

// FSBackend is the plain-file Backend implementation: one resolved root
// directory, with optional read-only fan-out across sibling `.tasks/`
// roots in discovery-wide mode.
type FSBackend struct {
	Root      string
	Discovery DiscoveryMode
}

// NewFSBackend prepares a backend rooted at root, migrating a legacy
// `sprints/` directory to `@sprints/` on first touch if present.
func NewFSBackend(root string, mode DiscoveryMode) (*FSBackend, error) {
	b := &FSBackend{Root: root, Discovery: mode}
	if err := b.migrateLegacySprintsDir(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *FSBackend) migrateLegacySprintsDir() error {
	legacy := filepath.Join(b.Root, "sprints")
	current := filepath.Join(b.Root, "@sprints")
	info, err := os.Stat(legacy)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return lotarerrors.IO("stat legacy sprints directory", err)
	}
	if !info.IsDir() {
		return nil
	}
	if _, err := os.Stat(current); err == nil {
		return nil // @sprints already exists, legacy dir is stale
	}
	if err := os.Rename(legacy, current); err != nil {
		return lotarerrors.IO("migrate legacy sprints directory", err)
	}
	return nil
}

func (b *FSBackend) projectDir(prefix string) string { return filepath.Join(b.Root, prefix) }
func (b *FSBackend) taskPath(prefix string, n int) string {
	return filepath.Join(b.projectDir(prefix), fmt.Sprintf("%d.yml", n))
}
func (b *FSBackend) sprintsDir() string { return filepath.Join(b.Root, "@sprints") }
func (b *FSBackend) sprintPath(n int) string {
	return filepath.Join(b.sprintsDir(), fmt.Sprintf("%d.yml", n))
}
func (b *FSBackend) indexPath() string { return filepath.Join(b.Root, "index.yml") }

// readRoots returns every root to consult for a read operation: just this
// backend's root in single-root mode, or this root plus every sibling
// `.tasks/` directory under its parent in discovery-wide mode.
func (b *FSBackend) readRoots() []string {
	if b.Discovery != DiscoveryWide {
		return []string{b.Root}
	}
	siblings, err := identity.SiblingTasksRoots(filepath.Dir(b.Root))
	if err != nil {
		return []string{b.Root}
	}
	roots := []string{b.Root}
	for _, s := range siblings {
		if s != b.Root {
			roots = append(roots, s)
		}
	}
	return roots
}

// Add assigns the next numeric ID for prefix (max existing + 1), writes
// the task file atomically, and persists the updated index.
func (b *FSBackend) Add(t *task.Task, prefix string) (string, error) {
	dir := b.projectDir(prefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", lotarerrors.IO(fmt.Sprintf("create project directory %s", dir), err)
	}
	n, err := b.nextNumericID(prefix)
	if err != nil {
		return "", err
	}
	id := task.FormatID(prefix, n)
	if err := b.writeTaskFile(prefix, n, t); err != nil {
		return "", err
	}
	if err := b.updateIndexEntry(id, t); err != nil {
		return "", err
	}
	return id, nil
}

func (b *FSBackend) nextNumericID(prefix string) (int, error) {
	dir := b.projectDir(prefix)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 1, nil
	}
	if err != nil {
		return 0, lotarerrors.IO(fmt.Sprintf("list project directory %s", dir), err)
	}
	max := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n, ok := stemToInt(e.Name())
		if ok && n > max {
			max = n
		}
	}
	return max + 1, nil
}

func stemToInt(name string) (int, bool) {
	if !strings.HasSuffix(name, ".yml") {
		return 0, false
	}
	stem := strings.TrimSuffix(name, ".yml")
	n, err := strconv.Atoi(stem)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (b *FSBackend) writeTaskFile(prefix string, n int, t *task.Task) error {
	data, err := t.MarshalCanonical()
	if err != nil {
		return lotarerrors.Serialization(b.taskPath(prefix, n), err)
	}
	if err := util.AtomicWriteFile(b.taskPath(prefix, n), data, 0o644); err != nil {
		return lotarerrors.IO(fmt.Sprintf("write task file for %s-%d", prefix, n), err)
	}
	return nil
}

// Get loads one task by full ID, tolerantly parsing its YAML.
func (b *FSBackend) Get(id string) (*task.Task, error) {
	prefix, n, ok := task.ParseID(id)
	if !ok {
		return nil, lotarerrors.InvalidIdentifier("task id", id)
	}
	for _, root := range b.readRoots() {
		path := filepath.Join(root, prefix, fmt.Sprintf("%d.yml", n))
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, lotarerrors.IO(fmt.Sprintf("read task %s", id), err)
		}
		t, err := task.UnmarshalTask(data)
		if err != nil {
			return nil, lotarerrors.Serialization(path, err)
		}
		return t, nil
	}
	return nil, lotarerrors.NotFound("task", id)
}

// Edit overwrites a task file only if it already exists.
func (b *FSBackend) Edit(id string, t *task.Task) error {
	prefix, n, ok := task.ParseID(id)
	if !ok {
		return lotarerrors.InvalidIdentifier("task id", id)
	}
	path := b.taskPath(prefix, n)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return lotarerrors.NotFound("task", id)
	}
	if err := b.writeTaskFile(prefix, n, t); err != nil {
		return err
	}
	return b.updateIndexEntry(id, t)
}

// Delete removes a task file and its index entry.
func (b *FSBackend) Delete(id string) (bool, error) {
	prefix, n, ok := task.ParseID(id)
	if !ok {
		return false, lotarerrors.InvalidIdentifier("task id", id)
	}
	path := b.taskPath(prefix, n)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, lotarerrors.IO(fmt.Sprintf("delete task %s", id), err)
	}
	if err := b.removeIndexEntry(id); err != nil {
		return true, err
	}
	return true, nil
}

// ListProjects enumerates project-prefix directories directly under root.
func (b *FSBackend) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(b.Root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, lotarerrors.IO(fmt.Sprintf("list tasks root %s", b.Root), err)
	}
	var projects []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), "@") {
			continue
		}
		projects = append(projects, e.Name())
	}
	sort.Strings(projects)
	return projects, nil
}

// ListByProject returns every task under prefix, ordered by numeric ID.
func (b *FSBackend) ListByProject(prefix string) ([]TaskRecord, error) {
	return b.Search(Filter{Prefix: prefix})
}

// Search loads and filters tasks, ANDing non-empty Filter fields and ORing
// within list-valued fields, returning results ordered by prefix then
// numeric ID ascending.
func (b *FSBackend) Search(filter Filter) ([]TaskRecord, error) {
	var records []TaskRecord
	for _, root := range b.readRoots() {
		prefixes, err := listProjectDirs(root)
		if err != nil {
			return nil, err
		}
		for _, prefix := range prefixes {
			if filter.Prefix != "" && prefix != filter.Prefix {
				continue
			}
			entries, err := os.ReadDir(filepath.Join(root, prefix))
			if err != nil {
				return nil, lotarerrors.IO(fmt.Sprintf("list project %s", prefix), err)
			}
			for _, e := range entries {
				n, ok := stemToInt(e.Name())
				if !ok {
					continue
				}
				path := filepath.Join(root, prefix, e.Name())
				data, err := os.ReadFile(path)
				if err != nil {
					return nil, lotarerrors.IO(fmt.Sprintf("read task file %s", path), err)
				}
				t, err := task.UnmarshalTask(data)
				if err != nil {
					return nil, lotarerrors.Serialization(path, err)
				}
				if !matchesFilter(t, filter) {
					continue
				}
				records = append(records, TaskRecord{ID: task.FormatID(prefix, n), Task: t})
			}
		}
	}
	sort.Slice(records, func(i, j int) bool { return lessTaskID(records[i].ID, records[j].ID) })
	return records, nil
}

func listProjectDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, lotarerrors.IO(fmt.Sprintf("list tasks root %s", root), err)
	}
	var prefixes []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), "@") {
			prefixes = append(prefixes, e.Name())
		}
	}
	return prefixes, nil
}

func matchesFilter(t *task.Task, f Filter) bool {
	if len(f.Statuses) > 0 && !task.FuzzySetMatch([]string{string(t.Status)}, f.Statuses) {
		return false
	}
	if len(f.Priorities) > 0 && !task.FuzzySetMatch([]string{string(t.Priority)}, f.Priorities) {
		return false
	}
	if len(f.Types) > 0 && !task.FuzzySetMatch([]string{string(t.Type)}, f.Types) {
		return false
	}
	if len(f.Tags) > 0 && !task.FuzzySetMatch(f.Tags, t.Tags) {
		return false
	}
	if len(f.Sprints) > 0 && !anyIntOverlap(f.Sprints, t.Sprints) {
		return false
	}
	if f.TextQuery != "" && !matchesTextQuery(t, f.TextQuery) {
		return false
	}
	for key, values := range f.CustomFields {
		v, ok := t.CustomFields[key]
		if !ok {
			return false
		}
		if !anyFold(values, fmt.Sprintf("%v", v)) {
			return false
		}
	}
	return true
}

func matchesTextQuery(t *task.Task, query string) bool {
	if task.FuzzyContains(t.Title, query) {
		return true
	}
	if task.FuzzyContains(t.Description, query) {
		return true
	}
	for _, tag := range t.Tags {
		if task.FuzzyContains(tag, query) {
			return true
		}
	}
	return false
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func anyFold(list []string, want string) bool { return containsFold(list, want) }

func anyIntOverlap(want, have []int) bool {
	set := make(map[int]bool, len(have))
	for _, h := range have {
		set[h] = true
	}
	for _, w := range want {
		if set[w] {
			return true
		}
	}
	return false
}

// FindByNumericID walks every project directory (across sibling roots in
// discovery-wide mode) looking for a task whose numeric stem equals n. Ties
// are resolved by prefix lexicographic order; every other match is
// reported as ambiguousWith.
func (b *FSBackend) FindByNumericID(n int) (string, *task.Task, []string, error) {
	type match struct {
		id string
		t  *task.Task
	}
	var matches []match
	for _, root := range b.readRoots() {
		prefixes, err := listProjectDirs(root)
		if err != nil {
			return "", nil, nil, err
		}
		for _, prefix := range prefixes {
			path := filepath.Join(root, prefix, fmt.Sprintf("%d.yml", n))
			data, err := os.ReadFile(path)
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				return "", nil, nil, lotarerrors.IO(fmt.Sprintf("read task file %s", path), err)
			}
			t, err := task.UnmarshalTask(data)
			if err != nil {
				return "", nil, nil, lotarerrors.Serialization(path, err)
			}
			matches = append(matches, match{id: task.FormatID(prefix, n), t: t})
		}
	}
	if len(matches) == 0 {
		return "", nil, nil, lotarerrors.NotFound("task", strconv.Itoa(n))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].id < matches[j].id })
	var ambiguous []string
	for _, m := range matches[1:] {
		ambiguous = append(ambiguous, m.id)
	}
	return matches[0].id, matches[0].t, ambiguous, nil
}

// RebuildIndex reconstructs index.yml from the filesystem. Given the same
// underlying set of tasks, the output is byte-identical to the live index
// regardless of the CRUD sequence that produced it.
func (b *FSBackend) RebuildIndex() error {
	records, err := b.Search(Filter{})
	if err != nil {
		return err
	}
	entries := make(map[string]IndexEntry, len(records))
	for _, r := range records {
		entries[r.ID] = entryFromTask(r.ID, r.Task)
	}
	data, err := marshalIndex(entries)
	if err != nil {
		return lotarerrors.Index("marshal index", err)
	}
	if err := util.AtomicWriteFile(b.indexPath(), data, 0o644); err != nil {
		return lotarerrors.Index("write index.yml", err)
	}
	return nil
}

func (b *FSBackend) loadIndex() (map[string]IndexEntry, error) {
	data, err := os.ReadFile(b.indexPath())
	if os.IsNotExist(err) {
		return make(map[string]IndexEntry), nil
	}
	if err != nil {
		return nil, lotarerrors.Index("read index.yml", err)
	}
	entries, err := unmarshalIndex(data)
	if err != nil {
		return nil, lotarerrors.Index("parse index.yml", err)
	}
	return entries, nil
}

func (b *FSBackend) updateIndexEntry(id string, t *task.Task) error {
	entries, err := b.loadIndex()
	if err != nil {
		return err
	}
	entries[id] = entryFromTask(id, t)
	data, err := marshalIndex(entries)
	if err != nil {
		return lotarerrors.Index("marshal index", err)
	}
	if err := util.AtomicWriteFile(b.indexPath(), data, 0o644); err != nil {
		return lotarerrors.Index("write index.yml", err)
	}
	return nil
}

func (b *FSBackend) removeIndexEntry(id string) error {
	entries, err := b.loadIndex()
	if err != nil {
		return err
	}
	delete(entries, id)
	data, err := marshalIndex(entries)
	if err != nil {
		return lotarerrors.Index("marshal index", err)
	}
	if err := util.AtomicWriteFile(b.indexPath(), data, 0o644); err != nil {
		return lotarerrors.Index("write index.yml", err)
	}
	return nil
}
