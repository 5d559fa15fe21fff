package storage

import (
	"sort"

	"github.com/lotar-dev/lotar/internal/task"
	"gopkg.in/yaml.v3"
)

// IndexEntry is the condensed view of one task persisted in index.yml:
// id maps to prefix, numeric, status, priority, type, modified, tags.
type IndexEntry struct {
	Prefix   string   `yaml:"prefix,omitempty"`
	Numeric  int      `yaml:"numeric,omitempty"`
	Status   string   `yaml:"status,omitempty"`
	Priority string   `yaml:"priority,omitempty"`
	Type     string   `yaml:"type,omitempty"`
	Modified string   `yaml:"modified,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

// entryFromTask projects a task down to its index entry. id is the full
// task ID (e.g. "PROJ-12"); its prefix/numeric split is stored alongside
// the rest of the condensed fields so index.yml doesn't require re-parsing
// the key to recover them.
func entryFromTask(id string, t *task.Task) IndexEntry {
	prefix, numeric, _ := task.ParseID(id)
	e := IndexEntry{
		Prefix:   prefix,
		Numeric:  numeric,
		Status:   string(t.Status),
		Priority: string(t.Priority),
		Type:     string(t.Type),
		Tags:     t.Tags,
	}
	if t.HasModified() {
		e.Modified = t.Modified.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return e
}

// lessTaskID orders full task IDs by prefix lexicographically, then
// numeric stem ascending, matching the stable ordering required of
// search/list results and of index serialization.
func lessTaskID(a, b string) bool {
	pa, na, _ := task.ParseID(a)
	pb, nb, _ := task.ParseID(b)
	if pa != pb {
		return pa < pb
	}
	return na < nb
}

// marshalIndex renders entries in the stable (id-ascending) order required
// by the rebuild_index byte-equivalence invariant: two calls against the
// same underlying set of tasks, in any insertion order, produce identical
// bytes.
func marshalIndex(entries map[string]IndexEntry) ([]byte, error) {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return lessTaskID(ids[i], ids[j]) })

	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, id := range ids {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id}
		v := &yaml.Node{}
		if err := v.Encode(entries[id]); err != nil {
			return nil, err
		}
		doc.Content = append(doc.Content, k, v)
	}
	return yaml.Marshal(doc)
}

func unmarshalIndex(data []byte) (map[string]IndexEntry, error) {
	entries := make(map[string]IndexEntry)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
