package storage

import "testing"

// NewTestBackend creates a single-root FSBackend rooted at a fresh temp
// directory (t.Cleanup-scoped, no explicit close needed since plain files
// require no connection teardown).
func NewTestBackend(t testing.TB) *FSBackend {
	t.Helper()
	root := t.TempDir()
	b, err := NewFSBackend(root, DiscoverySingle)
	if err != nil {
		t.Fatalf("NewFSBackend: %v", err)
	}
	return b
}
