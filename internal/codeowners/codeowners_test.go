package codeowners

import "testing"

const sample = `
# Comments ignored
*       @team/default
/src/** @alice @bob
docs/**  @docs
`

func TestParseAndMatchSimple(t *testing.T) {
	c := Parse(sample)

	if got := c.OwnersForPath("/src/lib.rs"); len(got) == 0 || got[0] != "alice" {
		t.Errorf("OwnersForPath(/src/lib.rs) = %v, want [alice bob]", got)
	}
	if got := c.OwnersForPath("/README.md"); len(got) == 0 || got[0] != "team/default" {
		t.Errorf("OwnersForPath(/README.md) = %v, want [team/default]", got)
	}
	if got := c.OwnersForPath("docs/guide.md"); len(got) == 0 || got[0] != "docs" {
		t.Errorf("OwnersForPath(docs/guide.md) = %v, want [docs]", got)
	}
	if got := c.DefaultOwner(); got != "team/default" {
		t.Errorf("DefaultOwner() = %q, want %q", got, "team/default")
	}
}

func TestOwnersForPathLastMatchWins(t *testing.T) {
	c := Parse("*.go @generic\ninternal/scanner/*.go @scanner-team\n")
	got := c.OwnersForPath("internal/scanner/apply.go")
	if len(got) == 0 || got[0] != "scanner-team" {
		t.Errorf("expected more specific later rule to win, got %v", got)
	}
}

func TestLoadReturnsNilWhenNoFilePresent(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil CodeOwners when no CODEOWNERS file is present")
	}
}
