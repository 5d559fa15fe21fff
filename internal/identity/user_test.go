package identity

import (
	"errors"
	"testing"
)

var errNotConfigured = errors.New("git config user.name: not configured")

type fakeRunner struct {
	out string
	err error
}

func (f fakeRunner) Run(dir, name string, args ...string) (string, error) {
	return f.out, f.err
}

func TestResolveUserExpandsMeAlias(t *testing.T) {
	runner := fakeRunner{out: "grace"}
	got := ResolveUser(MeAlias, runner, "/repo")
	if got != "grace" {
		t.Errorf("ResolveUser(@me) = %q, want grace", got)
	}
}

func TestResolveUserLeavesOtherValuesUntouched(t *testing.T) {
	runner := fakeRunner{out: "grace"}
	got := ResolveUser("bob", runner, "/repo")
	if got != "bob" {
		t.Errorf("ResolveUser(bob) = %q, want bob (unchanged)", got)
	}
}

func TestCurrentUserFallsBackWhenRunnerFails(t *testing.T) {
	runner := fakeRunner{out: "", err: errNotConfigured}
	t.Setenv("LOTAR_DEFAULT_REPORTER", "fallback-user")
	got := CurrentUser(runner, "/repo")
	if got != "fallback-user" {
		t.Errorf("CurrentUser fallback = %q, want fallback-user", got)
	}
}
