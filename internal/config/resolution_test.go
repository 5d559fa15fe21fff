package config

import (
	"path/filepath"
	"testing"
)

func TestGetResolutionChainMarksWinningTier(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yml"), "default:\n  status: InProgress\n")

	l := NewLoader(root, "", t.TempDir(), func(string) string { return "" })
	tc, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	chain, err := l.GetResolutionChain(tc, "default.status")
	if err != nil {
		t.Fatalf("GetResolutionChain: %v", err)
	}
	if chain.FinalValue != "InProgress" {
		t.Errorf("FinalValue = %v, want InProgress", chain.FinalValue)
	}
	if chain.WinningFrom != SourceGlobal {
		t.Errorf("WinningFrom = %s, want global", chain.WinningFrom)
	}

	var sawGlobalWinning, sawDefaultsSet bool
	for _, e := range chain.Entries {
		if e.Source == SourceGlobal && e.IsWinning {
			sawGlobalWinning = true
		}
		if e.Source == SourceDefaults && e.IsSet {
			sawDefaultsSet = true
		}
	}
	if !sawGlobalWinning {
		t.Errorf("expected global entry marked winning: %+v", chain.Entries)
	}
	if !sawDefaultsSet {
		t.Errorf("expected defaults entry always set: %+v", chain.Entries)
	}
}

func TestGetResolutionChainEnvEntry(t *testing.T) {
	l := NewLoader(t.TempDir(), "", t.TempDir(), func(k string) string {
		if k == "LOTAR_DEFAULT_REPORTER" {
			return "alice"
		}
		return ""
	})
	tc, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	chain, err := l.GetResolutionChain(tc, "default.reporter")
	if err != nil {
		t.Fatalf("GetResolutionChain: %v", err)
	}
	if chain.FinalValue != "alice" || chain.WinningFrom != SourceEnv {
		t.Errorf("expected env tier to win with value alice, got %v from %s", chain.FinalValue, chain.WinningFrom)
	}
}
