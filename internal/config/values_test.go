package config

import (
	"reflect"
	"testing"
)

func TestGetSetValueRoundTrip(t *testing.T) {
	cfg := Default()
	if err := SetValue(cfg, "default.status", "Blocked"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	got, err := GetValue(cfg, "default.status")
	if err != nil {
		t.Fatalf("GetValue: %v", err)
	}
	if got != "Blocked" {
		t.Errorf("GetValue(default.status) = %v, want Blocked", got)
	}
}

func TestSetValueSliceSplitsOnComma(t *testing.T) {
	cfg := Default()
	if err := SetValue(cfg, "scan.signal_words", "TODO, FIXME"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	want := []string{"TODO", "FIXME"}
	if !reflect.DeepEqual(cfg.Scan.SignalWords, want) {
		t.Errorf("Scan.SignalWords = %v, want %v", cfg.Scan.SignalWords, want)
	}
}

func TestGetValueUnknownPath(t *testing.T) {
	cfg := Default()
	if _, err := GetValue(cfg, "default.nonexistent"); err == nil {
		t.Errorf("expected error for unknown config path")
	}
}

func TestNormalizeDottedKeyToNestedForm(t *testing.T) {
	raw := map[string]any{"default.project": "PRJ", "default.status": "Todo"}
	nested := Normalize(raw)
	section, ok := nested["default"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested default section, got %#v", nested)
	}
	if section["project"] != "PRJ" || section["status"] != "Todo" {
		t.Errorf("unexpected nested section: %#v", section)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := map[string]any{"default": map[string]any{"project": "PRJ"}}
	once := Normalize(raw)
	twice := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize not idempotent: %#v vs %#v", once, twice)
	}
}

func TestAllConfigPathsIncludesKnownFields(t *testing.T) {
	paths := AllConfigPaths()
	want := map[string]bool{
		"default.status":   true,
		"issue.statuses":   true,
		"scan.signal_words": true,
	}
	found := make(map[string]bool)
	for _, p := range paths {
		if want[p] {
			found[p] = true
		}
	}
	if len(found) != len(want) {
		t.Errorf("AllConfigPaths missing expected entries: got %v, want %v", found, want)
	}
}
