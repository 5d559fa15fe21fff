package task

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	// A Wednesday.
	return time.Date(2026, time.July, 29, 12, 0, 0, 0, time.UTC)
}

func TestParseDueDateRelativeForms(t *testing.T) {
	now := fixedNow()
	cases := map[string]string{
		"":             "",
		"today":        "2026-07-29",
		"tomorrow":     "2026-07-30",
		"next week":    "2026-08-05",
		"+2d":          "2026-07-31",
		"+1 day":       "2026-07-30",
		"+2w":          "2026-08-12",
		"+3 weeks":     "2026-08-19",
		"2024-12-25":   "2024-12-25",
	}
	for in, want := range cases {
		got, err := parseDueDateAt(in, now)
		if err != nil {
			t.Fatalf("parseDueDateAt(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("parseDueDateAt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDueDateNextWeekdayIsCaseInsensitiveAndFuture(t *testing.T) {
	now := fixedNow() // Wednesday 2026-07-29
	got, err := parseDueDateAt("next monday", now)
	if err != nil {
		t.Fatalf("parseDueDateAt: %v", err)
	}
	if got != "2026-08-03" {
		t.Errorf("next monday = %q, want 2026-08-03", got)
	}

	got, err = parseDueDateAt("next Friday", now)
	if err != nil {
		t.Fatalf("parseDueDateAt: %v", err)
	}
	if got != "2026-07-31" {
		t.Errorf("next Friday = %q, want 2026-07-31", got)
	}
}

func TestParseDueDateRejectsAmbiguousFormats(t *testing.T) {
	now := fixedNow()
	for _, in := range []string{"invalid-date", "12/25/2024"} {
		if _, err := parseDueDateAt(in, now); err == nil {
			t.Errorf("parseDueDateAt(%q) expected error, got none", in)
		}
	}
}
