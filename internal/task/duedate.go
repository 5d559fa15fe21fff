package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// offsetPattern matches a relative offset: a signed count followed by a
// unit word or its single-letter abbreviation ("+2d", "+1 day", "+3weeks").
var offsetPattern = regexp.MustCompile(`(?i)^\+(\d+)\s*(d|day|days|w|week|weeks)$`)

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseDueDate normalizes a raw due-date expression — an ISO-8601 date or
// one of the relative forms ("today", "tomorrow", "next week", "next
// <weekday>", "+Nd"/"+N days", "+Nw"/"+N weeks") — into a stored ISO-8601
// date (YYYY-MM-DD). An empty string passes through unchanged.
func ParseDueDate(raw string) (string, error) {
	return parseDueDateAt(raw, time.Now().UTC())
}

func parseDueDateAt(raw string, now time.Time) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	lower := strings.ToLower(trimmed)

	switch lower {
	case "today":
		return formatDueDate(now), nil
	case "tomorrow":
		return formatDueDate(now.AddDate(0, 0, 1)), nil
	case "next week":
		return formatDueDate(now.AddDate(0, 0, 7)), nil
	}

	if rest, ok := strings.CutPrefix(lower, "next "); ok {
		wd, ok := weekdayByName[rest]
		if !ok {
			return "", fmt.Errorf("unrecognized weekday %q in due date %q", rest, raw)
		}
		return formatDueDate(nextWeekday(now, wd)), nil
	}

	if m := offsetPattern.FindStringSubmatch(trimmed); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", fmt.Errorf("invalid due date offset %q", raw)
		}
		days := n
		if strings.HasPrefix(strings.ToLower(m[2]), "w") {
			days *= 7
		}
		return formatDueDate(now.AddDate(0, 0, days)), nil
	}

	if d, err := time.Parse("2006-01-02", trimmed); err == nil {
		return formatDueDate(d), nil
	}

	return "", fmt.Errorf("unrecognized due date %q", raw)
}

// nextWeekday returns the nearest future date (at least one day ahead of
// from) that falls on wd.
func nextWeekday(from time.Time, wd time.Weekday) time.Time {
	delta := (int(wd) - int(from.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return from.AddDate(0, 0, delta)
}

func formatDueDate(t time.Time) string {
	return t.Format("2006-01-02")
}
