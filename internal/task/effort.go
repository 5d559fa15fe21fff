package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timeTokenPattern matches a single time quantity: a number followed by
// one of d/h/m (days/hours/minutes).
var timeTokenPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)(d|h|m)$`)

// pointTokenPattern matches a story-point quantity: a number followed by pt.
var pointTokenPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)pt$`)

// unitHours converts a time-token unit to hours. A working day is 8 hours.
func unitHours(unit string) float64 {
	switch strings.ToLower(unit) {
	case "d":
		return 8
	case "h":
		return 1
	case "m":
		return 1.0 / 60
	default:
		return 0
	}
}

// ParseEffort normalizes a raw effort string into its canonical on-disk
// form: a pure time expression collapses to "<hours>.<hh>h"; a pure
// story-point expression is preserved as "<N>pt"; mixing the two forms is
// rejected.
func ParseEffort(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	fields := strings.Fields(raw)
	var totalHours float64
	var points float64
	haveTime, havePoints := false, false

	for _, f := range fields {
		if m := pointTokenPattern.FindStringSubmatch(f); m != nil {
			n, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return "", fmt.Errorf("invalid point value %q", f)
			}
			points += n
			havePoints = true
			continue
		}
		if m := timeTokenPattern.FindStringSubmatch(f); m != nil {
			n, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return "", fmt.Errorf("invalid time value %q", f)
			}
			totalHours += n * unitHours(m[2])
			haveTime = true
			continue
		}
		return "", fmt.Errorf("unrecognized effort token %q", f)
	}

	if haveTime && havePoints {
		return "", fmt.Errorf("effort cannot mix time and story-point tokens: %q", raw)
	}
	if havePoints {
		return formatPoints(points), nil
	}
	return fmt.Sprintf("%.2fh", totalHours), nil
}

func formatPoints(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%dpt", int64(n))
	}
	return fmt.Sprintf("%gpt", n)
}
