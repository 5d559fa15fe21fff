package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// idPattern matches a full task ID: <PREFIX>-<N> where PREFIX is 2-4
// uppercase alphanumerics and N is a decimal sequence.
var idPattern = regexp.MustCompile(`^([A-Z0-9]{2,4})-(\d+)$`)

// FormatID renders a project prefix and numeric stem as a full task ID.
func FormatID(prefix string, n int) string {
	return fmt.Sprintf("%s-%d", strings.ToUpper(prefix), n)
}

// ParseID splits a full task ID into its project prefix and numeric stem.
// ok is false if id does not match the <PREFIX>-<N> grammar.
func ParseID(id string) (prefix string, n int, ok bool) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return "", 0, false
	}
	num, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], num, true
}

// IsValidPrefix reports whether prefix is 1-4 uppercase alphanumerics.
// Task IDs themselves are held to the stricter 2-4 grammar of idPattern.
func IsValidPrefix(prefix string) bool {
	if len(prefix) < 1 || len(prefix) > 4 {
		return false
	}
	for _, r := range prefix {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
