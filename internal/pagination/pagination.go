// Package pagination slices a result set by limit/offset, with the
// alias-tolerant flag names list-type commands accept.
package pagination

import "fmt"

// Page is a resolved, clamped limit/offset pair.
type Page struct {
	Limit  int
	Offset int
}

// Resolve validates a raw limit/offset pair against defaultLimit and
// maxLimit. A zero limit means "use defaultLimit"; the resolved limit is
// always clamped into [1, maxLimit]. A negative offset is rejected.
func Resolve(limit, offset, defaultLimit, maxLimit int) (Page, error) {
	if maxLimit <= 0 {
		return Page{}, fmt.Errorf("invalid max limit %d", maxLimit)
	}
	if offset < 0 {
		return Page{}, fmt.Errorf("invalid offset %d", offset)
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Page{Limit: limit, Offset: offset}, nil
}

// SliceBounds returns the [start, end) indices selecting page out of a
// total-length slice, clamped so they never run past total.
func SliceBounds(total, offset, limit int) (start, end int) {
	start = offset
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}
