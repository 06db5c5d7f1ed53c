package trivia

import (
	"strconv"
	"strings"
)

// ParsePage reads a 1-based page number, falling back to 1 when raw is absent
// or not a positive integer.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Paginate returns the half-open slice [(page-1)*size, page*size) of items.
// Out-of-range pages yield an empty, non-nil slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return []T{}
	}
	// Compare page counts, not offsets, so huge pages cannot overflow.
	if page-1 >= (len(items)+size-1)/size {
		return []T{}
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
