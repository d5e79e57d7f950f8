// Package managers implements CRUD over the document's collections.
// Each manager owns one collection: it writes through store.Mutate so
// changes are serialized with the autosave task, records activity and
// saves after every mutation. Input validation is the form layer's
// job; managers assume their inputs passed it.
package managers

import (
	"strings"
	"time"
)

// FilterAll is the filter value meaning "no filter on this field".
// An empty value means the same thing.
const FilterAll = "all"

func filterActive(value string) bool {
	return value != "" && value != FilterAll
}

// matchesSearch reports whether the lowercased search term occurs in
// any of the given fields. An empty term matches everything.
func matchesSearch(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// touch returns the current time, nudged forward if the clock has not
// advanced past prev, so UpdatedAt strictly increases on mutation.
func touch(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}
