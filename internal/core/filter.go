package core

import (
	"sort"
	"strings"
)

// Filters is an in-memory query over a loaded entry collection. A zero
// value on any dimension means "no constraint"; dimensions combine with
// logical AND. Filters never mutate stored entries.
type Filters struct {
	Keyword  string // case-insensitive substring over title, description, giver, recipients
	Giver    string // exact match
	County   string // exact match on Location.County
	Category string // exact membership in Tags
	DateFrom Date   // inclusive lower bound; zero means unset
	DateTo   Date   // inclusive upper bound; zero means unset
}

// IsZero reports whether no dimension is set.
func (f Filters) IsZero() bool {
	return f.Keyword == "" && f.Giver == "" && f.County == "" &&
		f.Category == "" && f.DateFrom.IsZero() && f.DateTo.IsZero()
}

// Apply narrows entries to those matching every active dimension. The
// result is an order-preserving subsequence of the input; an empty result
// is valid. Unset dimensions are skipped entirely.
func (f Filters) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	keyword := strings.ToLower(f.Keyword)
	for _, e := range entries {
		if keyword != "" && !matchesKeyword(e, keyword) {
			continue
		}
		if f.Giver != "" && e.Giver != f.Giver {
			continue
		}
		if f.County != "" && e.Location.County != f.County {
			continue
		}
		if f.Category != "" && !containsTag(e.Tags, f.Category) {
			continue
		}
		if !f.DateFrom.IsZero() && e.Date.Before(f.DateFrom.Time) {
			continue
		}
		// DateTo is inclusive: an entry dated exactly DateTo stays in.
		if !f.DateTo.IsZero() && e.Date.After(f.DateTo.Time) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesKeyword(e Entry, keyword string) bool {
	return strings.Contains(strings.ToLower(e.Title), keyword) ||
		strings.Contains(strings.ToLower(e.Description), keyword) ||
		strings.Contains(strings.ToLower(e.Giver), keyword) ||
		strings.Contains(strings.ToLower(e.Recipients), keyword)
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// UniqueGivers returns the distinct giver names, sorted, for populating
// the filter dropdown.
func UniqueGivers(entries []Entry) []string {
	return distinct(entries, func(e Entry) []string { return []string{e.Giver} })
}

// UniqueTags returns the distinct tags across all entries, sorted.
func UniqueTags(entries []Entry) []string {
	return distinct(entries, func(e Entry) []string { return e.Tags })
}

func distinct(entries []Entry, pick func(Entry) []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		for _, v := range pick(e) {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
