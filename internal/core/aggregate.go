package core

import (
	"sort"
	"time"
)

// NameAmount is one aggregated group for chart display.
type NameAmount struct {
	Name   string
	Amount int64
}

const (
	// topGroups caps the magnitude-ranked rollups for display legibility.
	topGroups = 10
	// recentMonths bounds the time rollup to recent history.
	recentMonths = 12
)

// Total sums all entry amounts. Feeds the running loss counter.
func Total(entries []Entry) int64 {
	var sum int64
	for _, e := range entries {
		sum += e.Amount
	}
	return sum
}

// ByGiver sums amounts per giver, descending, capped at the top 10.
// Ties keep first-encountered order.
func ByGiver(entries []Entry) []NameAmount {
	return topByAmount(entries, func(e Entry) []string { return []string{e.Giver} })
}

// ByCounty sums amounts per county, descending, capped at the top 10.
func ByCounty(entries []Entry) []NameAmount {
	return topByAmount(entries, func(e Entry) []string { return []string{e.Location.County} })
}

// ByCategory sums amounts per tag. An entry contributes its full amount
// to every tag it carries, so the groups are a fan-out, not a partition.
func ByCategory(entries []Entry) []NameAmount {
	return topByAmount(entries, func(e Entry) []string { return e.Tags })
}

func topByAmount(entries []Entry, keys func(Entry) []string) []NameAmount {
	sums := make(map[string]int64)
	var order []string
	for _, e := range entries {
		for _, k := range keys(e) {
			if _, ok := sums[k]; !ok {
				order = append(order, k)
			}
			sums[k] += e.Amount
		}
	}

	out := make([]NameAmount, 0, len(order))
	for _, k := range order {
		out = append(out, NameAmount{Name: k, Amount: sums[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	if len(out) > topGroups {
		out = out[:topGroups]
	}
	return out
}

// ByMonth sums amounts per calendar year+month, labelled "Jan 2006",
// sorted chronologically ascending and truncated to the most recent 12
// months present in the data. Unlike the other rollups this one ranks by
// recency, not magnitude: it answers "how has this evolved lately".
func ByMonth(entries []Entry) []NameAmount {
	type monthKey struct {
		year  int
		month time.Month
	}
	sums := make(map[monthKey]int64)
	for _, e := range entries {
		k := monthKey{year: e.Date.Year(), month: e.Date.Month()}
		sums[k] += e.Amount
	}

	keys := make([]monthKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	if len(keys) > recentMonths {
		keys = keys[len(keys)-recentMonths:]
	}

	out := make([]NameAmount, 0, len(keys))
	for _, k := range keys {
		label := time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
		out = append(out, NameAmount{Name: label, Amount: sums[k]})
	}
	return out
}
