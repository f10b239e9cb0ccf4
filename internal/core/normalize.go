package core

import (
	"strings"
	"time"
)

// RawEntry is the wire shape of a stored record, minus the ID (the store
// key). Every field may be missing or malformed in old records; Normalize
// gives each one a defined default.
type RawEntry struct {
	Title       string       `json:"title"`
	SourceURL   string       `json:"sourceUrl"`
	Amount      float64      `json:"amount"`
	Date        string       `json:"date"`
	Giver       string       `json:"giver"`
	Recipients  string       `json:"recipients"`
	Location    *RawLocation `json:"location"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
}

type RawLocation struct {
	County string `json:"county"`
	Town   string `json:"town"`
}

// Normalize converts a raw stored record into an Entry with total input
// coverage: missing strings become empty, a missing location becomes an
// empty county/town pair, missing tags become an empty sequence, a
// negative amount clamps to zero, and a missing or unparseable date falls
// back to the date of now rather than failing.
func Normalize(id string, raw RawEntry, now time.Time) Entry {
	e := Entry{
		ID:          id,
		Title:       raw.Title,
		SourceURL:   raw.SourceURL,
		Giver:       raw.Giver,
		Recipients:  raw.Recipients,
		Description: raw.Description,
		Date:        parseStoredDate(raw.Date, now),
		Tags:        raw.Tags,
	}
	if raw.Amount > 0 {
		e.Amount = int64(raw.Amount + 0.5)
	}
	if raw.Location != nil {
		e.Location = Location{County: raw.Location.County, Town: raw.Location.Town}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e
}

// parseStoredDate accepts the ISO date-time format entries are written
// with, plus a bare date for older records. Only the date component is
// kept. Anything unparseable degrades to the date of now.
func parseStoredDate(s string, now time.Time) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateOf(now)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t.UTC())
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return DateOf(t)
	}
	return DateOf(now)
}
