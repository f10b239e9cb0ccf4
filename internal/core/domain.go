package core

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

type (
	// Date carries only the calendar-date component; time-of-day is
	// discarded on read and never compared.
	Date struct {
		time.Time
	}

	Location struct {
		County string
		Town   string
	}

	// Entry is one recorded instance of an alleged irregular donation.
	// ID is assigned by the store on creation and immutable thereafter.
	Entry struct {
		ID          string
		Title       string
		SourceURL   string
		Amount      int64 // KES
		Date        Date
		Giver       string
		Recipients  string
		Location    Location
		Description string
		Tags        []string
	}

	// NewEntry is a candidate record before the store assigns an ID.
	NewEntry struct {
		Title       string
		SourceURL   string
		Amount      int64
		Date        Date
		Giver       string
		Recipients  string
		Location    Location
		Description string
		Tags        []string
	}
)

var (
	ErrInvalidTitle       = errors.New("title must be at least 5 characters long")
	ErrInvalidSourceURL   = errors.New("please enter a valid URL")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidDate        = errors.New("please select a valid date")
	ErrInvalidGiver       = errors.New("giver name must be at least 2 characters long")
	ErrInvalidRecipients  = errors.New("recipients must be at least 2 characters long")
	ErrInvalidCounty      = errors.New("county must be one of the 47 Kenyan counties")
	ErrInvalidDescription = errors.New("description must be between 10 and 1000 characters")
)

// NewDate creates a date-only value at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// ISO renders the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// FieldErrors validates every creation constraint and returns a map of
// field name to user-facing message. An empty map means the candidate is
// valid. Validation happens before any network call; failures block
// submission and annotate the specific field.
func (ne NewEntry) FieldErrors() map[string]string {
	errs := make(map[string]string)
	if len(strings.TrimSpace(ne.Title)) < 5 {
		errs["title"] = "Title must be at least 5 characters long."
	}
	if !isAbsoluteURL(ne.SourceURL) {
		errs["sourceUrl"] = "Please enter a valid URL."
	}
	if ne.Amount <= 0 {
		errs["amount"] = "Amount must be a positive number."
	}
	if ne.Date.IsZero() {
		errs["date"] = "Please select a date."
	}
	if len(strings.TrimSpace(ne.Giver)) < 2 {
		errs["giver"] = "Giver name must be at least 2 characters long."
	}
	if len(strings.TrimSpace(ne.Recipients)) < 2 {
		errs["recipients"] = "Recipients must be at least 2 characters long."
	}
	if !IsCounty(ne.Location.County) {
		errs["county"] = "Please select a county."
	}
	if n := len(strings.TrimSpace(ne.Description)); n < 10 || n > 1000 {
		errs["description"] = "Description must be between 10 and 1000 characters."
	}
	return errs
}

// Validate reports the first failing constraint as a sentinel error.
func (ne NewEntry) Validate() error {
	if len(strings.TrimSpace(ne.Title)) < 5 {
		return ErrInvalidTitle
	}
	if !isAbsoluteURL(ne.SourceURL) {
		return ErrInvalidSourceURL
	}
	if ne.Amount <= 0 {
		return ErrInvalidAmount
	}
	if ne.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(ne.Giver)) < 2 {
		return ErrInvalidGiver
	}
	if len(strings.TrimSpace(ne.Recipients)) < 2 {
		return ErrInvalidRecipients
	}
	if !IsCounty(ne.Location.County) {
		return ErrInvalidCounty
	}
	if n := len(strings.TrimSpace(ne.Description)); n < 10 || n > 1000 {
		return ErrInvalidDescription
	}
	return nil
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ParseTags splits a comma-separated tag string, trimming whitespace and
// dropping empty items. Order is preserved.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
