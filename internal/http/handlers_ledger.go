package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"watchdog/internal/core"
)

// filterValues echoes the raw query values back into the form.
type filterValues struct {
	Keyword  string
	Giver    string
	County   string
	Category string
	From     string
	To       string
}

type nameAmountRow struct {
	Name   string
	Amount string
}

type monthRow struct {
	Label  string
	Amount string
}

type entryRow struct {
	Title       string
	SourceURL   string
	Amount      string
	Date        string
	Giver       string
	Recipients  string
	County      string
	Town        string
	Description string
	Tags        []string
}

type indexData struct {
	LoadFailed bool
	SignedIn   bool

	Entries       []entryRow
	TotalCount    int
	FilteredCount int
	Filtered      bool

	Filters  filterValues
	Givers   []string
	Tags     []string
	Counties []string

	TotalLoss     string
	TopGivers     []nameAmountRow
	TopCounties   []nameAmountRow
	TopCategories []nameAmountRow
	Months        []monthRow
}

// handleIndex renders the public ledger: the filterable entry list plus
// the rollups computed over the full, unfiltered set.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	filters := filtersFromQuery(r.URL.Query())
	_, signedIn := s.currentSession(r)

	data := indexData{
		SignedIn: signedIn,
		Filters:  filterValuesFrom(r.URL.Query()),
		Counties: core.Counties,
		Filtered: !filters.IsZero(),
	}

	entries, err := s.store.FetchAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Ledger fetch failed", "error", err)
		data.LoadFailed = true
		s.render(w, r, http.StatusOK, "index.html", data)
		return
	}

	visible := filters.Apply(entries)

	data.TotalCount = len(entries)
	data.FilteredCount = len(visible)
	data.Entries = entryRows(visible)
	data.Givers = core.UniqueGivers(entries)
	data.Tags = core.UniqueTags(entries)

	data.TotalLoss = core.FormatKES(core.Total(entries))
	data.TopGivers = nameAmountRows(core.ByGiver(entries))
	data.TopCounties = nameAmountRows(core.ByCounty(entries))
	data.TopCategories = nameAmountRows(core.ByCategory(entries))
	for _, m := range core.ByMonth(entries) {
		data.Months = append(data.Months, monthRow{Label: m.Name, Amount: core.FormatKES(m.Amount)})
	}

	s.render(w, r, http.StatusOK, "index.html", data)
}

// filtersFromQuery builds the filter set from query parameters. Invalid
// dates are treated as unset rather than rejected.
func filtersFromQuery(q url.Values) core.Filters {
	f := core.Filters{
		Keyword:  strings.TrimSpace(q.Get("q")),
		Giver:    strings.TrimSpace(q.Get("giver")),
		County:   strings.TrimSpace(q.Get("county")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	if d, err := parseDate(q.Get("from")); err == nil {
		f.DateFrom = d
	}
	if d, err := parseDate(q.Get("to")); err == nil {
		f.DateTo = d
	}
	return f
}

func filterValuesFrom(q url.Values) filterValues {
	return filterValues{
		Keyword:  strings.TrimSpace(q.Get("q")),
		Giver:    strings.TrimSpace(q.Get("giver")),
		County:   strings.TrimSpace(q.Get("county")),
		Category: strings.TrimSpace(q.Get("category")),
		From:     strings.TrimSpace(q.Get("from")),
		To:       strings.TrimSpace(q.Get("to")),
	}
}

func parseDate(raw string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}

func entryRows(entries []core.Entry) []entryRow {
	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryRow{
			Title:       e.Title,
			SourceURL:   e.SourceURL,
			Amount:      core.FormatKES(e.Amount),
			Date:        e.Date.Format("2 Jan 2006"),
			Giver:       e.Giver,
			Recipients:  e.Recipients,
			County:      e.Location.County,
			Town:        e.Location.Town,
			Description: e.Description,
			Tags:        e.Tags,
		})
	}
	return rows
}

func nameAmountRows(in []core.NameAmount) []nameAmountRow {
	rows := make([]nameAmountRow, 0, len(in))
	for _, na := range in {
		rows = append(rows, nameAmountRow{Name: na.Name, Amount: core.FormatKES(na.Amount)})
	}
	return rows
}
