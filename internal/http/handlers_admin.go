package http

import (
	"errors"
	"log/slog"
	"net/http"

	"watchdog/internal/core"
	"watchdog/internal/ledger"
)

type adminData struct {
	SignedIn    bool
	DisplayName string
	Counties    []string

	Values  map[string]string
	Errors  map[string]string
	Banner  string
	Success string
}

// handleAdmin serves the entry submission dashboard. Validation runs
// before any store call; failures re-render the form with the offending
// fields annotated.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.currentSession(r)

	data := adminData{
		SignedIn:    true,
		DisplayName: displayNameOf(sess.User.DisplayName, sess.User.Email),
		Counties:    core.Counties,
		Values:      map[string]string{},
		Errors:      map[string]string{},
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, http.StatusOK, "admin.html", data)
	case http.MethodPost:
		s.handleCreateEntry(w, r, data)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request, data adminData) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "path", r.URL.Path)
		data.Banner = "The submitted form could not be read."
		s.render(w, r, http.StatusBadRequest, "admin.html", data)
		return
	}

	for _, field := range []string{"title", "sourceUrl", "amount", "date", "giver", "recipients", "county", "town", "description", "tags"} {
		data.Values[field] = sanitizeInput(r.Form.Get(field))
	}

	// Lenient parsing; every malformed value maps to a zero that the
	// field validation below reports with its fixed message.
	amount, _ := core.ParseAmount(data.Values["amount"])
	date, _ := parseDate(data.Values["date"])

	ne := core.NewEntry{
		Title:       data.Values["title"],
		SourceURL:   data.Values["sourceUrl"],
		Amount:      amount,
		Date:        date,
		Giver:       data.Values["giver"],
		Recipients:  data.Values["recipients"],
		Location:    core.Location{County: data.Values["county"], Town: data.Values["town"]},
		Description: data.Values["description"],
		Tags:        core.ParseTags(data.Values["tags"]),
	}

	if errs := ne.FieldErrors(); len(errs) > 0 {
		data.Errors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "admin.html", data)
		return
	}

	id, err := s.store.Create(r.Context(), ne)
	if err != nil {
		slog.ErrorContext(r.Context(), "Entry create failed", "error", err, "title", ne.Title)
		switch {
		case errors.Is(err, ledger.ErrWriteRejected):
			data.Banner = "The store rejected the entry. Check your permissions and try again."
			s.render(w, r, http.StatusBadGateway, "admin.html", data)
		case errors.Is(err, ledger.ErrStoreUnavailable):
			data.Banner = "The ledger store is unreachable. The entry was not saved."
			s.render(w, r, http.StatusBadGateway, "admin.html", data)
		default:
			data.Banner = "Saving the entry failed. Please try again."
			s.render(w, r, http.StatusInternalServerError, "admin.html", data)
		}
		return
	}

	slog.InfoContext(r.Context(), "Ledger entry created",
		"id", id, "title", ne.Title, "amount", ne.Amount, "county", ne.Location.County)

	data.Values = map[string]string{}
	data.Success = "Entry recorded."
	s.render(w, r, http.StatusOK, "admin.html", data)
}

func displayNameOf(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
