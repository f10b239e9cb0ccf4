package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"watchdog/internal/summarize"
)

// handleSummary renders the article-summary partial for one source URL.
// A failed summarization degrades to its message in place of the
// summary; the response is still 200 so the page keeps working.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	articleURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if s.summarizer == nil {
		_, _ = w.Write([]byte(`<div class="summary summary-error">Summaries are not available.</div>`))
		return
	}

	text, err := s.summarizer.Summarize(r.Context(), articleURL)
	if err != nil {
		if !errors.Is(err, summarize.ErrSummarizationFailed) {
			slog.ErrorContext(r.Context(), "Summary failed", "error", err, "url", articleURL)
		}
		// The failure reason stands in for the summary so the reader
		// sees what went wrong in place.
		_, _ = w.Write([]byte(`<div class="summary summary-error">` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	_, _ = w.Write([]byte(`<div class="summary">` + template.HTMLEscapeString(text) + `</div>`))
}
