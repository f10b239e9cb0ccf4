package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"watchdog/internal/core"
	"watchdog/internal/ledger"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestFetchAllNormalizesAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/ledger_entries.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"k1": {"title":"Older","amount":100,"date":"2024-01-10T08:00:00Z","giver":"X","recipients":"R","location":{"county":"Nyeri","town":""},"description":"d","tags":["a"]},
			"k2": {"title":"Newer","amount":200,"date":"2024-03-05T08:00:00Z","giver":"Y","recipients":"R","location":{"county":"Nairobi","town":""},"description":"d","tags":[]},
			"k3": {"title":"Bare","amount":50}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()), withClock(fixedNow))
	entries, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// k3 has no date, so it falls back to now and sorts first.
	if entries[0].ID != "k3" || entries[1].ID != "k2" || entries[2].ID != "k1" {
		t.Fatalf("expected date-descending order [k3 k2 k1], got [%s %s %s]",
			entries[0].ID, entries[1].ID, entries[2].ID)
	}
	if entries[0].Date.ISO() != "2025-06-01" {
		t.Fatalf("missing date must fall back to now, got %s", entries[0].Date.ISO())
	}
	if entries[0].Tags == nil {
		t.Fatalf("missing tags must normalize to empty sequence")
	}
	if entries[1].Date.ISO() != "2024-03-05" {
		t.Fatalf("time-of-day must be discarded, got %s", entries[1].Date.ISO())
	}
}

func TestFetchAllSameDateOrderIsDeterministic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"kc": {"title":"Third","amount":1,"date":"2024-02-01T00:00:00Z","giver":"X","recipients":"R","location":{"county":"Nyeri","town":""},"description":"d","tags":[]},
			"ka": {"title":"First","amount":1,"date":"2024-02-01T00:00:00Z","giver":"X","recipients":"R","location":{"county":"Nyeri","town":""},"description":"d","tags":[]},
			"kb": {"title":"Second","amount":1,"date":"2024-02-01T00:00:00Z","giver":"X","recipients":"R","location":{"county":"Nyeri","town":""},"description":"d","tags":[]}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()), withClock(fixedNow))

	// Entries arrive from random map iteration, so repeated reads only
	// agree if same-date ordering falls back to the key.
	var first []string
	for range 5 {
		entries, err := c.FetchAll(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := make([]string, len(entries))
		for i, e := range entries {
			got[i] = e.ID
		}
		if first == nil {
			first = got
			continue
		}
		for i := range got {
			if got[i] != first[i] {
				t.Fatalf("order changed between reads: %v vs %v", got, first)
			}
		}
	}
	if first[0] != "ka" || first[1] != "kb" || first[2] != "kc" {
		t.Fatalf("expected key-ascending tie-break [ka kb kc], got %v", first)
	}
}

func TestFetchAllEmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	entries, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", entries)
	}
}

func TestFetchAllStoreUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	if _, err := c.FetchAll(context.Background()); !errors.Is(err, ledger.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	// Connection refused maps the same way.
	srv.Close()
	if _, err := c.FetchAll(context.Background()); !errors.Is(err, ledger.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable on dead server, got %v", err)
	}
}

func TestCreateWritesAndReturnsKey(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"name":"-NxAbC123"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	ne := core.NewEntry{
		Title:       "Harambee donation at rally",
		SourceURL:   "https://news.example.com/story",
		Amount:      1000000,
		Date:        core.NewDate(2024, 1, 15),
		Giver:       "Politician X",
		Recipients:  "Local church",
		Location:    core.Location{County: "Nairobi"},
		Description: "Alleged irregular donation handed over in public.",
	}
	id, err := c.Create(context.Background(), ne)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "-NxAbC123" {
		t.Fatalf("expected generated key, got %q", id)
	}
	if got["title"] != "Harambee donation at rally" {
		t.Fatalf("unexpected stored title %v", got["title"])
	}
	if _, ok := got["id"]; ok {
		t.Fatalf("id must not be stored in the record body")
	}
	if got["date"] != "2024-01-15T00:00:00Z" {
		t.Fatalf("date must be stored as ISO date-time, got %v", got["date"])
	}
	if tags, ok := got["tags"].([]any); !ok || len(tags) != 0 {
		t.Fatalf("nil tags must serialize as empty array, got %v", got["tags"])
	}
}

func TestCreateErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ledger.ErrWriteRejected},
		{http.StatusForbidden, ledger.ErrWriteRejected},
		{http.StatusBadRequest, ledger.ErrWriteRejected},
		{http.StatusBadGateway, ledger.ErrStoreUnavailable},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := New(srv.URL, WithHTTPClient(srv.Client()))
		ne := core.NewEntry{
			Title: "Valid title here", SourceURL: "https://x.com/a", Amount: 1,
			Date: core.NewDate(2024, 1, 1), Giver: "XY", Recipients: "YZ",
			Location:    core.Location{County: "Nairobi"},
			Description: "A sufficiently long description.",
		}
		if _, err := c.Create(context.Background(), ne); !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		srv.Close()
	}
}

func TestCreateRejectsInvalidCandidateLocally(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(srv.URL, WithHTTPClient(srv.Client()))
	if _, err := c.Create(context.Background(), core.NewEntry{}); err == nil {
		t.Fatalf("expected validation error")
	}
	if called {
		t.Fatalf("invalid candidate must not reach the network")
	}
}
