// Package firebase implements the entry store against the Firebase
// Realtime Database REST surface. Records live under a single keyed
// collection path; writes use the append-with-generated-key POST form.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"watchdog/internal/core"
	"watchdog/internal/ledger"
)

const defaultCollectionPath = "ledger_entries"

type Client struct {
	httpClient *http.Client
	baseURL    string
	path       string
	authToken  string
	now        func() time.Time
}

// Ensure interface conformance
var _ ledger.Store = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAuthToken appends an auth token to every request. Public ledger
// reads work without one when the database rules allow it.
func WithAuthToken(token string) Option {
	return func(c *Client) { c.authToken = token }
}

// WithCollectionPath overrides the collection path under the database root.
func WithCollectionPath(path string) Option {
	return func(c *Client) { c.path = strings.Trim(path, "/") }
}

func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New builds a client for the database at baseURL, e.g.
// https://my-project.firebaseio.com.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       defaultCollectionPath,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// storedEntry is the exact record shape written to the database: an
// entry minus its id, with the date as an ISO-8601 date-time.
type storedEntry struct {
	Title       string         `json:"title"`
	SourceURL   string         `json:"sourceUrl"`
	Amount      int64          `json:"amount"`
	Date        string         `json:"date"`
	Giver       string         `json:"giver"`
	Recipients  string         `json:"recipients"`
	Location    storedLocation `json:"location"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
}

type storedLocation struct {
	County string `json:"county"`
	Town   string `json:"town"`
}

// FetchAll reads the entire collection, normalizes each record and
// returns the entries ordered by date descending. A transport or status
// failure maps to ErrStoreUnavailable.
func (c *Client) FetchAll(ctx context.Context) ([]core.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collectionURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ledger.ErrStoreUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ledger.ErrStoreUnavailable, err)
	}

	// An empty collection comes back as the JSON literal null.
	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return []core.Entry{}, nil
	}

	var records map[string]json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: decode collection: %v", ledger.ErrStoreUnavailable, err)
	}

	now := c.now()
	entries := make([]core.Entry, 0, len(records))
	for key, rawRecord := range records {
		var raw core.RawEntry
		if err := json.Unmarshal(rawRecord, &raw); err != nil {
			// A malformed record degrades to a fully defaulted entry
			// instead of failing the whole read.
			slog.WarnContext(ctx, "Skipping malformed fields in stored entry",
				"entry_id", key, "error", err)
			raw = core.RawEntry{}
		}
		entries = append(entries, core.Normalize(key, raw, now))
	}

	// Map iteration order is random, so same-date entries need the key
	// as a tie-break to keep listings deterministic across reads.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date.Time) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Date.After(entries[j].Date.Time)
	})
	return entries, nil
}

// Create validates the candidate, writes it with a store-generated key
// and returns that key. Permission and validation failures from the
// store map to ErrWriteRejected; connection problems to
// ErrStoreUnavailable.
func (c *Client) Create(ctx context.Context, ne core.NewEntry) (string, error) {
	if err := ne.Validate(); err != nil {
		return "", err
	}

	tags := ne.Tags
	if tags == nil {
		tags = []string{}
	}
	payload := storedEntry{
		Title:       ne.Title,
		SourceURL:   ne.SourceURL,
		Amount:      ne.Amount,
		Date:        ne.Date.UTC().Format(time.RFC3339),
		Giver:       ne.Giver,
		Recipients:  ne.Recipients,
		Location:    storedLocation{County: ne.Location.County, Town: ne.Location.Town},
		Description: ne.Description,
		Tags:        tags,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.collectionURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ledger.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode the generated key
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusBadRequest:
		return "", fmt.Errorf("%w: status %d", ledger.ErrWriteRejected, resp.StatusCode)
	default:
		return "", fmt.Errorf("%w: unexpected status %d", ledger.ErrStoreUnavailable, resp.StatusCode)
	}

	var result struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode key: %v", ledger.ErrStoreUnavailable, err)
	}
	if result.Name == "" {
		return "", fmt.Errorf("%w: store returned no key", ledger.ErrWriteRejected)
	}

	slog.InfoContext(ctx, "Entry saved to Realtime Database",
		"entry_id", result.Name,
		"giver", ne.Giver,
		"amount", ne.Amount,
		"county", ne.Location.County)
	return result.Name, nil
}

func (c *Client) collectionURL() string {
	u := c.baseURL + "/" + c.path + ".json"
	if c.authToken != "" {
		u += "?auth=" + c.authToken
	}
	return u
}
