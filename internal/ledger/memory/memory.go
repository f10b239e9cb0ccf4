// Package memory is an in-memory entry store for local development and
// tests. Keys are generated uuids; the data lives only for the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"watchdog/internal/core"
	"watchdog/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	entries []core.Entry
	now     func() time.Time
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{now: time.Now}
}

// Seed preloads entries, normalizing each one the way a real read would.
func (s *Store) Seed(raws []core.RawEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, raw := range raws {
		s.entries = append(s.entries, core.Normalize(uuid.NewString(), raw, now))
	}
}

// FetchAll returns a date-descending copy of the collection.
func (s *Store) FetchAll(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Entry, len(s.entries))
	copy(out, s.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

// Create validates and appends the entry under a fresh uuid key.
func (s *Store) Create(_ context.Context, ne core.NewEntry) (string, error) {
	if err := ne.Validate(); err != nil {
		return "", err
	}
	tags := append([]string{}, ne.Tags...)
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.entries = append(s.entries, core.Entry{
		ID:          id,
		Title:       ne.Title,
		SourceURL:   ne.SourceURL,
		Amount:      ne.Amount,
		Date:        ne.Date,
		Giver:       ne.Giver,
		Recipients:  ne.Recipients,
		Location:    ne.Location,
		Description: ne.Description,
		Tags:        tags,
	})
	return id, nil
}
