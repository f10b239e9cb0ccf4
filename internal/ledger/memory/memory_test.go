package memory

import (
	"context"
	"testing"

	"watchdog/internal/core"
)

func TestCreateAndFetchAll(t *testing.T) {
	s := New()
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
	id, err := s.Create(context.Background(), ne)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	ne.Date = core.NewDate(2024, 5, 1)
	id2, err := s.Create(context.Background(), ne)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id2 == id {
		t.Fatalf("ids must be unique")
	}

	entries, err := s.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != id2 {
		t.Fatalf("expected date-descending order, got %s first", entries[0].ID)
	}
	if entries[0].Tags == nil {
		t.Fatalf("tags must come back as an empty sequence, not nil")
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	s := New()
	if _, err := s.Create(context.Background(), core.NewEntry{}); err == nil {
		t.Fatalf("expected validation error")
	}
	entries, _ := s.FetchAll(context.Background())
	if len(entries) != 0 {
		t.Fatalf("rejected create must not store anything")
	}
}

func TestSeedNormalizes(t *testing.T) {
	s := New()
	s.Seed([]core.RawEntry{{Title: "Old record", Amount: -10}})
	entries, _ := s.FetchAll(context.Background())
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Amount != 0 {
		t.Fatalf("seeded record must be normalized, got amount %d", entries[0].Amount)
	}
	if entries[0].ID == "" {
		t.Fatalf("seeded record must get a key")
	}
}
