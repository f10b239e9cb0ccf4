package storage

import (
	"context"
	"path/filepath"
	"testing"

	"watchdog/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "watchdog.db"))
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testEntry() core.NewEntry {
	return core.NewEntry{
		Title:       "Harambee donation at rally",
		SourceURL:   "https://news.example.com/story",
		Amount:      1000000,
		Date:        core.NewDate(2024, 1, 15),
		Giver:       "Politician X",
		Recipients:  "Local church",
		Location:    core.Location{County: "Nairobi", Town: "Westlands"},
		Description: "Alleged irregular donation handed over in public.",
		Tags:        []string{"harambee"},
	}
}

func TestCreateAndFetchAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testEntry())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second := testEntry()
	second.Date = core.NewDate(2024, 6, 1)
	id2, err := repo.Create(ctx, second)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	entries, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != id2 || entries[1].ID != id {
		t.Fatalf("expected date-descending order, got [%s %s]", entries[0].ID, entries[1].ID)
	}
	if entries[1].Date.ISO() != "2024-01-15" {
		t.Fatalf("unexpected date %s", entries[1].Date.ISO())
	}
	if len(entries[1].Tags) != 1 || entries[1].Tags[0] != "harambee" {
		t.Fatalf("tags did not round-trip: %v", entries[1].Tags)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.Create(context.Background(), core.NewEntry{}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSyncBookkeeping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testEntry())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	unsynced, err := repo.ListUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("list unsynced: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0].ID != id {
		t.Fatalf("expected the new entry to be unsynced, got %v", unsynced)
	}

	if err := repo.MarkSynced(ctx, id); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	unsynced, err = repo.ListUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("list unsynced: %v", err)
	}
	if len(unsynced) != 0 {
		t.Fatalf("expected none unsynced, got %v", unsynced)
	}

	if err := repo.MarkSynced(ctx, "missing-id"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestGetEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, testEntry())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	e, err := repo.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if e.Giver != "Politician X" || e.Location.County != "Nairobi" {
		t.Fatalf("unexpected entry %+v", e)
	}

	if _, err := repo.GetEntry(ctx, "nope"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}
