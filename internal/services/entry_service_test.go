package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"watchdog/internal/core"
	"watchdog/internal/storage"
)

type stubPublisher struct {
	ids []string
	err error
}

func (p *stubPublisher) PublishEntrySync(_ context.Context, id string) error {
	if p.err != nil {
		return p.err
	}
	p.ids = append(p.ids, id)
	return nil
}

func newTestService(t *testing.T, pub SyncPublisher) *EntryService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "watchdog.db"))
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	svc := NewEntryService(repo, pub)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func validEntry() core.NewEntry {
	return core.NewEntry{
		Title:       "Harambee donation at rally",
		SourceURL:   "https://news.example.com/story",
		Amount:      1000000,
		Date:        core.NewDate(2024, 1, 15),
		Giver:       "Politician X",
		Recipients:  "Local church",
		Location:    core.Location{County: "Nairobi"},
		Description: "Alleged irregular donation handed over in public.",
	}
}

func TestCreatePublishesSyncMessage(t *testing.T) {
	pub := &stubPublisher{}
	svc := newTestService(t, pub)

	id, err := svc.Create(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.ids) != 1 || pub.ids[0] != id {
		t.Fatalf("expected sync message for %s, got %v", id, pub.ids)
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	pub := &stubPublisher{err: errors.New("broker down")}
	svc := newTestService(t, pub)

	id, err := svc.Create(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("publish failure must not fail the create: %v", err)
	}

	entries, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != id {
		t.Fatalf("entry must still be saved locally, got %v", entries)
	}
}

func TestCreateWithoutPublisher(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Create(context.Background(), validEntry()); err != nil {
		t.Fatalf("create without publisher: %v", err)
	}
}
