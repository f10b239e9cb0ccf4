package services

import (
	"context"
	"fmt"
	"log/slog"

	"watchdog/internal/core"
	"watchdog/internal/ledger"
	"watchdog/internal/storage"
)

// SyncPublisher emits entry sync messages for the export worker.
// *amqp.Client satisfies it; nil disables the export pipeline.
type SyncPublisher interface {
	PublishEntrySync(ctx context.Context, id string) error
}

// EntryService orchestrates entry creation across SQLite and AMQP: the
// write lands locally first, then a sync message is published so the
// worker can mirror the entry to the public sheets export. A publish
// failure never fails the request; the entry stays unsynced and the
// worker's catch-up pass picks it up.
type EntryService struct {
	storage   *storage.SQLiteRepository
	publisher SyncPublisher
}

var _ ledger.Store = (*EntryService)(nil)

func NewEntryService(storage *storage.SQLiteRepository, publisher SyncPublisher) *EntryService {
	return &EntryService{
		storage:   storage,
		publisher: publisher,
	}
}

// Create saves the entry locally and publishes a sync message.
func (s *EntryService) Create(ctx context.Context, ne core.NewEntry) (string, error) {
	id, err := s.storage.Create(ctx, ne)
	if err != nil {
		return "", fmt.Errorf("save entry: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishEntrySync(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message",
				"entry_id", id, "error", err)
			// Entry is saved locally; the export catches up later.
		}
	}

	return id, nil
}

// FetchAll reads straight through to the repository.
func (s *EntryService) FetchAll(ctx context.Context) ([]core.Entry, error) {
	return s.storage.FetchAll(ctx)
}

func (s *EntryService) Close() error {
	return s.storage.Close()
}
