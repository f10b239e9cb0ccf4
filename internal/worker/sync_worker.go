// Package worker mirrors locally stored ledger entries to the export
// spreadsheet, driven by AMQP messages with a periodic catch-up pass.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"watchdog/internal/amqp"
	"watchdog/internal/core"
	"watchdog/internal/export"
	"watchdog/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	appender  export.RowAppender
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, appender export.RowAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single entry sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	entry, err := w.storage.GetEntry(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	if err := w.exportEntry(ctx, entry.ID, entry); err != nil {
		return fmt.Errorf("export entry: %w", err)
	}
	return nil
}

// ProcessPendingEntries exports any entries that have not been mirrored
// yet. This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.storage.ListUnsynced(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unsynced entries: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	for _, entry := range pending {
		if err := w.exportEntry(ctx, entry.ID, entry); err != nil {
			slog.ErrorContext(ctx, "Failed to export entry", "id", entry.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupSyncCheck drains the unsynced backlog at worker startup. Useful
// to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.ListUnsynced(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list unsynced entries for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, entry := range pending {
		if err := w.exportEntry(ctx, entry.ID, entry); err != nil {
			slog.ErrorContext(ctx, "Failed to export entry during startup",
				"id", entry.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)
	return nil
}

func (w *SyncWorker) exportEntry(ctx context.Context, id string, entry core.Entry) error {
	ref, err := w.appender.AppendEntry(ctx, entry)
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The row landed; a failed bookkeeping write means the entry may
		// be exported twice, which the sheet tolerates.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Exported ledger entry",
		"id", id,
		"sheet_ref", ref,
		"title", entry.Title,
		"amount", entry.Amount)
	return nil
}
