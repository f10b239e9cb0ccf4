// Package storage implements the entry store on SQLite. It doubles as
// the source of record for the sheets-export pipeline: rows remember
// whether they have been mirrored yet.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"watchdog/internal/core"
	"watchdog/internal/ledger"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Create implements ledger.EntryWriter. The key is a fresh uuid.
func (r *SQLiteRepository) Create(ctx context.Context, ne core.NewEntry) (string, error) {
	if err := ne.Validate(); err != nil {
		return "", err
	}

	tags := ne.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ledger_entries
			(id, title, source_url, amount, entry_date, giver, recipients, county, town, description, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ne.Title, ne.SourceURL, ne.Amount, ne.Date.ISO(),
		ne.Giver, ne.Recipients, ne.Location.County, ne.Location.Town,
		ne.Description, string(tagsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("%w: insert entry: %v", ledger.ErrStoreUnavailable, err)
	}

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"entry_id", id,
		"giver", ne.Giver,
		"amount", ne.Amount,
		"county", ne.Location.County)
	return id, nil
}

// FetchAll implements ledger.EntryLister: the full collection, newest first.
func (r *SQLiteRepository) FetchAll(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, source_url, amount, entry_date, giver, recipients, county, town, description, tags
		FROM ledger_entries
		ORDER BY entry_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query entries: %v", ledger.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	now := time.Now()
	entries := make([]core.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows, now)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entries: %v", ledger.ErrStoreUnavailable, err)
	}
	return entries, nil
}

// GetEntry loads a single entry by its key; used by the export worker.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, source_url, amount, entry_date, giver, recipients, county, town, description, tags
		FROM ledger_entries
		WHERE id = ?`, id)
	e, err := scanEntry(row, time.Now())
	if err == sql.ErrNoRows {
		return core.Entry{}, fmt.Errorf("entry %s not found", id)
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

// ListUnsynced returns up to limit entries not yet mirrored to the
// sheets export, oldest first.
func (r *SQLiteRepository) ListUnsynced(ctx context.Context, limit int) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, source_url, amount, entry_date, giver, recipients, county, town, description, tags
		FROM ledger_entries
		WHERE synced_at IS NULL
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unsynced entries: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows, now)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkSynced records that the entry has been mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ledger_entries SET synced_at = datetime('now') WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark synced %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner, now time.Time) (core.Entry, error) {
	var (
		e        core.Entry
		dateStr  string
		tagsJSON string
	)
	err := row.Scan(&e.ID, &e.Title, &e.SourceURL, &e.Amount, &dateStr,
		&e.Giver, &e.Recipients, &e.Location.County, &e.Location.Town,
		&e.Description, &tagsJSON)
	if err != nil {
		return core.Entry{}, err
	}

	// Rows go through the same degrade-gracefully policy as remote reads.
	if t, perr := time.Parse("2006-01-02", dateStr); perr == nil {
		e.Date = core.DateOf(t)
	} else {
		e.Date = core.DateOf(now)
	}
	if jerr := json.Unmarshal([]byte(tagsJSON), &e.Tags); jerr != nil || e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}
