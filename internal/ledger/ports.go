// Package ledger defines the ports and error kinds for the entry store.
// Implementations live in the firebase and memory subpackages and in
// internal/storage (sqlite).
package ledger

import (
	"context"
	"errors"

	"watchdog/internal/core"
)

var (
	// ErrStoreUnavailable marks a connection or configuration failure.
	// Fatal to the operation, never to the process.
	ErrStoreUnavailable = errors.New("entry store unavailable")

	// ErrWriteRejected marks a store-level validation or permission
	// failure on write.
	ErrWriteRejected = errors.New("entry store rejected the write")
)

type (
	// EntryLister reads the whole collection. Every call is a full
	// re-read; there is no caching layer. Entries come back normalized
	// and ordered by date descending.
	EntryLister interface {
		FetchAll(ctx context.Context) ([]core.Entry, error)
	}

	// EntryWriter appends one record. The store assigns the key, which
	// becomes the entry ID.
	EntryWriter interface {
		Create(ctx context.Context, ne core.NewEntry) (id string, err error)
	}

	// Store combines both ports. Entries are create-only; there is no
	// update or delete operation.
	Store interface {
		EntryLister
		EntryWriter
	}
)
