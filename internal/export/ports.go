// Package export defines the outbound port for mirroring ledger entries
// to an external spreadsheet.
package export

import (
	"context"

	"watchdog/internal/core"
)

// RowAppender appends a single ledger entry as a row to the export target.
type RowAppender interface {
	AppendEntry(ctx context.Context, e core.Entry) (rowRef string, err error)
}
