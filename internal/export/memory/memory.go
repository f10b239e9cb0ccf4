// Package memory provides an in-memory export target used by tests and
// local development runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"watchdog/internal/core"
	"watchdog/internal/export"
)

type Appender struct {
	mu   sync.Mutex
	rows []core.Entry

	// FailWith, when set, is returned by AppendEntry instead of recording.
	FailWith error
}

var _ export.RowAppender = (*Appender)(nil)

func New() *Appender {
	return &Appender{}
}

func (a *Appender) AppendEntry(_ context.Context, e core.Entry) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailWith != nil {
		return "", a.FailWith
	}
	a.rows = append(a.rows, e)
	return fmt.Sprintf("row-%d", len(a.rows)), nil
}

// Rows returns a copy of the appended entries in append order.
func (a *Appender) Rows() []core.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.Entry, len(a.rows))
	copy(out, a.rows)
	return out
}
