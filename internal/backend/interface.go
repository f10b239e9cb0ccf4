// Package backend selects and wires a ledger store implementation from
// configuration.
package backend

import (
	"context"

	"watchdog/internal/ledger"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the store instance and an optional cleanup function.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for store creation.
type Config struct {
	Type StoreType

	// Firebase Realtime Database
	DatabaseURL string
	AuthToken   string

	// SQLite
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// StoreType names a ledger store implementation.
type StoreType string

const (
	RTDBStore   StoreType = "rtdb"
	SQLiteStore StoreType = "sqlite"
	MemoryStore StoreType = "memory"
)

func (st StoreType) String() string {
	return string(st)
}

// IsValid returns true if the store type is known.
func (st StoreType) IsValid() bool {
	switch st {
	case RTDBStore, SQLiteStore, MemoryStore:
		return true
	default:
		return false
	}
}
