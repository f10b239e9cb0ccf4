package backend

import (
	"context"
	"path/filepath"
	"testing"

	"watchdog/internal/config"
	"watchdog/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:         "rtdb",
		FirebaseDatabaseURL: "https://demo.firebaseio.com",
	}
	bc, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("from app config: %v", err)
	}
	if bc.Type != RTDBStore || bc.DatabaseURL != "https://demo.firebaseio.com" {
		t.Fatalf("unexpected backend config: %+v", bc)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"rtdb with url", Config{Type: RTDBStore, DatabaseURL: "https://demo.firebaseio.com"}, false},
		{"rtdb missing url", Config{Type: RTDBStore}, true},
		{"sqlite with path", Config{Type: SQLiteStore, SQLiteDBPath: "x.db"}, false},
		{"sqlite missing path", Config{Type: SQLiteStore}, true},
		{"memory", Config{Type: MemoryStore}, false},
		{"unknown", Config{Type: StoreType("csv")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMemoryStore(t *testing.T) {
	factory := NewFactory(nil)
	result, err := factory.CreateStore(context.Background(), Config{Type: MemoryStore})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if result.Store == nil {
		t.Fatal("expected a store")
	}
	entries, err := result.Store.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty store, got %d entries", len(entries))
	}
}

func TestCreateSQLiteStoreWithoutAMQP(t *testing.T) {
	factory := NewFactory(nil)
	result, err := factory.CreateStore(context.Background(), Config{
		Type:         SQLiteStore,
		SQLiteDBPath: filepath.Join(t.TempDir(), "watchdog.db"),
	})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() {
		if result.Cleanup != nil {
			result.Cleanup()
		}
	})

	id, err := result.Store.Create(context.Background(), core.NewEntry{
		Title:       "Harambee donation at rally",
		SourceURL:   "https://news.example.com/story",
		Amount:      1000000,
		Date:        core.NewDate(2024, 1, 15),
		Giver:       "Politician X",
		Recipients:  "Local church",
		Location:    core.Location{County: "Nairobi"},
		Description: "Alleged irregular donation handed over in public.",
		Tags:        []string{"harambee"},
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if id == "" {
		t.Fatal("expected assigned id")
	}
}
