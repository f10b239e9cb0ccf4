package backend

import (
	"context"
	"fmt"
	"log/slog"

	"watchdog/internal/amqp"
	"watchdog/internal/ledger/firebase"
	"watchdog/internal/ledger/memory"
	"watchdog/internal/services"
	"watchdog/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RTDBStore:
		return f.createRTDBStore(config)
	case SQLiteStore:
		return f.createSQLiteStore(config)
	case MemoryStore:
		return f.createMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRTDBStore(config Config) (*Result, error) {
	var opts []firebase.Option
	if config.AuthToken != "" {
		opts = append(opts, firebase.WithAuthToken(config.AuthToken))
	}
	client := firebase.New(config.DatabaseURL, opts...)

	f.logger.Info("Initialized Firebase RTDB backend", "database_url", config.DatabaseURL)

	return &Result{Store: client}, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (*Result, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; without it entries are stored but never mirrored
	// to the export sheet.
	var publisher services.SyncPublisher
	if config.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			publisher = amqpClient
		}
	}

	entryService := services.NewEntryService(sqliteRepo, publisher)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", publisher != nil)

	return &Result{
		Store:   entryService,
		Cleanup: entryService.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryStore() (*Result, error) {
	store := memory.New()
	f.logger.Info("Initialized in-memory backend")
	return &Result{Store: store}, nil
}
