package backend

import (
	"context"
	"errors"
	"fmt"

	"compta/internal/amqp"
	"compta/internal/cache"
	"compta/internal/ledger"
	"compta/internal/log"
	"compta/internal/storage"
	"compta/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var store ledger.Store
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		store = repo
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		store = memory.New()
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// AMQP is optional; the ledger keeps working without it
	var (
		publisher  ledger.EventPublisher
		amqpClient *amqp.Client
	)
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			amqpClient = client
			publisher = client
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	l, err := ledger.Open(ctx, store, publisher, f.logger, config.LedgerConfig())
	if err != nil {
		if amqpClient != nil {
			amqpClient.Close()
		}
		store.Close()
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	cleanup := func() error {
		var errs []error
		if amqpClient != nil {
			errs = append(errs, amqpClient.Close())
		}
		errs = append(errs, l.Close())
		return errors.Join(errs...)
	}

	return &BackendResult{
		Backend: l,
		Cleanup: cleanup,
		Caches:  []cache.Cleaner{l.SummaryCache()},
		Events:  amqpClient != nil,
	}, nil
}
