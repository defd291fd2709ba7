package backend

import (
	"context"
	"time"

	"compta/internal/cache"
	"compta/internal/core"

	"github.com/shopspring/decimal"
)

// Backend is the ledger surface the HTTP layer and the CLI work against.
type Backend interface {
	Record(ctx context.Context, d core.TransactionDraft) (core.Transaction, error)
	Reverse(ctx context.Context, id int64) (core.Transaction, error)
	Transaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)

	Accounts(ctx context.Context) ([]core.Account, error)
	Account(ctx context.Context, code core.AccountCode) (core.Account, error)

	SummarizeByCategory(ctx context.Context, year, month int) (map[string]decimal.Decimal, error)
	MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error)
	Stats(ctx context.Context) (core.LedgerStats, error)

	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
	// Caches lists the caches a cache.Manager should sweep.
	Caches []cache.Cleaner
	// Events is true when committed writes are published over AMQP.
	Events bool
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Optional event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Ledger session tuning; zero values fall back to defaults
	CommitRetries    int
	CommitBackoff    time.Duration
	SummaryCacheSize int
	SummaryCacheTTL  time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
