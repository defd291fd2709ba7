// Package ledger implements the double-entry protocol on top of a
// transactional Store.
//
// A Ledger is the explicit session value callers create once and share.
// It is the only writer of account balances and transaction records, and it
// guarantees that a balance change is never observable without the matching
// transaction record (and vice versa):
//
//   - writes (Record, Reverse) hold the write lock and run as one Store.Update;
//   - reads (Accounts, Balance, ListTransactions, summaries) hold the read lock
//     and run inside Store.View.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"compta/internal/cache"
	"compta/internal/core"
	"compta/internal/log"

	"golang.org/x/sync/singleflight"
)

// Config tunes retry and caching behaviour of a Ledger.
type Config struct {
	// CommitRetries is the number of attempts for a write whose commit fails
	// with a transient persistence error (default: 3).
	CommitRetries int

	// CommitBackoff is the delay before the second attempt; it doubles for
	// each further attempt (default: 25ms).
	CommitBackoff time.Duration

	// SummaryCacheSize is the number of month summaries kept (default: 64).
	SummaryCacheSize int

	// SummaryCacheTTL bounds the age of a cached summary (default: 5m).
	SummaryCacheTTL time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		CommitRetries:    3,
		CommitBackoff:    25 * time.Millisecond,
		SummaryCacheSize: 64,
		SummaryCacheTTL:  5 * time.Minute,
	}
}

// Ledger is a session over one Store.
type Ledger struct {
	store     Store
	publisher EventPublisher
	logger    *log.Logger
	cfg       Config
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error

	mu        sync.RWMutex
	summaries *cache.LRUCache[monthSummary]
	flight    singleflight.Group
}

// New creates a ledger session. publisher and logger may be nil.
func New(store Store, publisher EventPublisher, logger *log.Logger, cfg Config) *Ledger {
	def := DefaultConfig()
	if cfg.CommitRetries < 1 {
		cfg.CommitRetries = def.CommitRetries
	}
	if cfg.CommitBackoff <= 0 {
		cfg.CommitBackoff = def.CommitBackoff
	}
	if cfg.SummaryCacheSize < 1 {
		cfg.SummaryCacheSize = def.SummaryCacheSize
	}
	if cfg.SummaryCacheTTL <= 0 {
		cfg.SummaryCacheTTL = def.SummaryCacheTTL
	}
	if logger == nil {
		logger = log.Discard()
	}

	return &Ledger{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
		cfg:       cfg,
		now:       time.Now,
		sleep:     sleepContext,
		summaries: cache.NewLRUCache[monthSummary](cfg.SummaryCacheSize, cfg.SummaryCacheTTL),
	}
}

// Open creates a ledger session and seeds the chart of accounts.
func Open(ctx context.Context, store Store, publisher EventPublisher, logger *log.Logger, cfg Config) (*Ledger, error) {
	l := New(store, publisher, logger, cfg)
	if err := l.Initialize(ctx, core.SeedAccounts()); err != nil {
		return nil, err
	}
	return l, nil
}

// SummaryCache exposes the summary cache so a cache.Manager can sweep it.
func (l *Ledger) SummaryCache() cache.Cleaner {
	return l.summaries
}

// Ping checks that the underlying store is reachable.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.store.Ping(ctx)
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// view runs fn under the read lock against a consistent snapshot.
func (l *Ledger) view(ctx context.Context, fn func(tx Tx) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.View(ctx, fn)
}

// update runs fn under the write lock as one atomic unit, retrying the
// whole unit on transient persistence failures. Any committed write purges
// the summary cache before the lock is released.
func (l *Ledger) update(ctx context.Context, op string, fn func(tx Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	backoff := l.cfg.CommitBackoff
	var err error
	for attempt := 1; attempt <= l.cfg.CommitRetries; attempt++ {
		err = l.store.Update(ctx, fn)
		if err == nil {
			l.summaries.Purge()
			return nil
		}
		if !core.IsTransient(err) || attempt == l.cfg.CommitRetries {
			break
		}
		l.logger.WarnContext(ctx, "Transient store failure, retrying",
			log.FieldOperation, op,
			log.FieldAttempt, attempt,
			log.FieldError, err)
		if serr := l.sleep(ctx, backoff); serr != nil {
			return fmt.Errorf("%s: %w", op, serr)
		}
		backoff *= 2
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
