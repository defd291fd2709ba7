package ledger

import (
	"context"

	"compta/internal/core"

	"github.com/shopspring/decimal"
)

// Ports implemented by the persistence adapters (storage, storage/memory).
type (
	// AccountRegistry holds the chart of accounts and their balances.
	AccountRegistry interface {
		// Initialize creates the seed accounts when the registry is empty.
		Initialize(ctx context.Context, seed []core.Account) error
		GetAccount(ctx context.Context, code core.AccountCode) (core.Account, error)
		// ApplyDelta adds delta to the balance of code. It returns
		// core.ErrAccountNotFound and changes nothing for unknown codes.
		ApplyDelta(ctx context.Context, code core.AccountCode, delta decimal.Decimal) error
		// ListAccounts returns every account ordered by code.
		ListAccounts(ctx context.Context) ([]core.Account, error)
	}

	// LedgerStore is the durable record of transactions.
	LedgerStore interface {
		Append(ctx context.Context, d core.TransactionDraft) (core.Transaction, error)
		Get(ctx context.Context, id int64) (core.Transaction, error)
		// List returns matching transactions by date descending, then ID descending.
		List(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
		Delete(ctx context.Context, id int64) (core.Transaction, error)
	}

	// Tx exposes both halves of the ledger inside one atomic unit.
	Tx interface {
		Accounts() AccountRegistry
		Transactions() LedgerStore
		// Version identifies the committed state seen by this unit. It
		// changes whenever any writer, in this process or another, commits
		// a change to the transactions.
		Version(ctx context.Context) (int64, error)
	}

	// Store runs units of work against the ledger.
	Store interface {
		// Update runs fn as one atomic unit. If fn returns an error, or the
		// commit fails, none of its effects are visible afterwards.
		Update(ctx context.Context, fn func(tx Tx) error) error
		// View runs fn against a consistent read-only snapshot.
		View(ctx context.Context, fn func(tx Tx) error) error
		Ping(ctx context.Context) error
		Close() error
	}
)
