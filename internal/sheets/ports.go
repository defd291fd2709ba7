package sheets

import (
	"context"

	"compta/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionExporter mirrors ledger transactions into a journal sheet,
	// one row per transaction keyed by its ID.
	//
	//go:generate mockgen -destination=mocks/mock_ports.go -source=ports.go TransactionExporter,JournalReader
	TransactionExporter interface {
		// Export appends t unless a row with the same ID already exists and
		// returns the reference of the row holding it.
		Export(ctx context.Context, t core.Transaction) (rowRef string, err error)
		// Remove deletes the row holding id. A missing row is not an error.
		Remove(ctx context.Context, id int64) error
	}

	// JournalReader lists the transactions currently present in the sheet.
	JournalReader interface {
		ListExported(ctx context.Context) ([]core.Transaction, error)
	}
)
