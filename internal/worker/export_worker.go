package worker

import (
	"context"
	"errors"
	"fmt"

	"compta/internal/amqp"
	"compta/internal/core"
	"compta/internal/log"
	"compta/internal/sheets"
)

// TransactionSource is the read side of the ledger the worker checks
// events against.
type TransactionSource interface {
	Transaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
}

// ExportWorker mirrors ledger events into the journal sheet.
type ExportWorker struct {
	source   TransactionSource
	exporter sheets.TransactionExporter
	journal  sheets.JournalReader
	logger   *log.Logger
}

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	Exported int
	Removed  int
	Errors   int
}

// NewExportWorker creates a worker. journal may be nil, which disables
// Reconcile.
func NewExportWorker(source TransactionSource, exporter sheets.TransactionExporter, journal sheets.JournalReader, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportWorker{
		source:   source,
		exporter: exporter,
		journal:  journal,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent processes one ledger event. It has the amqp.Handler signature.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	switch ev.Type {
	case amqp.EventTransactionRecorded:
		t, err := ev.Transaction.ToCore()
		if err != nil {
			// Redelivery cannot fix a bad payload.
			w.logger.ErrorContext(ctx, "Dropping undecodable event",
				log.FieldMessageID, ev.MessageID, log.FieldError, err)
			return nil
		}
		return w.export(ctx, t)
	case amqp.EventTransactionReversed:
		if err := w.exporter.Remove(ctx, ev.Transaction.ID); err != nil {
			return fmt.Errorf("remove transaction %d: %w", ev.Transaction.ID, err)
		}
		w.logger.InfoContext(ctx, "Reversed transaction removed from journal",
			log.FieldTransactionID, ev.Transaction.ID)
		return nil
	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event type",
			log.FieldMessageID, ev.MessageID, "type", string(ev.Type))
		return nil
	}
}

// export writes t unless it has been reversed in the meantime.
func (w *ExportWorker) export(ctx context.Context, t core.Transaction) error {
	if w.source != nil {
		if _, err := w.source.Transaction(ctx, t.ID); err != nil {
			if errors.Is(err, core.ErrTransactionNotFound) {
				w.logger.InfoContext(ctx, "Skipping export of reversed transaction",
					log.FieldTransactionID, t.ID)
				return nil
			}
			return fmt.Errorf("check transaction %d: %w", t.ID, err)
		}
	}

	ref, err := w.exporter.Export(ctx, t)
	if err != nil {
		return fmt.Errorf("export transaction %d: %w", t.ID, err)
	}
	w.logger.InfoContext(ctx, "Transaction exported",
		log.FieldTransactionID, t.ID,
		log.FieldSheetsRef, ref,
		log.FieldAmount, core.FormatAmount(t.Amount))
	return nil
}

// Reconcile brings the journal in line with the ledger: missing rows are
// exported and rows of reversed transactions are removed. It recovers from
// lost messages and worker downtime.
func (w *ExportWorker) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var rep ReconcileReport
	if w.journal == nil || w.source == nil {
		return rep, errors.New("reconcile: journal reader or ledger not configured")
	}

	ledgerTxs, err := w.source.ListTransactions(ctx, core.TransactionFilter{})
	if err != nil {
		return rep, fmt.Errorf("list ledger transactions: %w", err)
	}
	exported, err := w.journal.ListExported(ctx)
	if err != nil {
		return rep, fmt.Errorf("list exported transactions: %w", err)
	}

	inLedger := make(map[int64]struct{}, len(ledgerTxs))
	for _, t := range ledgerTxs {
		inLedger[t.ID] = struct{}{}
	}
	inSheet := make(map[int64]struct{}, len(exported))
	for _, t := range exported {
		inSheet[t.ID] = struct{}{}
	}

	// Oldest first so the sheet keeps chronological order.
	for i := len(ledgerTxs) - 1; i >= 0; i-- {
		t := ledgerTxs[i]
		if _, ok := inSheet[t.ID]; ok {
			continue
		}
		if _, err := w.exporter.Export(ctx, t); err != nil {
			w.logger.ErrorContext(ctx, "Failed to export during reconcile",
				log.FieldTransactionID, t.ID, log.FieldError, err)
			rep.Errors++
			continue
		}
		rep.Exported++
	}

	for _, t := range exported {
		if _, ok := inLedger[t.ID]; ok {
			continue
		}
		if err := w.exporter.Remove(ctx, t.ID); err != nil {
			w.logger.ErrorContext(ctx, "Failed to remove during reconcile",
				log.FieldTransactionID, t.ID, log.FieldError, err)
			rep.Errors++
			continue
		}
		rep.Removed++
	}

	w.logger.InfoContext(ctx, "Reconcile completed",
		"exported", rep.Exported,
		"removed", rep.Removed,
		"errors", rep.Errors)
	return rep, nil
}
