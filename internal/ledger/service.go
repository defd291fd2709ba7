package ledger

import (
	"context"
	"errors"
	"fmt"

	"compta/internal/core"
	"compta/internal/log"

	"github.com/shopspring/decimal"
)

// Record validates d and, if valid, appends the transaction and moves its
// amount from the credit account to the debit account as one atomic unit.
//
// Validation fails fast, in order, with core.ErrSameAccount,
// core.ErrNonPositiveAmount, core.ErrEmptyDescription, core.ErrInvalidDate
// and core.ErrUnknownAccount. RecordedAt is always set by the ledger.
func (l *Ledger) Record(ctx context.Context, d core.TransactionDraft) (core.Transaction, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	d.RecordedAt = l.now().UTC()

	var recorded core.Transaction
	err := l.update(ctx, log.OpRecord, func(tx Tx) error {
		accounts := tx.Accounts()
		for _, code := range []core.AccountCode{d.DebitAccount, d.CreditAccount} {
			if _, err := accounts.GetAccount(ctx, code); err != nil {
				if errors.Is(err, core.ErrAccountNotFound) {
					return fmt.Errorf("%w: %s", core.ErrUnknownAccount, code)
				}
				return err
			}
		}

		t, err := tx.Transactions().Append(ctx, d)
		if err != nil {
			return err
		}
		if err := move(ctx, accounts, t.DebitAccount, t.CreditAccount, t.Amount); err != nil {
			return err
		}
		recorded = t
		return nil
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	l.logger.InfoContext(ctx, "Transaction recorded", log.NewFields().WithTransaction(recorded).ToSlice()...)
	l.publish(ctx, log.OpRecord, recorded)
	return recorded, nil
}

// Reverse removes transaction id and undoes its balance effect as one
// atomic unit. It returns the removed transaction, or
// core.ErrTransactionNotFound when id does not exist.
func (l *Ledger) Reverse(ctx context.Context, id int64) (core.Transaction, error) {
	var reversed core.Transaction
	err := l.update(ctx, log.OpReverse, func(tx Tx) error {
		store := tx.Transactions()
		if _, err := store.Get(ctx, id); err != nil {
			return err
		}
		t, err := store.Delete(ctx, id)
		if err != nil {
			return err
		}
		if err := move(ctx, tx.Accounts(), t.CreditAccount, t.DebitAccount, t.Amount); err != nil {
			return err
		}
		reversed = t
		return nil
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("reverse transaction %d: %w", id, err)
	}

	l.logger.InfoContext(ctx, "Transaction reversed", log.NewFields().WithTransaction(reversed).ToSlice()...)
	l.publish(ctx, log.OpReverse, reversed)
	return reversed, nil
}

// Transaction returns a stored transaction, or core.ErrTransactionNotFound.
func (l *Ledger) Transaction(ctx context.Context, id int64) (core.Transaction, error) {
	var out core.Transaction
	err := l.view(ctx, func(tx Tx) error {
		var err error
		out, err = tx.Transactions().Get(ctx, id)
		return err
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return out, nil
}

// ListTransactions returns transactions matching f, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	if f.Limit < 0 {
		return nil, fmt.Errorf("list transactions: %w: negative limit", core.ErrValidation)
	}
	var out []core.Transaction
	err := l.view(ctx, func(tx Tx) error {
		var err error
		out, err = tx.Transactions().List(ctx, f)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// move adds amount to gain and subtracts it from lose. An account that
// vanished after validation is an integrity failure, never a validation one.
func move(ctx context.Context, accounts AccountRegistry, gain, lose core.AccountCode, amount decimal.Decimal) error {
	if err := accounts.ApplyDelta(ctx, gain, amount); err != nil {
		return asIntegrity(err)
	}
	if err := accounts.ApplyDelta(ctx, lose, amount.Neg()); err != nil {
		return asIntegrity(err)
	}
	return nil
}

func asIntegrity(err error) error {
	if errors.Is(err, core.ErrAccountNotFound) {
		return core.Integrity("apply delta", err)
	}
	return err
}
