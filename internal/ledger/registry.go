package ledger

import (
	"context"
	"fmt"

	"compta/internal/core"

	"github.com/shopspring/decimal"
)

// Initialize creates the seed accounts if the registry is empty and leaves
// a populated registry untouched.
func (l *Ledger) Initialize(ctx context.Context, seed []core.Account) error {
	for _, a := range seed {
		if !a.Type.IsValid() {
			return fmt.Errorf("seed account %s: invalid type %q", a.Code, a.Type)
		}
	}
	err := l.update(ctx, "initialize", func(tx Tx) error {
		return tx.Accounts().Initialize(ctx, seed)
	})
	if err != nil {
		return fmt.Errorf("initialize accounts: %w", err)
	}
	return nil
}

// Accounts returns every account ordered by code.
func (l *Ledger) Accounts(ctx context.Context) ([]core.Account, error) {
	var out []core.Account
	err := l.view(ctx, func(tx Tx) error {
		var err error
		out, err = tx.Accounts().ListAccounts(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

// Account returns a single account, or core.ErrAccountNotFound.
func (l *Ledger) Account(ctx context.Context, code core.AccountCode) (core.Account, error) {
	var out core.Account
	err := l.view(ctx, func(tx Tx) error {
		var err error
		out, err = tx.Accounts().GetAccount(ctx, code)
		return err
	})
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %s: %w", code, err)
	}
	return out, nil
}

// Balance returns the current balance of code, or core.ErrAccountNotFound.
func (l *Ledger) Balance(ctx context.Context, code core.AccountCode) (decimal.Decimal, error) {
	a, err := l.Account(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance, nil
}
