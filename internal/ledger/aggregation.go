package ledger

import (
	"context"
	"fmt"

	"compta/internal/core"

	"github.com/shopspring/decimal"
)

// SummarizeByCategory returns, for the given calendar month, the sum of
// amounts per category. Categories without transactions are absent.
func (l *Ledger) SummarizeByCategory(ctx context.Context, year, month int) (map[string]decimal.Decimal, error) {
	ov, err := l.MonthOverview(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return ov.ByCategory, nil
}

// monthSummary is a cached overview and the store version it was
// computed from.
type monthSummary struct {
	version  int64
	overview core.MonthOverview
}

// MonthOverview returns the category totals and grand total of a month.
// A cached result is used only while the store version is unchanged, so
// writes made through another session on the same store are seen at once.
// Concurrent requests for the same month share one computation.
func (l *Ledger) MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	first, last, err := core.MonthRange(year, month)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("summarize %d-%02d: %w", year, month, err)
	}

	key := fmt.Sprintf("%04d-%02d", year, month)
	v, err, _ := l.flight.Do(key, func() (any, error) {
		l.mu.RLock()
		defer l.mu.RUnlock()

		var ov core.MonthOverview
		err := l.store.View(ctx, func(tx Tx) error {
			version, err := tx.Version(ctx)
			if err != nil {
				return err
			}
			if cached, ok := l.summaries.Get(key); ok && cached.version == version {
				ov = cached.overview
				return nil
			}

			txs, err := tx.Transactions().List(ctx, core.TransactionFilter{From: first, To: last})
			if err != nil {
				return err
			}
			ov = core.NewMonthOverview(year, month, txs)
			l.summaries.Set(key, monthSummary{version: version, overview: ov})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return ov, nil
	})
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("summarize %s: %w", key, err)
	}
	return cloneOverview(v.(core.MonthOverview)), nil
}

// Stats returns the headline figures of the ledger from one snapshot.
func (l *Ledger) Stats(ctx context.Context) (core.LedgerStats, error) {
	stats := core.LedgerStats{TotalAssets: decimal.Zero, TotalExpenses: decimal.Zero}
	err := l.view(ctx, func(tx Tx) error {
		accounts, err := tx.Accounts().ListAccounts(ctx)
		if err != nil {
			return err
		}
		for _, a := range accounts {
			switch a.Balance.Sign() {
			case 1:
				stats.TotalAssets = stats.TotalAssets.Add(a.Balance)
			case -1:
				stats.TotalExpenses = stats.TotalExpenses.Add(a.Balance.Abs())
			}
		}

		txs, err := tx.Transactions().List(ctx, core.TransactionFilter{})
		if err != nil {
			return err
		}
		stats.TransactionCount = len(txs)
		if len(txs) > 0 {
			stats.LastTransaction = txs[0].Date
		}
		return nil
	})
	if err != nil {
		return core.LedgerStats{}, fmt.Errorf("ledger stats: %w", err)
	}
	return stats, nil
}

func cloneOverview(ov core.MonthOverview) core.MonthOverview {
	byCat := make(map[string]decimal.Decimal, len(ov.ByCategory))
	for k, v := range ov.ByCategory {
		byCat[k] = v
	}
	ov.ByCategory = byCat
	return ov
}
