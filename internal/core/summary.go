package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
}

// LedgerStats mirrors the headline figures of the management page.
type LedgerStats struct {
	TransactionCount int
	TotalAssets      decimal.Decimal // sum of positive balances
	TotalExpenses    decimal.Decimal // absolute sum of negative balances
	LastTransaction  Date            // zero when the ledger is empty
}

// NewMonthOverview groups transactions by category. Callers pass only the
// transactions dated inside the month.
func NewMonthOverview(year, month int, txs []Transaction) MonthOverview {
	ov := MonthOverview{
		Year:       year,
		Month:      month,
		Total:      decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
	}
	for _, t := range txs {
		cur, ok := ov.ByCategory[t.Category]
		if !ok {
			cur = decimal.Zero
		}
		ov.ByCategory[t.Category] = cur.Add(t.Amount)
		ov.Total = ov.Total.Add(t.Amount)
	}
	return ov
}

// Categories returns the categories sorted by descending total, then name.
func (o MonthOverview) Categories() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(o.ByCategory))
	for name, amt := range o.ByCategory {
		out = append(out, CategoryAmount{Name: name, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
