package http

import (
	"strconv"
	"time"

	"compta/internal/core"

	"github.com/shopspring/decimal"
)

// JSON representations. Amounts are strings with two decimals so that no
// client ever sees a float.

type accountJSON struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance string `json:"balance"`
}

type transactionJSON struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	DebitAccount  string    `json:"debit_account"`
	CreditAccount string    `json:"credit_account"`
	Amount        string    `json:"amount"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ExternalRef   string    `json:"ref,omitempty"`
	Owner         string    `json:"owner,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

type categoryJSON struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type overviewJSON struct {
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	Total      string            `json:"total"`
	ByCategory map[string]string `json:"by_category"`
	Categories []categoryJSON    `json:"categories"`
}

type statsJSON struct {
	TransactionCount int    `json:"transaction_count"`
	TotalAssets      string `json:"total_assets"`
	TotalExpenses    string `json:"total_expenses"`
	LastTransaction  string `json:"last_transaction,omitempty"`
}

func toAccountJSON(a core.Account) accountJSON {
	return accountJSON{
		Code:    a.Code.String(),
		Name:    a.Name,
		Type:    a.Type.String(),
		Balance: formatAmount(a.Balance),
	}
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:            t.ID,
		Date:          t.Date.String(),
		DebitAccount:  t.DebitAccount.String(),
		CreditAccount: t.CreditAccount.String(),
		Amount:        formatAmount(t.Amount),
		Description:   t.Description,
		Category:      t.Category,
		ExternalRef:   t.ExternalRef,
		Owner:         t.Owner,
		RecordedAt:    t.RecordedAt.UTC(),
	}
}

func toOverviewJSON(ov core.MonthOverview) overviewJSON {
	out := overviewJSON{
		Year:       ov.Year,
		Month:      ov.Month,
		Total:      formatAmount(ov.Total),
		ByCategory: make(map[string]string, len(ov.ByCategory)),
		Categories: []categoryJSON{},
	}
	for name, amt := range ov.ByCategory {
		out.ByCategory[name] = formatAmount(amt)
	}
	for _, c := range ov.Categories() {
		out.Categories = append(out.Categories, categoryJSON{Name: c.Name, Amount: formatAmount(c.Amount)})
	}
	return out
}

func toStatsJSON(s core.LedgerStats) statsJSON {
	return statsJSON{
		TransactionCount: s.TransactionCount,
		TotalAssets:      formatAmount(s.TotalAssets),
		TotalExpenses:    formatAmount(s.TotalExpenses),
		LastTransaction:  s.LastTransaction.String(),
	}
}

func formatAmount(d decimal.Decimal) string {
	return core.FormatAmount(d)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
