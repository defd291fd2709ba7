package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Transaction is an immutable double-entry movement: Amount moves from
	// CreditAccount to DebitAccount.
	Transaction struct {
		ID            int64
		Date          Date
		DebitAccount  AccountCode
		CreditAccount AccountCode
		Amount        decimal.Decimal
		Description   string
		Category      string
		ExternalRef   string // optional
		Owner         string // optional
		RecordedAt    time.Time
	}

	// TransactionDraft carries caller input for a transaction before the
	// store assigns its ID.
	TransactionDraft struct {
		Date          Date
		DebitAccount  AccountCode
		CreditAccount AccountCode
		Amount        decimal.Decimal
		Description   string
		Category      string
		ExternalRef   string
		Owner         string
		RecordedAt    time.Time
	}

	// TransactionFilter narrows a transaction listing. Zero values mean "no bound".
	TransactionFilter struct {
		From     Date
		To       Date
		Account  AccountCode
		Category string
		Limit    int
	}
)

// Validate checks the input rules that need no store access, in order:
// same account, amount, description, date.
func (d TransactionDraft) Validate() error {
	if d.DebitAccount == d.CreditAccount {
		return ErrSameAccount
	}
	if !d.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if err := d.Date.Validate(); err != nil {
		return err
	}
	return nil
}

// Normalize trims free-text fields and applies the default category.
func (d TransactionDraft) Normalize() TransactionDraft {
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	if d.Category == "" {
		d.Category = DefaultCategory
	}
	d.ExternalRef = strings.TrimSpace(d.ExternalRef)
	d.Owner = strings.TrimSpace(d.Owner)
	return d
}

// Matches reports whether t satisfies every bound set in f, ignoring Limit.
func (f TransactionFilter) Matches(t Transaction) bool {
	if !f.From.IsZero() && t.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To.Time) {
		return false
	}
	if f.Account != "" && t.DebitAccount != f.Account && t.CreditAccount != f.Account {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}

// Less orders transactions by date descending, then ID descending.
func Less(a, b Transaction) bool {
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.After(b.Date.Time)
	}
	return a.ID > b.ID
}

func (t Transaction) String() string {
	return fmt.Sprintf("#%d %s %s->%s %s", t.ID, t.Date, t.CreditAccount, t.DebitAccount, t.Amount.String())
}
