package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Asset   AccountType = "ASSET"
	Charge  AccountType = "CHARGE"
	Product AccountType = "PRODUCT"
)

// Seed chart of accounts.
const (
	Invest    AccountCode = "INVEST"
	SysBDC    AccountCode = "SYS_BDC"
	DepOp     AccountCode = "DEP_OP"
	ChargeFix AccountCode = "CHARGE_FIX"
	Recettes  AccountCode = "RECETTES"
)

// DefaultCategory is used when a transaction is recorded without a category.
const DefaultCategory = "Autre"

const dateLayout = "2006-01-02"

type (
	AccountType string
	AccountCode string

	Date struct {
		time.Time
	}

	Account struct {
		Code    AccountCode
		Name    string
		Type    AccountType
		Balance decimal.Decimal
	}
)

// SeedAccounts returns the fixed chart of accounts with zero balances.
func SeedAccounts() []Account {
	return []Account{
		{Code: Invest, Name: "Investissement", Type: Asset, Balance: decimal.Zero},
		{Code: SysBDC, Name: "Système BDC", Type: Asset, Balance: decimal.Zero},
		{Code: DepOp, Name: "Dépenses Opérationnelles", Type: Charge, Balance: decimal.Zero},
		{Code: ChargeFix, Name: "Charges Fixes", Type: Charge, Balance: decimal.Zero},
		{Code: Recettes, Name: "Recettes", Type: Product, Balance: decimal.Zero},
	}
}

// IsValid reports whether t belongs to the closed set of account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Charge, Product:
		return true
	default:
		return false
	}
}

func (t AccountType) String() string {
	return string(t)
}

// ParseAccountCode normalises user input ("invest ", "sys_bdc") to an AccountCode.
// It does not check the code against a registry.
func ParseAccountCode(s string) AccountCode {
	return AccountCode(strings.ToUpper(strings.TrimSpace(s)))
}

func (c AccountCode) String() string {
	return string(c)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Years outside this range have no YYYY-MM-DD form.
const (
	minYear = 1
	maxYear = 9999
)

// Validate rejects the zero date and years without a four-digit form.
func (d Date) Validate() error {
	if d.IsZero() || d.Year() < minYear || d.Year() > maxYear {
		return ErrInvalidDate
	}
	return nil
}

// MonthRange returns the first and last day of a calendar month.
func MonthRange(year, month int) (Date, Date, error) {
	if month < 1 || month > 12 || year < minYear || year > maxYear {
		return Date{}, Date{}, ErrInvalidPeriod
	}
	first := NewDate(year, month, 1)
	last := Date{Time: first.AddDate(0, 1, -1)}
	return first, last, nil
}
