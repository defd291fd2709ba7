package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 10), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
		{NewDate(9999, 12, 31), true},
		{NewDate(10000, 1, 10), false},
		{NewDate(0, 6, 1), false},
		{NewDate(-5, 6, 1), false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Fatalf("unexpected date %s", d)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("unexpected format %q", d.String())
	}
	for _, in := range []string{"", "2024-13-01", "10/01/2024", "2023-02-29"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestMonthRange(t *testing.T) {
	first, last, err := MonthRange(2024, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.String() != "2024-02-01" || last.String() != "2024-02-29" {
		t.Fatalf("unexpected range %s..%s", first, last)
	}
	first, last, _ = MonthRange(2023, 12)
	if first.String() != "2023-12-01" || last.String() != "2023-12-31" {
		t.Fatalf("unexpected range %s..%s", first, last)
	}
	for _, m := range []int{0, 13, -1} {
		if _, _, err := MonthRange(2024, m); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("month %d expected ErrInvalidPeriod, got %v", m, err)
		}
	}
	for _, y := range []int{0, 10000} {
		if _, _, err := MonthRange(y, 1); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("year %d expected ErrInvalidPeriod, got %v", y, err)
		}
	}
}

func TestSeedAccounts(t *testing.T) {
	seed := SeedAccounts()
	if len(seed) != 5 {
		t.Fatalf("expected 5 seed accounts, got %d", len(seed))
	}
	seen := map[AccountCode]bool{}
	for _, a := range seed {
		if seen[a.Code] {
			t.Fatalf("duplicate code %s", a.Code)
		}
		seen[a.Code] = true
		if !a.Type.IsValid() {
			t.Fatalf("invalid type %q for %s", a.Type, a.Code)
		}
		if !a.Balance.IsZero() {
			t.Fatalf("seed balance for %s should be zero", a.Code)
		}
	}
	if AccountType("LIABILITY").IsValid() {
		t.Fatalf("LIABILITY must not be a valid account type")
	}
}

func TestParseAccountCode(t *testing.T) {
	if got := ParseAccountCode(" sys_bdc "); got != SysBDC {
		t.Fatalf("expected SYS_BDC, got %q", got)
	}
}

func TestTransactionDraftValidate(t *testing.T) {
	good := TransactionDraft{
		Date:          NewDate(2024, 1, 10),
		DebitAccount:  Invest,
		CreditAccount: Recettes,
		Amount:        decimal.NewFromInt(1000),
		Description:   "x",
		Category:      "Investissement",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(d *TransactionDraft)
		want   error
	}{
		{"same account", func(d *TransactionDraft) { d.CreditAccount = d.DebitAccount }, ErrSameAccount},
		{"zero amount", func(d *TransactionDraft) { d.Amount = decimal.Zero }, ErrNonPositiveAmount},
		{"negative amount", func(d *TransactionDraft) { d.Amount = decimal.NewFromInt(-5) }, ErrNonPositiveAmount},
		{"blank description", func(d *TransactionDraft) { d.Description = "   " }, ErrEmptyDescription},
		{"zero date", func(d *TransactionDraft) { d.Date = Date{} }, ErrInvalidDate},
		// Same account is reported before every other problem.
		{"order", func(d *TransactionDraft) {
			d.CreditAccount = d.DebitAccount
			d.Amount = decimal.Zero
			d.Description = ""
		}, ErrSameAccount},
		{"amount before description", func(d *TransactionDraft) {
			d.Amount = decimal.Zero
			d.Description = ""
		}, ErrNonPositiveAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := good
			tc.mutate(&d)
			err := d.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestTransactionDraftNormalize(t *testing.T) {
	d := TransactionDraft{Description: "  achat  ", Category: " ", Owner: " Ali ", ExternalRef: " BDC001 "}.Normalize()
	if d.Description != "achat" || d.Category != DefaultCategory || d.Owner != "Ali" || d.ExternalRef != "BDC001" {
		t.Fatalf("unexpected normalisation: %+v", d)
	}
}

func TestTransactionFilterMatches(t *testing.T) {
	tx := Transaction{
		ID:            1,
		Date:          NewDate(2024, 1, 15),
		DebitAccount:  DepOp,
		CreditAccount: Invest,
		Category:      "BDC",
	}
	cases := []struct {
		f    TransactionFilter
		want bool
	}{
		{TransactionFilter{}, true},
		{TransactionFilter{From: NewDate(2024, 1, 15), To: NewDate(2024, 1, 15)}, true},
		{TransactionFilter{From: NewDate(2024, 1, 16)}, false},
		{TransactionFilter{To: NewDate(2024, 1, 14)}, false},
		{TransactionFilter{Account: Invest}, true},
		{TransactionFilter{Account: Recettes}, false},
		{TransactionFilter{Category: "BDC"}, true},
		{TransactionFilter{Category: "Autre"}, false},
	}
	for i, tc := range cases {
		if got := tc.f.Matches(tx); got != tc.want {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, got)
		}
	}
}

func TestLessOrdersByDateThenID(t *testing.T) {
	older := Transaction{ID: 9, Date: NewDate(2024, 1, 1)}
	newer := Transaction{ID: 1, Date: NewDate(2024, 2, 1)}
	sameDay := Transaction{ID: 2, Date: NewDate(2024, 2, 1)}
	if !Less(newer, older) {
		t.Fatalf("later date must come first")
	}
	if !Less(sameDay, newer) {
		t.Fatalf("higher id must come first on the same day")
	}
}
