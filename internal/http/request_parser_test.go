package http

import (
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"compta/internal/core"

	"github.com/shopspring/decimal"
)

func TestParseMonthParams(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		query     url.Values
		wantYear  int
		wantMonth int
		wantErr   bool
	}{
		{"both values provided", url.Values{"year": {"2023"}, "month": {"12"}}, 2023, 12, false},
		{"defaults", url.Values{}, 2024, 3, false},
		{"out of range month is left to the ledger", url.Values{"month": {"13"}}, 2024, 13, false},
		{"non-numeric year", url.Values{"year": {"abc"}}, 0, 0, true},
		{"non-numeric month", url.Values{"month": {"mars"}}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonthParams(tt.query, now)
			if tt.wantErr {
				if !errors.Is(err, errBadRequest) {
					t.Fatalf("expected bad request, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Year != tt.wantYear || got.Month != tt.wantMonth {
				t.Errorf("got %d-%d, want %d-%d", got.Year, got.Month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{
		"from":     {"2024-01-01"},
		"to":       {"2024-01-31"},
		"limit":    {"10"},
		"account":  {" invest "},
		"category": {"Loyer"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.From.String() != "2024-01-01" || f.To.String() != "2024-01-31" {
		t.Errorf("dates = %s..%s", f.From, f.To)
	}
	if f.Limit != 10 || f.Account != core.Invest || f.Category != "Loyer" {
		t.Errorf("filter = %+v", f)
	}

	if _, err := ParseFilter(url.Values{"to": {"31/01/2024"}}); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("expected invalid date, got %v", err)
	}
	for _, limit := range []string{"-1", "ten"} {
		if _, err := ParseFilter(url.Values{"limit": {limit}}); !errors.Is(err, errBadRequest) {
			t.Errorf("limit %q: expected bad request, got %v", limit, err)
		}
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("42"); err != nil || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, err)
	}
	for _, s := range []string{"0", "-3", "x", ""} {
		if _, err := ParseID(s); err == nil {
			t.Errorf("ParseID(%q) should fail", s)
		}
	}
}

func TestDecodeTransactionRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantAmount string
		wantDate   string
		wantErr    error
	}{
		{
			name:       "string amount with comma",
			body:       `{"date":"2024-01-10","debit_account":"invest","credit_account":"recettes","amount":"1 000,50","description":" apport "}`,
			wantAmount: "1000.5",
			wantDate:   "2024-01-10",
		},
		{
			name:       "number amount",
			body:       `{"date":"2024-01-10","debit_account":"INVEST","credit_account":"RECETTES","amount":12.345,"description":"x"}`,
			wantAmount: "12.35",
			wantDate:   "2024-01-10",
		},
		{
			name:       "unparsable date becomes zero",
			body:       `{"date":"tomorrow","debit_account":"INVEST","credit_account":"RECETTES","amount":"1","description":"x"}`,
			wantAmount: "1",
			wantDate:   "",
		},
		{
			name:    "missing amount",
			body:    `{"date":"2024-01-10","debit_account":"INVEST","credit_account":"RECETTES","description":"x"}`,
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "null amount",
			body:    `{"amount":null}`,
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "unknown field",
			body:    `{"amount":"1","status":"posted"}`,
			wantErr: errBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/transactions", strings.NewReader(tt.body))
			d, err := DecodeTransactionRequest(r)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !d.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
				t.Errorf("amount = %s, want %s", d.Amount, tt.wantAmount)
			}
			if d.Date.String() != tt.wantDate {
				t.Errorf("date = %q, want %q", d.Date.String(), tt.wantDate)
			}
			if d.DebitAccount != core.Invest || d.CreditAccount != core.Recettes {
				t.Errorf("accounts = %s/%s", d.DebitAccount, d.CreditAccount)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  loyer\x00 janvier\t "); got != "loyer janvier" {
		t.Errorf("sanitizeInput = %q", got)
	}
}
