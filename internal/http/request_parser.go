// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// JSON transaction bodies, listing filters and year/month parameters.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"compta/internal/core"
)

// maxBodyBytes bounds the size of a JSON request body.
const maxBodyBytes = 64 << 10

var errBadRequest = errors.New("bad request")

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year and month from query parameters, using the
// current date as defaults. Range checks are left to the ledger.
func ParseMonthParams(query url.Values, now time.Time) (MonthParams, error) {
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("%w: year %q is not a number", errBadRequest, v)
		}
		params.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("%w: month %q is not a number", errBadRequest, v)
		}
		params.Month = m
	}

	return params, nil
}

// ParseFilter builds a listing filter from from, to, limit, account and
// category query parameters.
func ParseFilter(query url.Values) (core.TransactionFilter, error) {
	var f core.TransactionFilter

	if v := strings.TrimSpace(query.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		f.From = d
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		f.To = d
	}
	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest)
		}
		f.Limit = n
	}
	f.Account = core.ParseAccountCode(sanitizeInput(query.Get("account")))
	f.Category = sanitizeInput(query.Get("category"))
	return f, nil
}

// ParseID reads a positive transaction id from a path segment.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid transaction id %q", errBadRequest, s)
	}
	return id, nil
}

// amountField accepts an amount written either as a JSON number or a string
// such as "12,50".
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountField(s)
		return nil
	}
	*a = amountField(b)
	return nil
}

// TransactionRequest is the body of POST /api/transactions.
type TransactionRequest struct {
	Date          string      `json:"date"`
	DebitAccount  string      `json:"debit_account"`
	CreditAccount string      `json:"credit_account"`
	Amount        amountField `json:"amount"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	ExternalRef   string      `json:"ref"`
	Owner         string      `json:"owner"`
}

// DecodeTransactionRequest reads and converts a JSON transaction body.
//
// A malformed amount is rejected here. An empty or malformed date becomes
// the zero date so the ledger reports it in its usual validation order.
func DecodeTransactionRequest(r *http.Request) (core.TransactionDraft, error) {
	var req TransactionRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return core.TransactionDraft{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	amount, err := core.ParseAmount(string(req.Amount))
	if err != nil {
		return core.TransactionDraft{}, fmt.Errorf("amount %q: %w", string(req.Amount), err)
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		date = core.Date{}
	}

	return core.TransactionDraft{
		Date:          date,
		DebitAccount:  core.ParseAccountCode(req.DebitAccount),
		CreditAccount: core.ParseAccountCode(req.CreditAccount),
		Amount:        amount,
		Description:   sanitizeInput(req.Description),
		Category:      sanitizeInput(req.Category),
		ExternalRef:   sanitizeInput(req.ExternalRef),
		Owner:         sanitizeInput(req.Owner),
	}, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
