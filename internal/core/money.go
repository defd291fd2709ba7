// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input.
// Amounts are exact decimals; floating point is never used for arithmetic.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimal places kept for amounts (centimes).
const AmountPlaces = 2

// ParseAmount converts a decimal string to an amount rounded to AmountPlaces.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators as well as
// spaces used as thousands separators ("1 000,50"). Rounding is half away from
// zero on the third decimal place. The sign is preserved; positivity is a
// transaction rule, not a parsing rule.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,345") -> 12.35
//	ParseAmount("1 000")  -> 1000
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 || strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(AmountPlaces), nil
}

// FormatAmount renders an amount with exactly AmountPlaces decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// SumBalances returns the sum of all account balances. For a consistent
// ledger the result is always zero.
func SumBalances(accounts []Account) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range accounts {
		sum = sum.Add(a.Balance)
	}
	return sum
}
