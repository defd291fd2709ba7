package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"compta/internal/core"

	"github.com/shopspring/decimal"
)

// Header is the first row of the journal sheet.
var Header = []string{
	"ID", "Date", "Débit", "Crédit", "Montant",
	"Description", "Catégorie", "Référence", "Responsable", "Saisi le",
}

// Columns spans the journal columns in A1 notation.
const Columns = "A:J"

var ErrMalformedRow = errors.New("malformed journal row")

// ToRow renders t as one journal row. Values are plain strings so they
// survive a RAW write and read unchanged.
func ToRow(t core.Transaction) []any {
	recorded := ""
	if !t.RecordedAt.IsZero() {
		recorded = t.RecordedAt.UTC().Format(time.RFC3339)
	}
	return []any{
		strconv.FormatInt(t.ID, 10),
		t.Date.String(),
		string(t.DebitAccount),
		string(t.CreditAccount),
		core.FormatAmount(t.Amount),
		t.Description,
		t.Category,
		t.ExternalRef,
		t.Owner,
		recorded,
	}
}

// RowID returns the transaction ID held in the first cell, or false for
// headers and blank rows.
func RowID(cells []string) (int64, bool) {
	if len(cells) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(cells[0]), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FromRow parses a journal row written by ToRow.
func FromRow(cells []string) (core.Transaction, error) {
	id, ok := RowID(cells)
	if !ok {
		return core.Transaction{}, fmt.Errorf("%w: no id", ErrMalformedRow)
	}
	get := func(i int) string {
		if i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	date, err := core.ParseDate(get(1))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w %d: date %q", ErrMalformedRow, id, get(1))
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(get(4), ",", "."))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w %d: amount %q", ErrMalformedRow, id, get(4))
	}
	var recorded time.Time
	if s := get(9); s != "" {
		if recorded, err = time.Parse(time.RFC3339, s); err != nil {
			return core.Transaction{}, fmt.Errorf("%w %d: recorded at %q", ErrMalformedRow, id, s)
		}
	}

	return core.Transaction{
		ID:            id,
		Date:          date,
		DebitAccount:  core.AccountCode(get(2)),
		CreditAccount: core.AccountCode(get(3)),
		Amount:        amount,
		Description:   get(5),
		Category:      get(6),
		ExternalRef:   get(7),
		Owner:         get(8),
		RecordedAt:    recorded,
	}, nil
}

// ToStrings converts a row returned by the Sheets API.
func ToStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
