// Package memory is an in-process journal sheet used when no spreadsheet
// is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"compta/internal/core"
	"compta/internal/sheets"
)

// Journal keeps rows exactly as they would appear in the sheet, header first.
type Journal struct {
	mu   sync.Mutex
	rows [][]string
}

var (
	_ sheets.TransactionExporter = (*Journal)(nil)
	_ sheets.JournalReader       = (*Journal)(nil)
)

func New() *Journal {
	return &Journal{rows: [][]string{append([]string(nil), sheets.Header...)}}
}

// Export appends t unless its ID is already present.
func (j *Journal) Export(_ context.Context, t core.Transaction) (string, error) {
	if t.ID <= 0 {
		return "", fmt.Errorf("export: invalid transaction id %d", t.ID)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if i := j.find(t.ID); i >= 0 {
		return fmt.Sprintf("mem:%d", i+1), nil
	}
	j.rows = append(j.rows, sheets.ToStrings(sheets.ToRow(t)))
	return fmt.Sprintf("mem:%d", len(j.rows)), nil
}

// Remove deletes the row holding id, if any.
func (j *Journal) Remove(_ context.Context, id int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if i := j.find(id); i >= 0 {
		j.rows = append(j.rows[:i], j.rows[i+1:]...)
	}
	return nil
}

// ListExported returns the transactions in sheet order.
func (j *Journal) ListExported(context.Context) ([]core.Transaction, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]core.Transaction, 0, len(j.rows))
	for _, row := range j.rows {
		if _, ok := sheets.RowID(row); !ok {
			continue
		}
		t, err := sheets.FromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Rows returns a copy of the raw sheet content.
func (j *Journal) Rows() [][]string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([][]string, len(j.rows))
	for i, r := range j.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (j *Journal) find(id int64) int {
	for i, row := range j.rows {
		if rid, ok := sheets.RowID(row); ok && rid == id {
			return i
		}
	}
	return -1
}
