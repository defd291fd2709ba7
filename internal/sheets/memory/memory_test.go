package memory

import (
	"context"
	"testing"
	"time"

	"compta/internal/core"

	"github.com/shopspring/decimal"
)

func tx(id int64) core.Transaction {
	return core.Transaction{
		ID:            id,
		Date:          core.NewDate(2024, 1, 10),
		DebitAccount:  core.Invest,
		CreditAccount: core.Recettes,
		Amount:        decimal.RequireFromString("1000.5"),
		Description:   "apport",
		Category:      "Investissement",
		RecordedAt:    time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestJournalExportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	j := New()

	ref, err := j.Export(ctx, tx(1))
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected export: ref=%q err=%v", ref, err)
	}
	ref, err = j.Export(ctx, tx(1))
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected re-export: ref=%q err=%v", ref, err)
	}
	if n := len(j.Rows()); n != 2 {
		t.Fatalf("expected header + 1 row, got %d", n)
	}
	if got := j.Rows()[1][4]; got != "1000.50" {
		t.Fatalf("amount cell = %q, want 1000.50", got)
	}
}

func TestJournalRemoveAndList(t *testing.T) {
	ctx := context.Background()
	j := New()
	for _, id := range []int64{1, 2, 3} {
		if _, err := j.Export(ctx, tx(id)); err != nil {
			t.Fatalf("export %d: %v", id, err)
		}
	}

	if err := j.Remove(ctx, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := j.Remove(ctx, 42); err != nil {
		t.Fatalf("remove missing row should succeed: %v", err)
	}

	list, err := j.ListExported(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 3 {
		t.Fatalf("unexpected list: %v", list)
	}
	if !list[0].Amount.Equal(decimal.RequireFromString("1000.50")) || list[0].Date.String() != "2024-01-10" {
		t.Fatalf("row did not round trip: %+v", list[0])
	}
}

func TestJournalRejectsMissingID(t *testing.T) {
	if _, err := New().Export(context.Background(), core.Transaction{}); err == nil {
		t.Fatal("expected error for zero id")
	}
}
