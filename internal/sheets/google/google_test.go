package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"compta/internal/core"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// fakeSheets serves the subset of the Sheets v4 REST API used by Client.
type fakeSheets struct {
	mu       sync.Mutex
	rows     [][]string
	deletes  int
	sheetIDs []int64
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	const base = "/v4/spreadsheets/sheet-1"
	switch {
	case r.Method == http.MethodGet && path == base:
		writeJSON(w, map[string]any{"sheets": []any{
			map[string]any{"properties": map[string]any{"sheetId": 99, "title": "Other"}},
			map[string]any{"properties": map[string]any{"sheetId": 77, "title": "Journal"}},
		}})
	case r.Method == http.MethodPost && path == base+":batchUpdate":
		var req gsheet.BatchUpdateSpreadsheetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rng := req.Requests[0].DeleteDimension.Range
		f.sheetIDs = append(f.sheetIDs, rng.SheetId)
		f.rows = append(f.rows[:rng.StartIndex], f.rows[rng.EndIndex:]...)
		f.deletes++
		writeJSON(w, map[string]any{"spreadsheetId": "sheet-1"})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, row := range vr.Values {
			f.rows = append(f.rows, toStrings(row))
		}
		n := len(f.rows)
		writeJSON(w, map[string]any{"updates": map[string]any{"updatedRange": "Journal!A" + strconv.Itoa(n) + ":J" + strconv.Itoa(n)}})
	case r.Method == http.MethodPut && strings.HasPrefix(path, base+"/values/"):
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(f.rows) == 0 {
			f.rows = append(f.rows, nil)
		}
		f.rows[0] = toStrings(vr.Values[0])
		writeJSON(w, map[string]any{"updatedRange": "Journal!A1:J1"})
	case r.Method == http.MethodGet && strings.HasPrefix(path, base+"/values/"):
		firstOnly := strings.HasSuffix(path, "!A:A")
		values := make([][]string, 0, len(f.rows))
		for _, row := range f.rows {
			if firstOnly && len(row) > 0 {
				row = row[:1]
			}
			values = append(values, row)
		}
		writeJSON(w, map[string]any{"range": "Journal", "values": values})
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		s, _ := v.(string)
		out[i] = s
	}
	return out
}

func newTestClient(t *testing.T) (*Client, *fakeSheets) {
	t.Helper()
	fake := &fakeSheets{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return New(svc, "sheet-1", "Journal", nil), fake
}

func sample(id int64) core.Transaction {
	return core.Transaction{
		ID:            id,
		Date:          core.NewDate(2024, 1, 10),
		DebitAccount:  core.SysBDC,
		CreditAccount: core.Invest,
		Amount:        decimal.RequireFromString("500"),
		Description:   "Stock BDC",
		Category:      "BDC",
		RecordedAt:    time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestClientExportWritesHeaderAndRow(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)

	ref, err := c.Export(ctx, sample(1))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if ref != "Journal!A2:J2" {
		t.Fatalf("unexpected ref %q", ref)
	}
	if len(fake.rows) != 2 || fake.rows[0][0] != "ID" || fake.rows[1][4] != "500.00" {
		t.Fatalf("unexpected sheet: %v", fake.rows)
	}

	// Redelivery must not duplicate the row.
	ref, err = c.Export(ctx, sample(1))
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if ref != "Journal!A2:J2" || len(fake.rows) != 2 {
		t.Fatalf("duplicate export: ref=%q rows=%v", ref, fake.rows)
	}
}

func TestClientRemove(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)
	for _, id := range []int64{1, 2, 3} {
		if _, err := c.Export(ctx, sample(id)); err != nil {
			t.Fatalf("export %d: %v", id, err)
		}
	}

	if err := c.Remove(ctx, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := c.Remove(ctx, 2); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	if fake.deletes != 1 || fake.sheetIDs[0] != 77 {
		t.Fatalf("unexpected deletes=%d sheetIDs=%v", fake.deletes, fake.sheetIDs)
	}

	list, err := c.ListExported(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 3 {
		t.Fatalf("unexpected list: %v", list)
	}
	if list[1].Category != "BDC" || !list[1].Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("row did not round trip: %+v", list[1])
	}
}

func TestFindRow(t *testing.T) {
	values := [][]interface{}{{"ID"}, {}, {"12"}, {" 7 "}}
	tests := []struct {
		id   int64
		want int
	}{
		{12, 3},
		{7, 4},
		{8, -1},
	}
	for _, tt := range tests {
		if got := findRow(values, tt.id); got != tt.want {
			t.Errorf("findRow(%d) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestNewFromConfig_MissingSpreadsheetID(t *testing.T) {
	_, err := NewFromConfig(context.Background(), Config{}, nil)
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := loadCredentials(Config{}); err == nil {
		t.Fatal("expected error without credentials")
	}

	got, err := loadCredentials(Config{ServiceAccountJSON: ` {"type":"service_account"} `})
	if err != nil || string(got) != `{"type":"service_account"}` {
		t.Fatalf("inline: got=%q err=%v", got, err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"type":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = loadCredentials(Config{ServiceAccountFile: path})
	if err != nil || string(got) != `{"type":"file"}` {
		t.Fatalf("file: got=%q err=%v", got, err)
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)
	if _, err := loadCredentials(Config{}); err != nil {
		t.Fatalf("ADC path: %v", err)
	}

	if _, err := loadCredentials(Config{ServiceAccountFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestClientWithoutService(t *testing.T) {
	c := &Client{sheetName: "Journal"}
	if _, err := c.Export(context.Background(), sample(1)); err == nil {
		t.Fatal("expected error without service")
	}
	if err := c.Remove(context.Background(), 1); err == nil {
		t.Fatal("expected error without service")
	}
}
