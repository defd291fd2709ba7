package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"compta/internal/core"
	"compta/internal/ledger"
	"compta/internal/log"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable ledger.Store. Each Update runs in one
// database transaction; View reads from a transaction that is rolled back.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := DSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Update implements ledger.Store.
func (r *SQLiteRepository) Update(ctx context.Context, fn func(tx ledger.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin", err)
	}

	if err := fn(&sqlTx{q: r.queries.WithTx(tx)}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.FromContext(ctx).WithComponent(log.ComponentStorage).
				WarnContext(ctx, "Rollback failed", log.FieldError, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit", err)
	}
	return nil
}

// View implements ledger.Store.
func (r *SQLiteRepository) View(ctx context.Context, fn func(tx ledger.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin", err)
	}
	defer tx.Rollback()

	return fn(&sqlTx{q: r.queries.WithTx(tx)})
}

// sqlTx implements ledger.Tx, ledger.AccountRegistry and ledger.LedgerStore
// on top of one database transaction.
type sqlTx struct {
	q *Queries
}

func (t *sqlTx) Accounts() ledger.AccountRegistry { return t }
func (t *sqlTx) Transactions() ledger.LedgerStore { return t }

// Version reads the counter maintained by the transactions triggers, so
// commits from other connections and processes are visible too.
func (t *sqlTx) Version(ctx context.Context) (int64, error) {
	v, err := t.q.GetLedgerVersion(ctx)
	if err != nil {
		return 0, classify("read ledger version", err)
	}
	return v, nil
}

func (t *sqlTx) Initialize(ctx context.Context, seed []core.Account) error {
	n, err := t.q.CountAccounts(ctx)
	if err != nil {
		return classify("count accounts", err)
	}
	if n > 0 {
		return nil
	}
	for _, a := range seed {
		err := t.q.InsertAccount(ctx, InsertAccountParams{
			Code:    string(a.Code),
			Name:    a.Name,
			Type:    string(a.Type),
			Balance: a.Balance.String(),
		})
		if err != nil {
			return classify("insert account", err)
		}
	}
	return nil
}

func (t *sqlTx) GetAccount(ctx context.Context, code core.AccountCode) (core.Account, error) {
	row, err := t.q.GetAccount(ctx, string(code))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrAccountNotFound
	}
	if err != nil {
		return core.Account{}, classify("get account", err)
	}
	return accountFromRow(row)
}

func (t *sqlTx) ApplyDelta(ctx context.Context, code core.AccountCode, delta decimal.Decimal) error {
	a, err := t.GetAccount(ctx, code)
	if err != nil {
		return err
	}
	n, err := t.q.UpdateAccountBalance(ctx, UpdateAccountBalanceParams{
		Balance: a.Balance.Add(delta).String(),
		Code:    string(code),
	})
	if err != nil {
		return classify("update balance", err)
	}
	if n != 1 {
		return core.ErrAccountNotFound
	}
	return nil
}

func (t *sqlTx) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := t.q.ListAccounts(ctx)
	if err != nil {
		return nil, classify("list accounts", err)
	}
	out := make([]core.Account, 0, len(rows))
	for _, row := range rows {
		a, err := accountFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (t *sqlTx) Append(ctx context.Context, d core.TransactionDraft) (core.Transaction, error) {
	row, err := t.q.CreateTransaction(ctx, CreateTransactionParams{
		Date:        d.Date.String(),
		DebitCode:   string(d.DebitAccount),
		CreditCode:  string(d.CreditAccount),
		Amount:      d.Amount.String(),
		Description: d.Description,
		Category:    d.Category,
		Ref:         d.ExternalRef,
		Owner:       d.Owner,
		RecordedAt:  d.RecordedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return core.Transaction{}, classify("append transaction", err)
	}
	return transactionFromRow(row)
}

func (t *sqlTx) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := t.q.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, classify("get transaction", err)
	}
	return transactionFromRow(row)
}

func (t *sqlTx) List(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	limit := int64(f.Limit)
	if limit <= 0 {
		limit = -1
	}
	rows, err := t.q.ListTransactions(ctx, ListTransactionsParams{
		From:     f.From.String(),
		To:       f.To.String(),
		Account:  string(f.Account),
		Category: f.Category,
		Limit:    limit,
	})
	if err != nil {
		return nil, classify("list transactions", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tr, err := transactionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

func (t *sqlTx) Delete(ctx context.Context, id int64) (core.Transaction, error) {
	tr, err := t.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	n, err := t.q.DeleteTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, classify("delete transaction", err)
	}
	if n != 1 {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return tr, nil
}

func accountFromRow(row Account) (core.Account, error) {
	bal, err := decimal.NewFromString(row.Balance)
	if err != nil {
		return core.Account{}, core.Integrity("decode account "+row.Code, err)
	}
	return core.Account{
		Code:    core.AccountCode(row.Code),
		Name:    row.Name,
		Type:    core.AccountType(row.Type),
		Balance: bal,
	}, nil
}

func transactionFromRow(row Transaction) (core.Transaction, error) {
	op := fmt.Sprintf("decode transaction %d", row.ID)
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, core.Integrity(op, fmt.Errorf("bad date %q", row.Date))
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return core.Transaction{}, core.Integrity(op, err)
	}
	recordedAt, err := time.Parse(time.RFC3339Nano, row.RecordedAt)
	if err != nil {
		return core.Transaction{}, core.Integrity(op, err)
	}
	return core.Transaction{
		ID:            row.ID,
		Date:          date,
		DebitAccount:  core.AccountCode(row.DebitCode),
		CreditAccount: core.AccountCode(row.CreditCode),
		Amount:        amount,
		Description:   row.Description,
		Category:      row.Category,
		ExternalRef:   row.Ref,
		Owner:         row.Owner,
		RecordedAt:    recordedAt,
	}, nil
}
