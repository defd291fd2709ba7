package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Account is a row of the accounts table.
type Account struct {
	Code    string
	Name    string
	Type    string
	Balance string
}

// Transaction is a row of the transactions table.
type Transaction struct {
	ID          int64
	Date        string
	DebitCode   string
	CreditCode  string
	Amount      string
	Description string
	Category    string
	Ref         string
	Owner       string
	RecordedAt  string
}

const countAccounts = `-- name: CountAccounts :one
SELECT COUNT(*) FROM accounts
`

func (q *Queries) CountAccounts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAccounts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getLedgerVersion = `-- name: GetLedgerVersion :one
SELECT version FROM ledger_version WHERE id = 1
`

func (q *Queries) GetLedgerVersion(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, getLedgerVersion)
	var version int64
	err := row.Scan(&version)
	return version, err
}

const insertAccount = `-- name: InsertAccount :exec
INSERT INTO accounts (code, name, type, balance) VALUES (?, ?, ?, ?)
`

type InsertAccountParams struct {
	Code    string
	Name    string
	Type    string
	Balance string
}

func (q *Queries) InsertAccount(ctx context.Context, arg InsertAccountParams) error {
	_, err := q.db.ExecContext(ctx, insertAccount, arg.Code, arg.Name, arg.Type, arg.Balance)
	return err
}

const getAccount = `-- name: GetAccount :one
SELECT code, name, type, balance FROM accounts WHERE code = ?
`

func (q *Queries) GetAccount(ctx context.Context, code string) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccount, code)
	var i Account
	err := row.Scan(&i.Code, &i.Name, &i.Type, &i.Balance)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT code, name, type, balance FROM accounts ORDER BY code
`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(&i.Code, &i.Name, &i.Type, &i.Balance); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateAccountBalance = `-- name: UpdateAccountBalance :execrows
UPDATE accounts SET balance = ? WHERE code = ?
`

type UpdateAccountBalanceParams struct {
	Balance string
	Code    string
}

func (q *Queries) UpdateAccountBalance(ctx context.Context, arg UpdateAccountBalanceParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateAccountBalance, arg.Balance, arg.Code)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (date, debit_code, credit_code, amount, description, category, ref, owner, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, date, debit_code, credit_code, amount, description, category, ref, owner, recorded_at
`

type CreateTransactionParams struct {
	Date        string
	DebitCode   string
	CreditCode  string
	Amount      string
	Description string
	Category    string
	Ref         string
	Owner       string
	RecordedAt  string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Date,
		arg.DebitCode,
		arg.CreditCode,
		arg.Amount,
		arg.Description,
		arg.Category,
		arg.Ref,
		arg.Owner,
		arg.RecordedAt,
	)
	var i Transaction
	err := scanTransaction(row, &i)
	return i, err
}

const getTransaction = `-- name: GetTransaction :one
SELECT id, date, debit_code, credit_code, amount, description, category, ref, owner, recorded_at
FROM transactions WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i Transaction
	err := scanTransaction(row, &i)
	return i, err
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listTransactions = `-- name: ListTransactions :many
SELECT id, date, debit_code, credit_code, amount, description, category, ref, owner, recorded_at
FROM transactions
WHERE (? = '' OR date >= ?)
  AND (? = '' OR date <= ?)
  AND (? = '' OR debit_code = ? OR credit_code = ?)
  AND (? = '' OR category = ?)
ORDER BY date DESC, id DESC
LIMIT ?
`

type ListTransactionsParams struct {
	From     string
	To       string
	Account  string
	Category string
	Limit    int64 // -1 for no limit
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions,
		arg.From, arg.From,
		arg.To, arg.To,
		arg.Account, arg.Account, arg.Account,
		arg.Category, arg.Category,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := scanTransaction(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(s scanner, i *Transaction) error {
	return s.Scan(
		&i.ID,
		&i.Date,
		&i.DebitCode,
		&i.CreditCode,
		&i.Amount,
		&i.Description,
		&i.Category,
		&i.Ref,
		&i.Owner,
		&i.RecordedAt,
	)
}
