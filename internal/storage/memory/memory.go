// Package memory provides an in-process ledger.Store. Each Update works on
// a private copy of the state that replaces the live state only on success.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"compta/internal/core"
	"compta/internal/ledger"

	"github.com/shopspring/decimal"
)

// Fault points passed to the hook installed with SetFault.
const (
	FaultAppend     = "append"
	FaultDelete     = "delete"
	FaultApplyDelta = "apply_delta"
	FaultCommit     = "commit"
)

var (
	ErrClosed   = errors.New("memory store closed")
	errReadOnly = errors.New("write in read-only view")
)

type state struct {
	accounts map[core.AccountCode]core.Account
	txs      map[int64]core.Transaction
	lastID   int64
	version  int64
}

func (s state) clone() state {
	out := state{
		accounts: make(map[core.AccountCode]core.Account, len(s.accounts)),
		txs:      make(map[int64]core.Transaction, len(s.txs)),
		lastID:   s.lastID,
		version:  s.version,
	}
	for k, v := range s.accounts {
		out.accounts[k] = v
	}
	for k, v := range s.txs {
		out.txs[k] = v
	}
	return out
}

// Store is a copy-on-write ledger.Store.
type Store struct {
	mu     sync.RWMutex
	st     state
	closed bool
	fault  func(point string) error
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: state{
		accounts: make(map[core.AccountCode]core.Account),
		txs:      make(map[int64]core.Transaction),
	}}
}

// SetFault installs a hook consulted at each fault point of an Update.
// A non-nil error from the hook aborts the unit at that point.
func (s *Store) SetFault(fn func(point string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

func (s *Store) Update(ctx context.Context, fn func(tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Integrity("update", ErrClosed)
	}

	work := &txn{st: s.st.clone(), fault: s.fault}
	if err := fn(work); err != nil {
		return err
	}
	if err := work.check(FaultCommit); err != nil {
		return err
	}
	work.st.version++
	s.st = work.st
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return core.Integrity("view", ErrClosed)
	}
	return fn(&txn{st: s.st, readOnly: true})
}

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// txn implements ledger.Tx, ledger.AccountRegistry and ledger.LedgerStore
// over one state value.
type txn struct {
	st       state
	readOnly bool
	fault    func(point string) error
}

func (t *txn) Accounts() ledger.AccountRegistry { return t }
func (t *txn) Transactions() ledger.LedgerStore { return t }

// Version counts committed units.
func (t *txn) Version(context.Context) (int64, error) {
	return t.st.version, nil
}

func (t *txn) check(point string) error {
	if t.fault == nil {
		return nil
	}
	return t.fault(point)
}

func (t *txn) writable(op string) error {
	if t.readOnly {
		return core.Integrity(op, errReadOnly)
	}
	return nil
}

func (t *txn) Initialize(_ context.Context, seed []core.Account) error {
	if err := t.writable("initialize"); err != nil {
		return err
	}
	if len(t.st.accounts) > 0 {
		return nil
	}
	for _, a := range seed {
		if a.Balance.IsZero() {
			a.Balance = decimal.Zero
		}
		t.st.accounts[a.Code] = a
	}
	return nil
}

func (t *txn) GetAccount(_ context.Context, code core.AccountCode) (core.Account, error) {
	a, ok := t.st.accounts[code]
	if !ok {
		return core.Account{}, core.ErrAccountNotFound
	}
	return a, nil
}

func (t *txn) ApplyDelta(_ context.Context, code core.AccountCode, delta decimal.Decimal) error {
	if err := t.writable("apply delta"); err != nil {
		return err
	}
	if err := t.check(FaultApplyDelta); err != nil {
		return err
	}
	a, ok := t.st.accounts[code]
	if !ok {
		return core.ErrAccountNotFound
	}
	a.Balance = a.Balance.Add(delta)
	t.st.accounts[code] = a
	return nil
}

func (t *txn) ListAccounts(context.Context) ([]core.Account, error) {
	out := make([]core.Account, 0, len(t.st.accounts))
	for _, a := range t.st.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (t *txn) Append(_ context.Context, d core.TransactionDraft) (core.Transaction, error) {
	if err := t.writable("append"); err != nil {
		return core.Transaction{}, err
	}
	if err := t.check(FaultAppend); err != nil {
		return core.Transaction{}, err
	}
	t.st.lastID++
	tr := core.Transaction{
		ID:            t.st.lastID,
		Date:          d.Date,
		DebitAccount:  d.DebitAccount,
		CreditAccount: d.CreditAccount,
		Amount:        d.Amount,
		Description:   d.Description,
		Category:      d.Category,
		ExternalRef:   d.ExternalRef,
		Owner:         d.Owner,
		RecordedAt:    d.RecordedAt,
	}
	t.st.txs[tr.ID] = tr
	return tr, nil
}

func (t *txn) Get(_ context.Context, id int64) (core.Transaction, error) {
	tr, ok := t.st.txs[id]
	if !ok {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return tr, nil
}

func (t *txn) List(_ context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(t.st.txs))
	for _, tr := range t.st.txs {
		if f.Matches(tr) {
			out = append(out, tr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return core.Less(out[i], out[j]) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (t *txn) Delete(_ context.Context, id int64) (core.Transaction, error) {
	if err := t.writable("delete"); err != nil {
		return core.Transaction{}, err
	}
	if err := t.check(FaultDelete); err != nil {
		return core.Transaction{}, err
	}
	tr, ok := t.st.txs[id]
	if !ok {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	delete(t.st.txs, id)
	return tr, nil
}
