package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"compta/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType identifies what happened to a transaction.
type EventType string

const (
	EventTransactionRecorded EventType = "transaction.recorded"
	EventTransactionReversed EventType = "transaction.reversed"
)

// TransactionPayload is the wire form of a core.Transaction.
type TransactionPayload struct {
	ID            int64           `json:"id"`
	Date          string          `json:"date"`
	DebitAccount  string          `json:"debit_account"`
	CreditAccount string          `json:"credit_account"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	ExternalRef   string          `json:"ref,omitempty"`
	Owner         string          `json:"owner,omitempty"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// LedgerEvent is published once per committed write. MessageID is unique per
// publication so consumers can log and trace redeliveries.
type LedgerEvent struct {
	MessageID   string             `json:"message_id"`
	Type        EventType          `json:"type"`
	Transaction TransactionPayload `json:"transaction"`
	Timestamp   time.Time          `json:"timestamp"`
}

// NewLedgerEvent creates an event for t with a fresh message id
func NewLedgerEvent(typ EventType, t core.Transaction) *LedgerEvent {
	return &LedgerEvent{
		MessageID:   uuid.NewString(),
		Type:        typ,
		Transaction: PayloadFrom(t),
		Timestamp:   time.Now().UTC(),
	}
}

func PayloadFrom(t core.Transaction) TransactionPayload {
	return TransactionPayload{
		ID:            t.ID,
		Date:          t.Date.String(),
		DebitAccount:  string(t.DebitAccount),
		CreditAccount: string(t.CreditAccount),
		Amount:        t.Amount,
		Description:   t.Description,
		Category:      t.Category,
		ExternalRef:   t.ExternalRef,
		Owner:         t.Owner,
		RecordedAt:    t.RecordedAt,
	}
}

// ToCore converts the payload back into a domain transaction.
func (p TransactionPayload) ToCore() (core.Transaction, error) {
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", p.ID, err)
	}
	return core.Transaction{
		ID:            p.ID,
		Date:          date,
		DebitAccount:  core.AccountCode(p.DebitAccount),
		CreditAccount: core.AccountCode(p.CreditAccount),
		Amount:        p.Amount,
		Description:   p.Description,
		Category:      p.Category,
		ExternalRef:   p.ExternalRef,
		Owner:         p.Owner,
		RecordedAt:    p.RecordedAt,
	}, nil
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and checks an event.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Type {
	case EventTransactionRecorded, EventTransactionReversed:
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.Transaction.ID <= 0 {
		return nil, fmt.Errorf("event %s: missing transaction id", e.MessageID)
	}
	return &e, nil
}
