package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"compta/internal/core"
	"compta/internal/log"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{64, 30 * time.Second}, // no overflow
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"closed connection", errors.New("connection closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"amqp closed", fmt.Errorf("publish: %w", amqp091.ErrClosed), true},
		{"other error", errors.New("some other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

// unreachableClient fails every dial without touching the network.
func unreachableClient(timeout time.Duration) *Client {
	logger := log.Discard()
	return &Client{
		exchangeName: "test_exchange",
		queueName:    "test_queue",
		logger:       logger,
		breaker:      newBreaker(logger, timeout),
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := unreachableClient(50 * time.Millisecond)
	tr := sampleTransaction()

	if got := client.breaker.State(); got != gobreaker.StateClosed {
		t.Fatalf("initial state = %v, want closed", got)
	}

	for i := 0; i < maxFailures; i++ {
		err := client.PublishTransactionRecorded(context.Background(), tr)
		if err == nil || errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("publish %d: expected dial error, got %v", i, err)
		}
	}
	if got := client.breaker.State(); got != gobreaker.StateOpen {
		t.Fatalf("state after %d failures = %v, want open", maxFailures, got)
	}

	err := client.PublishTransactionRecorded(context.Background(), tr)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	time.Sleep(80 * time.Millisecond)
	if got := client.breaker.State(); got != gobreaker.StateHalfOpen {
		t.Fatalf("state after timeout = %v, want half-open", got)
	}

	// The trial publish fails and opens the circuit again.
	err = client.PublishTransactionReversed(context.Background(), tr)
	if err == nil || errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected dial error on trial publish, got %v", err)
	}
	if got := client.breaker.State(); got != gobreaker.StateOpen {
		t.Fatalf("state after failed trial = %v, want open", got)
	}
}

func TestClient_PublishCancelledContext(t *testing.T) {
	client := unreachableClient(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.PublishTransactionReversed(ctx, sampleTransaction()); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if counts := client.breaker.Counts(); counts.Requests != 0 {
		t.Errorf("cancelled publish reached the breaker: %+v", counts)
	}
}

type fakeAck struct {
	acked, nacked, requeued int
}

func (f *fakeAck) Ack(uint64, bool) error { f.acked++; return nil }
func (f *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked++
	if requeue {
		f.requeued++
	}
	return nil
}
func (f *fakeAck) Reject(uint64, bool) error { return nil }

func TestHandleDelivery(t *testing.T) {
	client := &Client{queueName: "q", logger: log.Discard()}
	body, err := NewLedgerEvent(EventTransactionRecorded, sampleTransaction()).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	tests := []struct {
		name        string
		body        []byte
		redelivered bool
		handlerErr  error
		wantAck     int
		wantNack    int
		wantRequeu  int
	}{
		{"success", body, false, nil, 1, 0, 0},
		{"first handler failure requeues", body, false, errors.New("sheets down"), 0, 1, 1},
		{"redelivered handler failure is dropped", body, true, errors.New("sheets down"), 0, 1, 0},
		{"poison message dropped", []byte(`{"type":"nope"}`), false, nil, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			var got *LedgerEvent
			client.handleDelivery(context.Background(), amqp091.Delivery{Acknowledger: ack, Body: tt.body, Redelivered: tt.redelivered},
				func(_ context.Context, ev *LedgerEvent) error {
					got = ev
					return tt.handlerErr
				})
			if ack.acked != tt.wantAck || ack.nacked != tt.wantNack || ack.requeued != tt.wantRequeu {
				t.Fatalf("ack=%d nack=%d requeue=%d", ack.acked, ack.nacked, ack.requeued)
			}
			if tt.wantAck == 1 && got.Transaction.ID != 7 {
				t.Fatalf("unexpected event: %+v", got)
			}
		})
	}
}

func sampleTransaction() core.Transaction {
	return core.Transaction{
		ID:            7,
		Date:          core.NewDate(2024, 1, 10),
		DebitAccount:  core.Invest,
		CreditAccount: core.Recettes,
		Amount:        decimal.RequireFromString("1000.25"),
		Description:   "apport",
		Category:      "Investissement",
		RecordedAt:    time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestLedgerEventJSON(t *testing.T) {
	ev := NewLedgerEvent(EventTransactionReversed, sampleTransaction())
	if ev.MessageID == "" || ev.Timestamp.IsZero() {
		t.Fatalf("event missing id or timestamp: %+v", ev)
	}

	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"type":"transaction.reversed"`) {
		t.Fatalf("unexpected json: %s", data)
	}

	parsed, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON() error = %v", err)
	}
	tr, err := parsed.Transaction.ToCore()
	if err != nil {
		t.Fatalf("ToCore() error = %v", err)
	}
	if tr.ID != 7 || tr.Date.String() != "2024-01-10" || !tr.Amount.Equal(decimal.RequireFromString("1000.25")) {
		t.Fatalf("round trip mismatch: %+v", tr)
	}
	if tr.DebitAccount != core.Invest || !tr.RecordedAt.Equal(sampleTransaction().RecordedAt) {
		t.Fatalf("round trip mismatch: %+v", tr)
	}
}

func TestLedgerEventFromJSONRejects(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"type":"transaction.deleted","transaction":{"id":1}}`,
		`{"type":"transaction.recorded","transaction":{"id":0}}`,
	} {
		if _, err := LedgerEventFromJSON([]byte(body)); err == nil {
			t.Errorf("expected error for %s", body)
		}
	}
}
