package ledger

import (
	"context"

	"compta/internal/core"
	"compta/internal/log"
)

// EventPublisher is notified after a write has committed.
//
//go:generate mockgen -destination=mocks/mock_events.go -source=events.go EventPublisher
type EventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, t core.Transaction) error
	PublishTransactionReversed(ctx context.Context, t core.Transaction) error
}

// publish notifies the publisher without affecting the committed result.
func (l *Ledger) publish(ctx context.Context, op string, t core.Transaction) {
	if l.publisher == nil {
		return
	}

	var err error
	switch op {
	case log.OpRecord:
		err = l.publisher.PublishTransactionRecorded(ctx, t)
	case log.OpReverse:
		err = l.publisher.PublishTransactionReversed(ctx, t)
	default:
		return
	}
	if err != nil {
		fields := log.NewFields().WithTransaction(t).WithOperation(op).WithError(err)
		l.logger.ErrorContext(ctx, "Failed to publish ledger event", fields.ToSlice()...)
	}
}
