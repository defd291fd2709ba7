package ledger

import (
	"context"
	"time"
)

// SetClock replaces the time and sleep functions used by the ledger.
func (l *Ledger) SetClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) {
	if now != nil {
		l.now = now
	}
	if sleep != nil {
		l.sleep = sleep
	}
}
