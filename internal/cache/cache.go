package cache

import "context"

// EventLedger remembers which payment webhook events were already handled so
// redeliveries do not submit the same fulfillment order twice.
type EventLedger interface {
	// Claim records eventID and reports whether this caller is the first.
	Claim(ctx context.Context, eventID string) (bool, error)
	// Release forgets eventID so a later redelivery can be processed again.
	Release(ctx context.Context, eventID string) error
}

// NopLedger claims every event. Used when no Redis is configured.
type NopLedger struct{}

func (NopLedger) Claim(context.Context, string) (bool, error) { return true, nil }

func (NopLedger) Release(context.Context, string) error { return nil }
