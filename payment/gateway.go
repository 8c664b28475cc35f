// Package payment abstracts the payment provider behind a small gateway
// contract: create an intent for an order amount, retrieve it later to check
// settlement.
package payment

import "context"

// Intent statuses the order flow cares about. Providers report more, but only
// a settled intent flips an order to paid.
const IntentStatusSucceeded = "succeeded"

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Metadata tags an intent so provider dashboards and webhooks can be traced
// back to the order.
type Metadata struct {
	UserID  uint
	OrderID uint
}

type Gateway interface {
	// CreateIntent registers a charge attempt for amountMinor (smallest
	// currency unit). idempotencyKey must be fresh per logical attempt so the
	// provider deduplicates network retries without deduplicating orders.
	CreateIntent(ctx context.Context, amountMinor int64, currency string, meta Metadata, idempotencyKey string) (*Intent, error)

	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
