package webhook

import "context"

// Deduper records webhook ids. Seen marks id and reports whether it was
// already marked; Forget clears the mark after a failed delivery so Shopify's
// retry is processed.
type Deduper interface {
	Seen(ctx context.Context, webhookID string) (bool, error)
	Forget(ctx context.Context, webhookID string) error
}
