package redisx

import "time"

const (
	// Webhook dedup: webhook:seen:{X-Shopify-Webhook-Id}
	KeyWebhookSeen = "webhook:seen:%s"

	// Alert dedup: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Fixed-window rate limit counter: ratelimit:{client}:{window_start_unix}
	KeyRateLimit = "ratelimit:%s:%d"

	// Whole snapshot document when SNAPSHOT_BACKEND=redis
	KeySnapshot = "snapshot:products"
)

var (
	TTLWebhookSeen = 48 * time.Hour
	TTLDedup       = 48 * time.Hour
)
