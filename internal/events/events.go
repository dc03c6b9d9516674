package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventPriceDropped = "PriceDropped"

	TopicPriceDropped = "product.price.dropped"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // EventPriceDropped
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // product gid
	Payload       json.RawMessage `json:"payload"`
}

// Prices are decimal strings so no precision is lost in transit.
type PriceDroppedPayload struct {
	ProductID    string `json:"product_id"`
	ProductTitle string `json:"product_title"`
	VariantID    string `json:"variant_id"`
	VariantTitle string `json:"variant_title"`
	SKU          string `json:"sku,omitempty"`
	OldPrice     string `json:"old_price"`
	NewPrice     string `json:"new_price"`
	DecreasePct  string `json:"decrease_pct"`
}

func NewEnvelope(eventType, producer, correlationID string, payload json.RawMessage) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       payload,
	}
}

// PartitionKey keeps all events of one product on the same partition.
func PartitionKey(productID string) []byte { return []byte(productID) }
