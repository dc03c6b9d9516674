package notify

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/events"
	kafkax "github.com/ariefcatur/go-shopify-facade/internal/kafka"
)

type Publisher interface {
	Publish(key, value []byte, headers ...kafka.Header) error
}

// EventNotifier hands alerts to cmd/alerter as PriceDropped events.
type EventNotifier struct {
	pub     Publisher
	service string
	log     logrus.FieldLogger
}

func NewEventNotifier(pub Publisher, service string, log logrus.FieldLogger) *EventNotifier {
	return &EventNotifier{pub: pub, service: service, log: log}
}

func (n *EventNotifier) SendPriceChangeAlert(ctx context.Context, c PriceChange) error {
	env := events.NewEnvelope(events.EventPriceDropped, n.service, c.ProductID, kafkax.MustMarshal(events.PriceDroppedPayload{
		ProductID:    c.ProductID,
		ProductTitle: c.ProductTitle,
		VariantID:    c.VariantID,
		VariantTitle: c.VariantTitle,
		SKU:          c.SKU,
		OldPrice:     c.OldPrice.String(),
		NewPrice:     c.NewPrice.String(),
		DecreasePct:  c.DecreasePercent().StringFixed(1),
	}))
	if !c.DetectedAt.IsZero() {
		env.OccurredAt = c.DetectedAt.UTC()
	}
	if rid, ok := ctx.Value(traceKey{}).(string); ok {
		env.TraceID = rid
	}

	err := n.pub.Publish(events.PartitionKey(c.ProductID), kafkax.MustMarshal(env),
		kafkax.EventHeaders(events.EventPriceDropped, env.EventVersion)...)
	if err != nil {
		return ErrNotification.WithCause(err)
	}
	n.log.WithFields(logrus.Fields{
		"event_id": env.EventID,
		"product":  c.ProductID,
		"variant":  c.VariantID,
	}).Info("price drop event published")
	return nil
}

type traceKey struct{}

// WithTraceID attaches a request id that EventNotifier copies into the envelope.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// PriceChangeFromEvent rebuilds a PriceChange from a PriceDropped envelope.
func PriceChangeFromEvent(env events.Envelope) (PriceChange, error) {
	p, err := kafkax.UnwrapPayload[events.PriceDroppedPayload](env.Payload)
	if err != nil {
		return PriceChange{}, err
	}
	oldPrice, err := decimal.NewFromString(p.OldPrice)
	if err != nil {
		return PriceChange{}, err
	}
	newPrice, err := decimal.NewFromString(p.NewPrice)
	if err != nil {
		return PriceChange{}, err
	}
	return PriceChange{
		ProductID:    p.ProductID,
		ProductTitle: p.ProductTitle,
		VariantID:    p.VariantID,
		VariantTitle: p.VariantTitle,
		SKU:          p.SKU,
		OldPrice:     oldPrice,
		NewPrice:     newPrice,
		DetectedAt:   env.OccurredAt,
	}, nil
}
