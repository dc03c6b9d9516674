package alerts

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/events"
	"github.com/ariefcatur/go-shopify-facade/internal/notify"
)

type Deduper interface {
	Seen(ctx context.Context, id string) (bool, error)
	Forget(ctx context.Context, id string) error
}

// Service turns PriceDropped events into email alerts.
type Service struct {
	Notifier notify.Notifier
	Dedup    Deduper // optional
	Log      logrus.FieldLogger
}

// HandlePriceDropped is the consumer handler. Malformed and foreign events are
// skipped so they are committed; a failed send is returned so it is retried.
func (s *Service) HandlePriceDropped(ctx context.Context, m kafka.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.Log.WithError(err).WithField("offset", m.Offset).Warn("skipping undecodable event")
		return nil
	}
	if env.EventType != events.EventPriceDropped {
		return nil
	}
	log := s.Log.WithFields(logrus.Fields{"event_id": env.EventID, "trace_id": env.TraceID})

	if s.Dedup != nil {
		seen, err := s.Dedup.Seen(ctx, env.EventID)
		if err != nil {
			log.WithError(err).Warn("dedup unavailable, delivering anyway")
		} else if seen {
			log.Debug("duplicate event")
			return nil
		}
	}

	change, err := notify.PriceChangeFromEvent(env)
	if err != nil {
		log.WithError(err).Warn("skipping event with bad payload")
		return nil
	}

	if err := s.Notifier.SendPriceChangeAlert(ctx, change); err != nil {
		if s.Dedup != nil {
			if ferr := s.Dedup.Forget(ctx, env.EventID); ferr != nil {
				log.WithError(ferr).Warn("dedup forget failed")
			}
		}
		return err
	}
	log.WithField("product", change.ProductID).Info("price alert delivered")
	return nil
}
