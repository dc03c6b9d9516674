package discount

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ariefcatur/go-shopify-facade/internal/shopify"
)

const lookupTimeout = 12 * time.Second

// Service fetches a discount node from Shopify and prices its variants.
type Service struct {
	api   shopify.Querier
	log   logrus.FieldLogger
	group singleflight.Group
}

func NewService(api shopify.Querier, log logrus.FieldLogger) *Service {
	return &Service{api: api, log: log}
}

// Discounts accepts a raw discountId query value; empty selects the default discount.
func (s *Service) Discounts(ctx context.Context, rawID string) ([]Result, error) {
	id, err := FormatID(rawID)
	if err != nil {
		return nil, err
	}

	// The shared call outlives any one caller; each caller only stops waiting on its own ctx.
	ch := s.group.DoChan(id, func() (any, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()

		var data NodeData
		if err := s.api.Query(qctx, nodeQuery, map[string]any{"id": id}, &data); err != nil {
			return nil, err
		}
		return Calculate(&data)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		s.log.WithError(res.Err).WithField("discount_id", id).Warn("discount lookup failed")
		return nil, res.Err
	}

	results, shared := res.Val.([]Result), res.Shared
	s.log.WithFields(logrus.Fields{
		"discount_id": id,
		"variants":    len(results),
		"shared":      shared,
	}).Info("discount calculated")

	if shared {
		cp := make([]Result, len(results))
		copy(cp, results)
		return cp, nil
	}
	return results, nil
}
