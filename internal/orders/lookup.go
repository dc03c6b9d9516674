package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/apperr"
	"github.com/ariefcatur/go-shopify-facade/internal/shopify"
)

const (
	DefaultDays = 30
	MinDays     = 1
	MaxDays     = 365
)

var (
	ErrProductIDRequired = apperr.New(apperr.KindClient, "product_id_required", "Product ID is required")
	ErrInvalidRange      = apperr.New(apperr.KindClient, "invalid_range", "Days must be between 1 and 365")
	ErrProductNotFound   = apperr.New(apperr.KindNotFound, "product_not_found", "Product not found")
	ErrNoOrdersFound     = apperr.New(apperr.KindNotFound, "no_orders_found", "No orders found for this product in the specified time period")
)

type Lookup struct {
	api shopify.Querier
	log logrus.FieldLogger
	now func() time.Time
}

func NewLookup(api shopify.Querier, log logrus.FieldLogger) *Lookup {
	return &Lookup{api: api, log: log, now: time.Now}
}

// Cutoff is the earliest creation time included for a lookback of days: the
// start of the UTC day that lies days days before now.
func (l *Lookup) Cutoff(days int) time.Time {
	return l.now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)
}

// PastOrders returns orders created in the last days days that contain productID.
func (l *Lookup) PastOrders(ctx context.Context, productID string, days int) ([]Summary, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrProductIDRequired
	}
	if days < MinDays || days > MaxDays {
		return nil, ErrInvalidRange
	}

	var pd productData
	if err := l.api.Query(ctx, productQuery, map[string]any{"id": shopify.ProductGID(productID)}, &pd); err != nil {
		return nil, err
	}
	if pd.Product == nil {
		return nil, ErrProductNotFound
	}

	cutoff := l.Cutoff(days)
	search := fmt.Sprintf("created_at:>='%s' product_id:%s", cutoff.Format(time.DateOnly), productID)

	var od ordersData
	if err := l.api.Query(ctx, ordersQuery, map[string]any{"query": search}, &od); err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(od.Orders.Edges))
	for _, e := range od.Orders.Edges {
		if created, err := time.Parse(time.RFC3339, e.Node.CreatedAt); err == nil && created.Before(cutoff) {
			continue
		}
		out = append(out, project(e.Node, productID))
	}
	if len(out) == 0 {
		return nil, ErrNoOrdersFound
	}

	l.log.WithFields(logrus.Fields{
		"product_id": productID,
		"days":       days,
		"orders":     len(out),
	}).Info("past orders fetched")
	return out, nil
}

func project(n orderNode, productID string) Summary {
	s := Summary{
		OrderID:     shopify.LastSegment(n.ID),
		OrderNumber: n.Name,
		CreatedAt:   n.CreatedAt,
	}

	if n.Customer != nil {
		first, last := deref(n.Customer.FirstName), deref(n.Customer.LastName)
		s.Customer = &Customer{
			FirstName: first,
			LastName:  last,
			FullName:  strings.TrimSpace(first + " " + last),
		}
	}

	for _, li := range n.LineItems.Edges {
		p := li.Node.Product
		if p == nil || shopify.LastSegment(p.ID) != productID {
			continue
		}
		s.Product = &LineProduct{
			ID:       shopify.LastSegment(p.ID),
			Title:    p.Title,
			Quantity: li.Node.Quantity,
		}
		break
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
