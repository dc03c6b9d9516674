// Package notify delivers price-drop alerts.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shopify-facade/internal/apperr"
)

var ErrNotification = apperr.New(apperr.KindNotification, "notification_failure", "Failed to send notification")

type PriceChange struct {
	ProductID    string
	ProductTitle string
	VariantID    string
	VariantTitle string
	SKU          string
	OldPrice     decimal.Decimal
	NewPrice     decimal.Decimal
	DetectedAt   time.Time
}

var hundred = decimal.NewFromInt(100)

// DecreasePercent is (old-new)/old*100. It is zero when OldPrice is not positive.
func (c PriceChange) DecreasePercent() decimal.Decimal {
	if !c.OldPrice.IsPositive() {
		return decimal.Zero
	}
	return c.OldPrice.Sub(c.NewPrice).Div(c.OldPrice).Mul(hundred)
}

type Notifier interface {
	SendPriceChangeAlert(ctx context.Context, c PriceChange) error
}

// Multi sends to every notifier and joins the failures.
type Multi []Notifier

func (m Multi) SendPriceChangeAlert(ctx context.Context, c PriceChange) error {
	var errs []error
	for _, n := range m {
		if err := n.SendPriceChangeAlert(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
