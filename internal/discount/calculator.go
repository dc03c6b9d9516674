package discount

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shopify-facade/internal/apperr"
	"github.com/ariefcatur/go-shopify-facade/internal/shopify"
)

const DefaultID = "1852230926666"

var (
	ErrInvalidStructure  = apperr.New(apperr.KindClient, "invalid_structure", "Invalid discount data structure")
	ErrNoVariants        = apperr.New(apperr.KindNotFound, "no_variants", "No product variants found for this discount")
	ErrInvalidPercentage = apperr.New(apperr.KindClient, "invalid_percentage", "Invalid discount percentage")
	ErrInvalidPrice      = apperr.New(apperr.KindClient, "invalid_price", "Invalid product price")
	ErrCalculation       = apperr.New(apperr.KindUnexpected, "calculation_failure", "Error calculating discount")
	ErrInvalidID         = apperr.New(apperr.KindClient, "invalid_discount_id", "Invalid discount ID format. Must be a numeric ID or full Shopify ID.")
)

var (
	numericID = regexp.MustCompile(`^\d+$`)
	hundred   = decimal.NewFromInt(100)
	one       = decimal.NewFromInt(1)
)

// Result is the discounted price of one product variant.
type Result struct {
	ProductID          string  `json:"productId"`
	ProductTitle       string  `json:"productTitle"`
	ProductHandle      string  `json:"productHandle"`
	OriginalPrice      float64 `json:"originalPrice"`
	DiscountedPrice    string  `json:"discountedPrice"`
	DiscountPercentage string  `json:"discountPercentage"`
}

// FormatID turns a numeric id or a full global id into a DiscountAutomaticNode gid.
func FormatID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return shopify.DiscountAutomaticNodePrefix + DefaultID, nil
	}
	if strings.HasPrefix(raw, shopify.DiscountAutomaticNodePrefix) {
		return raw, nil
	}
	if !numericID.MatchString(raw) {
		return "", ErrInvalidID
	}
	return shopify.DiscountAutomaticNodePrefix + raw, nil
}

// Calculate validates a discount node and prices every variant it applies to.
// Prices round up to the next cent.
func Calculate(data *NodeData) (out []Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, ErrCalculation.WithCause(fmt.Errorf("panic: %v", r))
		}
	}()

	gets := data.customerGets()
	if gets == nil {
		return nil, ErrInvalidStructure
	}

	edges := gets.variantEdges()
	if len(edges) == 0 {
		return nil, ErrNoVariants
	}

	pct, ok := parsePercentage(gets.Value)
	if !ok {
		return nil, ErrInvalidPercentage
	}
	factor := one.Sub(pct)
	label := pct.Mul(hundred).String() + "%"

	out = make([]Result, 0, len(edges))
	for _, e := range edges {
		v := e.Node
		price, err := decimal.NewFromString(strings.TrimSpace(v.Price))
		if err != nil || price.IsNegative() {
			return nil, ErrInvalidPrice
		}

		discounted := price.Mul(factor).Mul(hundred).Ceil().Div(hundred)

		out = append(out, Result{
			ProductID:          shopify.LastSegment(v.ID),
			ProductTitle:       v.Product.Title,
			ProductHandle:      v.Product.Handle,
			OriginalPrice:      price.InexactFloat64(),
			DiscountedPrice:    discounted.StringFixed(2),
			DiscountPercentage: label,
		})
	}
	return out, nil
}

// parsePercentage accepts only a JSON number in [0, 1].
func parsePercentage(v *Value) (decimal.Decimal, bool) {
	if v == nil || len(v.Percentage) == 0 || string(v.Percentage) == "null" {
		return decimal.Zero, false
	}
	var f float64
	if err := json.Unmarshal(v.Percentage, &f); err != nil {
		return decimal.Zero, false
	}
	p := decimal.NewFromFloat(f)
	if p.IsNegative() || p.GreaterThan(one) {
		return decimal.Zero, false
	}
	return p, true
}
