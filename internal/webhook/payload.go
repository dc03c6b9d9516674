package webhook

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shopify-facade/internal/apperr"
	"github.com/ariefcatur/go-shopify-facade/internal/snapshot"
)

var ErrInvalidPayload = apperr.New(apperr.KindClient, "invalid_webhook_payload", "Invalid webhook payload")

// productUpdate is the REST-shaped body of a products/update delivery.
type productUpdate struct {
	AdminGraphqlAPIID string `json:"admin_graphql_api_id"`
	Title             string `json:"title"`
	Variants          []struct {
		AdminGraphqlAPIID string `json:"admin_graphql_api_id"`
		Title             string `json:"title"`
		Price             string `json:"price"`
		SKU               string `json:"sku"`
	} `json:"variants"`
}

// ParseProductUpdate turns a products/update body into a snapshot record keyed by global ids.
func ParseProductUpdate(body []byte) (snapshot.Product, error) {
	var pu productUpdate
	if err := json.Unmarshal(body, &pu); err != nil {
		return snapshot.Product{}, ErrInvalidPayload.WithCause(err)
	}
	if strings.TrimSpace(pu.AdminGraphqlAPIID) == "" {
		return snapshot.Product{}, ErrInvalidPayload
	}

	p := snapshot.Product{
		ID:       pu.AdminGraphqlAPIID,
		Title:    pu.Title,
		Variants: make([]snapshot.Variant, 0, len(pu.Variants)),
	}
	for _, v := range pu.Variants {
		// variants are matched by id when prices are compared
		if strings.TrimSpace(v.AdminGraphqlAPIID) == "" {
			return snapshot.Product{}, ErrInvalidPayload
		}
		price, err := decimal.NewFromString(strings.TrimSpace(v.Price))
		if err != nil {
			return snapshot.Product{}, ErrInvalidPayload.WithCause(err)
		}
		if price.IsNegative() {
			return snapshot.Product{}, ErrInvalidPayload
		}
		p.Variants = append(p.Variants, snapshot.Variant{
			ID:    v.AdminGraphqlAPIID,
			Title: v.Title,
			Price: price,
			SKU:   v.SKU,
		})
	}
	return p, nil
}
