package webhook

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductUpdate(t *testing.T) {
	p, err := ParseProductUpdate([]byte(`{"id":1,"admin_graphql_api_id":"gid://shopify/Product/1","title":"Widget",
		"variants":[{"id":11,"admin_graphql_api_id":"gid://shopify/ProductVariant/11","title":"Default","price":"10.00","sku":"W1"}]}`))

	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Product/1", p.ID)
	assert.Equal(t, "Widget", p.Title)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "gid://shopify/ProductVariant/11", p.Variants[0].ID)
	assert.True(t, decimal.RequireFromString("10").Equal(p.Variants[0].Price))
	assert.Equal(t, "W1", p.Variants[0].SKU)
}

func TestParseProductUpdate_Rejects(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":       `{`,
		"missing id":     `{"title":"x","variants":[]}`,
		"bad price":      `{"admin_graphql_api_id":"gid://shopify/Product/1","variants":[{"admin_graphql_api_id":"gid://shopify/ProductVariant/1","price":"ten"}]}`,
		"negative price": `{"admin_graphql_api_id":"gid://shopify/Product/1","variants":[{"admin_graphql_api_id":"gid://shopify/ProductVariant/1","price":"-3.00"}]}`,
		"variant no id":  `{"admin_graphql_api_id":"gid://shopify/Product/1","variants":[{"title":"a","price":"5.00"},{"title":"b","price":"9.00"}]}`,
	} {
		_, err := ParseProductUpdate([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidPayload, name)
	}
}

func TestParseProductUpdate_ZeroPriceIsAccepted(t *testing.T) {
	p, err := ParseProductUpdate([]byte(`{"admin_graphql_api_id":"gid://shopify/Product/1",
		"variants":[{"admin_graphql_api_id":"gid://shopify/ProductVariant/1","price":"0.00"}]}`))

	require.NoError(t, err)
	assert.True(t, p.Variants[0].Price.IsZero())
}
