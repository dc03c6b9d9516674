package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_MissingFileIsEmpty(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "data", "products.json"))

	got, err := b.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFileBackend_SaveCreatesDirAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "products.json")
	b := NewFileBackend(path)
	in := []Product{{
		ID:    "gid://shopify/Product/1",
		Title: "Widget",
		Variants: []Variant{
			{ID: "gid://shopify/ProductVariant/11", Title: "Default", Price: decimal.RequireFromString("10.50"), SKU: "W1"},
		},
	}}

	require.NoError(t, b.Save(context.Background(), in))
	got, err := b.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, in[0].ID, got[0].ID)
	assert.True(t, in[0].Variants[0].Price.Equal(got[0].Variants[0].Price))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestFileBackend_ReadsNumericPrices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"p","title":"t","variants":[{"id":"v","title":"d","price":19.99,"sku":""}]}]`), 0o644))

	got, err := NewFileBackend(path).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "19.99", got[0].Variants[0].Price.String())
}

func TestFileBackend_CorruptFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := NewFileBackend(path).Load(context.Background())

	assert.Error(t, err)
}
