package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTPAddr())
	assert.Equal(t, "2024-01", cfg.ShopifyAPIVersion)
	assert.Equal(t, 10*time.Second, cfg.ShopifyTimeout)
	assert.Equal(t, "file", cfg.SnapshotBackend)
	assert.Equal(t, "data/products.json", cfg.SnapshotFile)
	assert.Equal(t, "email", cfg.NotifyMode)
	assert.InDelta(t, 0.20, cfg.PriceDropThreshold, 1e-9)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.False(t, cfg.ShopifyConfigured())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SHOPIFY_DOMAIN", "demo.myshopify.com")
	t.Setenv("SHOPIFY_ADMIN_API_TOKEN", "shpat_x")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("NOTIFY_MODE", "Kafka")
	t.Setenv("SHOPIFY_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.True(t, cfg.ShopifyConfigured())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "kafka", cfg.NotifyMode)
	assert.Equal(t, 3*time.Second, cfg.ShopifyTimeout)
}

func TestLoad_KafkaModeNeedsBrokers(t *testing.T) {
	t.Setenv("NOTIFY_MODE", "kafka")
	t.Setenv("KAFKA_BROKERS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadThreshold(t *testing.T) {
	t.Setenv("PRICE_DROP_THRESHOLD", "1.5")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownNotifyMode(t *testing.T) {
	t.Setenv("NOTIFY_MODE", "sms")

	_, err := Load()
	assert.Error(t, err)
}
