package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"3000"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"shopify-facade"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	ShopifyDomain     string        `envconfig:"SHOPIFY_DOMAIN"`
	ShopifyToken      string        `envconfig:"SHOPIFY_ADMIN_API_TOKEN"`
	ShopifyAPIVersion string        `envconfig:"SHOPIFY_API_VERSION" default:"2024-01"`
	ShopifyTimeout    time.Duration `envconfig:"SHOPIFY_TIMEOUT" default:"10s"`
	WebhookSecret     string        `envconfig:"SHOPIFY_WEBHOOK_SECRET"`

	SendGridAPIKey  string `envconfig:"SENDGRID_API_KEY"`
	SendGridBaseURL string `envconfig:"SENDGRID_BASE_URL" default:"https://api.sendgrid.com"`
	AlertTo         string `envconfig:"NOTIFICATION_EMAIL"`
	AlertFrom       string `envconfig:"NOTIFICATION_EMAIL_FROM"`

	// email sends directly from the API, kafka publishes events for cmd/alerter
	NotifyMode         string  `envconfig:"NOTIFY_MODE" default:"email"`
	PriceDropThreshold float64 `envconfig:"PRICE_DROP_THRESHOLD" default:"0.20"`

	SnapshotBackend string `envconfig:"SNAPSHOT_BACKEND" default:"file"`
	SnapshotFile    string `envconfig:"SNAPSHOT_FILE" default:"data/products.json"`
	PostgresDSN     string `envconfig:"POSTGRES_DSN"`
	RedisAddr       string `envconfig:"REDIS_ADDR"`

	KafkaBrokers    []string `envconfig:"KAFKA_BROKERS"`
	KafkaPriceTopic string   `envconfig:"KAFKA_PRICE_TOPIC" default:"product.price.dropped"`
	AlerterGroup    string   `envconfig:"ALERTER_GROUP" default:"price-alerter"`
	AlerterWorkers  int      `envconfig:"ALERTER_WORKERS" default:"4"`

	RateLimit  int           `envconfig:"RATE_LIMIT" default:"100"`
	RateWindow time.Duration `envconfig:"RATE_WINDOW" default:"1m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	cfg.KafkaBrokers = trimAll(cfg.KafkaBrokers)
	cfg.NotifyMode = strings.ToLower(strings.TrimSpace(cfg.NotifyMode))
	if cfg.NotifyMode != "email" && cfg.NotifyMode != "kafka" {
		return Config{}, errors.Errorf("unknown NOTIFY_MODE %q (use email or kafka)", cfg.NotifyMode)
	}
	if cfg.NotifyMode == "kafka" && len(cfg.KafkaBrokers) == 0 {
		return Config{}, errors.New("KAFKA_BROKERS is required when NOTIFY_MODE=kafka")
	}
	if cfg.PriceDropThreshold < 0 || cfg.PriceDropThreshold >= 1 {
		return Config{}, errors.Errorf("PRICE_DROP_THRESHOLD must be in [0,1), got %v", cfg.PriceDropThreshold)
	}
	return cfg, nil
}

func (c Config) HTTPAddr() string { return ":" + c.Port }

func (c Config) ShopifyConfigured() bool {
	return c.ShopifyDomain != "" && c.ShopifyToken != ""
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
