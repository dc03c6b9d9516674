package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/config"
	"github.com/ariefcatur/go-shopify-facade/internal/discount"
	"github.com/ariefcatur/go-shopify-facade/internal/httpx"
	kafkax "github.com/ariefcatur/go-shopify-facade/internal/kafka"
	"github.com/ariefcatur/go-shopify-facade/internal/logging"
	"github.com/ariefcatur/go-shopify-facade/internal/notify"
	"github.com/ariefcatur/go-shopify-facade/internal/orders"
	"github.com/ariefcatur/go-shopify-facade/internal/ratelimit"
	"github.com/ariefcatur/go-shopify-facade/internal/redisx"
	"github.com/ariefcatur/go-shopify-facade/internal/shopify"
	"github.com/ariefcatur/go-shopify-facade/internal/snapshot"
	"github.com/ariefcatur/go-shopify-facade/internal/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logging.New(cfg.LogLevel, cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := shopify.New(shopify.Config{
		Domain:     cfg.ShopifyDomain,
		Token:      cfg.ShopifyToken,
		APIVersion: cfg.ShopifyAPIVersion,
		Timeout:    cfg.ShopifyTimeout,
	}, log)
	if !cfg.ShopifyConfigured() {
		log.Warn("Shopify credentials not configured, platform calls will fail")
	}

	// Notifier
	var (
		notifier notify.Notifier
		prod     *kafkax.Producer
	)
	switch cfg.NotifyMode {
	case "kafka":
		prod = kafkax.NewProducer(cfg.KafkaBrokers, cfg.KafkaPriceTopic, 1024, log)
		prod.Start(ctx)
		notifier = notify.NewEventNotifier(prod, cfg.ServiceName, log)
	default:
		notifier = notify.NewEmailNotifier(notify.EmailConfig{
			APIKey:  cfg.SendGridAPIKey,
			From:    cfg.AlertFrom,
			To:      cfg.AlertTo,
			BaseURL: cfg.SendGridBaseURL,
		}, log)
	}

	// Snapshot store
	backend, err := snapshot.NewBackend(ctx, snapshot.FactoryConfig{
		Backend:     cfg.SnapshotBackend,
		FilePath:    cfg.SnapshotFile,
		PostgresDSN: cfg.PostgresDSN,
		RedisAddr:   cfg.RedisAddr,
	})
	if err != nil {
		log.WithError(err).Fatal("snapshot backend")
	}
	defer backend.Close()

	store := snapshot.NewStore(backend.Backend, api, notifier, log,
		snapshot.WithThreshold(decimal.NewFromFloat(cfg.PriceDropThreshold)))
	if cfg.ShopifyConfigured() {
		initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
		if err := store.Initialize(initCtx); err != nil {
			log.WithError(err).Error("initial product snapshot failed")
		}
		initCancel()
	}

	// Redis is optional: without it webhook dedup is off and rate limiting is per process.
	var (
		rdb     *redis.Client
		dedup   webhook.Deduper
		limiter ratelimit.Limiter
	)
	limits := ratelimit.Config{Limit: cfg.RateLimit, Window: cfg.RateWindow}
	if cfg.RedisAddr != "" {
		rdb, err = redisx.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, falling back to in-process limits")
		}
	}
	if rdb != nil {
		defer rdb.Close()
		dedup = redisx.NewWebhookDeduper(rdb)
		limiter = ratelimit.NewRedisLimiter(rdb, limits)
	} else {
		limiter = ratelimit.NewMemoryLimiter(limits)
	}

	router := httpx.NewRouter(log, limiter)
	(&httpx.DiscountsHandler{Service: discount.NewService(api, log), Log: log}).Register(router)
	(&httpx.OrdersHandler{Lookup: orders.NewLookup(api, log), Log: log}).Register(router)
	(&httpx.WebhookHandler{
		Verifier:  webhook.NewVerifier(cfg.WebhookSecret),
		Snapshots: store,
		Dedup:     dedup,
		Log:       log,
	}).Register(router)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr()).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // flush buffered alerts before the writer closes
		prod.WaitClosed()
	}
	cancel()
}
