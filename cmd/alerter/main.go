package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/alerts"
	"github.com/ariefcatur/go-shopify-facade/internal/config"
	kafkax "github.com/ariefcatur/go-shopify-facade/internal/kafka"
	"github.com/ariefcatur/go-shopify-facade/internal/logging"
	"github.com/ariefcatur/go-shopify-facade/internal/notify"
	"github.com/ariefcatur/go-shopify-facade/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logging.New(cfg.LogLevel, cfg.ServiceName+"-alerter")
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &alerts.Service{
		Notifier: notify.NewEmailNotifier(notify.EmailConfig{
			APIKey:  cfg.SendGridAPIKey,
			From:    cfg.AlertFrom,
			To:      cfg.AlertTo,
			BaseURL: cfg.SendGridBaseURL,
		}, log),
		Log: log,
	}

	// Redis
	if cfg.RedisAddr != "" {
		rdb, err := redisx.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, event dedup disabled")
		} else {
			defer rdb.Close()
			svc.Dedup = redisx.NewEventDeduper(rdb, cfg.ServiceName+"-alerter")
		}
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AlerterGroup, cfg.KafkaPriceTopic, cfg.AlerterWorkers, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.WithFields(logrus.Fields{
			"group":   cfg.AlerterGroup,
			"topic":   cfg.KafkaPriceTopic,
			"workers": cfg.AlerterWorkers,
		}).Info("alert consumer started")
		if err := cons.Start(ctx, svc.HandlePriceDropped); err != nil {
			log.WithError(err).Error("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer...")
	cancel()
	<-done
}
