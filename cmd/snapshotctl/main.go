package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ariefcatur/go-shopify-facade/internal/config"
	"github.com/ariefcatur/go-shopify-facade/internal/logging"
	"github.com/ariefcatur/go-shopify-facade/internal/notify"
	"github.com/ariefcatur/go-shopify-facade/internal/shopify"
	"github.com/ariefcatur/go-shopify-facade/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "snapshotctl",
		Usage: "inspect and seed the product price snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "file, postgres or redis (overrides SNAPSHOT_BACKEND)"},
			&cli.StringFlag{Name: "file", Usage: "snapshot file path (overrides SNAPSHOT_FILE)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "replace the snapshot with the first 100 products from Shopify",
				Action: func(c *cli.Context) error {
					return withStore(c, func(ctx context.Context, s *snapshot.Store) error {
						return s.Initialize(ctx)
					})
				},
			},
			{
				Name:  "list",
				Usage: "print the stored snapshot as JSON",
				Action: func(c *cli.Context) error {
					return withStore(c, func(ctx context.Context, s *snapshot.Store) error {
						products, err := s.List(ctx)
						if err != nil {
							return err
						}
						enc := json.NewEncoder(c.App.Writer)
						enc.SetIndent("", "  ")
						return enc.Encode(products)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("snapshotctl")
	}
}

func withStore(c *cli.Context, fn func(context.Context, *snapshot.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := c.String("backend"); v != "" {
		cfg.SnapshotBackend = v
	}
	if v := c.String("file"); v != "" {
		cfg.SnapshotFile = v
	}
	log := logging.New(cfg.LogLevel, cfg.ServiceName+"-snapshotctl")
	ctx := c.Context

	res, err := snapshot.NewBackend(ctx, snapshot.FactoryConfig{
		Backend:     cfg.SnapshotBackend,
		FilePath:    cfg.SnapshotFile,
		PostgresDSN: cfg.PostgresDSN,
		RedisAddr:   cfg.RedisAddr,
	})
	if err != nil {
		return errors.Wrap(err, "snapshot backend")
	}
	defer res.Close()

	api := shopify.New(shopify.Config{
		Domain:     cfg.ShopifyDomain,
		Token:      cfg.ShopifyToken,
		APIVersion: cfg.ShopifyAPIVersion,
		Timeout:    cfg.ShopifyTimeout,
	}, log)
	// seeding replaces records wholesale and never compares prices, so alerts are off here
	return fn(ctx, snapshot.NewStore(res.Backend, api, notify.Multi{}, log))
}
