package snapshot

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/ariefcatur/go-shopify-facade/internal/postgres"
	"github.com/ariefcatur/go-shopify-facade/internal/redisx"
)

type FactoryConfig struct {
	Backend     string
	FilePath    string
	PostgresDSN string
	RedisAddr   string
}

type FactoryResult struct {
	Backend Backend
	// Close releases the connection the backend owns, if any.
	Close func()
}

func NewBackend(ctx context.Context, cfg FactoryConfig) (FactoryResult, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if kind == "" {
		kind = "file"
	}

	switch kind {
	case "file":
		if cfg.FilePath == "" {
			return FactoryResult{}, errors.New("SNAPSHOT_FILE is required when SNAPSHOT_BACKEND=file")
		}
		return FactoryResult{Backend: NewFileBackend(cfg.FilePath), Close: func() {}}, nil

	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return FactoryResult{}, err
		}
		b := &PostgresBackend{DB: pool}
		if err := b.EnsureSchema(ctx); err != nil {
			pool.Close()
			return FactoryResult{}, err
		}
		return FactoryResult{Backend: b, Close: pool.Close}, nil

	case "redis":
		if cfg.RedisAddr == "" {
			return FactoryResult{}, errors.New("REDIS_ADDR is required when SNAPSHOT_BACKEND=redis")
		}
		rdb, err := redisx.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{
			Backend: &RedisBackend{RDB: rdb, Key: redisx.KeySnapshot},
			Close:   func() { _ = rdb.Close() },
		}, nil

	default:
		return FactoryResult{}, errors.Errorf("unknown SNAPSHOT_BACKEND %q (use file, postgres or redis)", cfg.Backend)
	}
}
