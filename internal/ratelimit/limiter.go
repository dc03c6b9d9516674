// Package ratelimit implements fixed-window request limits per client.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-shopify-facade/internal/redisx"
)

type Limiter interface {
	// Allow counts one request for key and reports whether it is within the limit,
	// plus how long until the current window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type Config struct {
	Limit  int
	Window time.Duration
}

type window struct {
	start time.Time
	count int
}

type MemoryLimiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{cfg: cfg, now: time.Now, windows: make(map[string]*window)}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.cfg.Window {
		w = &window{start: now}
		l.windows[key] = w
		if len(l.windows) > 10000 {
			l.sweep(now)
		}
	}
	w.count++
	return w.count <= l.cfg.Limit, w.start.Add(l.cfg.Window).Sub(now), nil
}

func (l *MemoryLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.cfg.Window {
			delete(l.windows, k)
		}
	}
}

// RedisLimiter shares counters across API replicas.
type RedisLimiter struct {
	cfg Config
	rdb *redis.Client
	now func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{cfg: cfg, rdb: rdb, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := l.now()
	start := now.Truncate(l.cfg.Window)
	k := fmt.Sprintf(redisx.KeyRateLimit, key, start.Unix())

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, errors.Wrap(err, "rate limit counter")
	}
	return incr.Val() <= int64(l.cfg.Limit), start.Add(l.cfg.Window).Sub(now), nil
}
