package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Connect is New followed by a PING so a bad address fails at startup.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := New(addr)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "redis ping %s", addr)
	}
	return rdb, nil
}

// Deduper marks ids with SETNX under a key template, so check-and-set is one round trip.
type Deduper struct {
	RDB      *redis.Client
	Template string // one %s for the id
	TTL      time.Duration
}

func NewWebhookDeduper(rdb *redis.Client) *Deduper {
	return &Deduper{RDB: rdb, Template: KeyWebhookSeen, TTL: TTLWebhookSeen}
}

func NewEventDeduper(rdb *redis.Client, service string) *Deduper {
	return &Deduper{RDB: rdb, Template: fmt.Sprintf(KeyDedup, service, "%s"), TTL: TTLDedup}
}

func (d *Deduper) Seen(ctx context.Context, id string) (bool, error) {
	ok, err := d.RDB.SetNX(ctx, fmt.Sprintf(d.Template, id), "1", d.TTL).Result()
	if err != nil {
		return false, errors.Wrap(err, "dedup setnx")
	}
	return !ok, nil
}

// Forget removes a mark so a failed delivery can be retried.
func (d *Deduper) Forget(ctx context.Context, id string) error {
	return d.RDB.Del(ctx, fmt.Sprintf(d.Template, id)).Err()
}
