package snapshot

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisBackend stores the document as one JSON string under Key.
type RedisBackend struct {
	RDB *redis.Client
	Key string
}

func (b *RedisBackend) Load(ctx context.Context) ([]Product, error) {
	raw, err := b.RDB.Get(ctx, b.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Product{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", b.Key)
	}
	var out []Product
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", b.Key)
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

func (b *RedisBackend) Save(ctx context.Context, products []Product) error {
	if products == nil {
		products = []Product{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	return errors.Wrapf(b.RDB.Set(ctx, b.Key, raw, 0).Err(), "set %s", b.Key)
}
