package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis adapts a go-redis client to the Store interface.  Keys map
// one-to-one onto Redis string keys with no TTL: the store is the
// system of record, not a cache.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an already-connected client.  The caller owns the
// client lifecycle (see config.NewRedisClient for construction and
// ping verification).
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
