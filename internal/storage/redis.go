package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"docroute/pkg/platform/sentinel"
)

// Redis key prefix for collection blobs.
const blobKeyPrefix = "docroute:blob:"

// Redis is a go-redis backed Port storing each collection as one string value.
// This is the recommended implementation when several instances share state.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed Port.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, blobKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *Redis) Put(ctx context.Context, key string, value []byte) error {
	// No TTL: collection blobs are durable state, not cache entries.
	if err := r.client.Set(ctx, blobKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
