package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// redisStore keeps every slot as a plain string key without expiry.
type redisStore struct {
	c      *redis.Client
	prefix string
}

// NewRedisStore creates a Store on top of an existing redis client.
func NewRedisStore(c *redis.Client, keyPrefix string) Store {
	return &redisStore{c: c, prefix: keyPrefix}
}

func (r *redisStore) key(slot string) string { return r.prefix + slot }

func (r *redisStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	val, err := r.c.Get(ctx, r.key(slot)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}
	return val, true, nil
}

func (r *redisStore) Save(ctx context.Context, slot string, payload []byte) error {
	if err := r.c.Set(ctx, r.key(slot), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save slot %q: %w", slot, err)
	}
	return nil
}
