package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/checkout"
)

const defaultCheckoutPrefix = "checkout:session:"

// RedisClient is the subset of go-redis used here. Satisfied by
// *redis.Client and *redis.ClusterClient.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCheckoutStore keeps checkout sessions as JSON values whose Redis TTL
// is the remaining checkout window.
type RedisCheckoutStore struct {
	client    RedisClient
	keyPrefix string
}

func NewRedisCheckoutStore(client RedisClient, keyPrefix string) *RedisCheckoutStore {
	if keyPrefix == "" {
		keyPrefix = defaultCheckoutPrefix
	}
	return &RedisCheckoutStore{client: client, keyPrefix: keyPrefix}
}

func (r *RedisCheckoutStore) Save(ctx context.Context, s *checkout.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode checkout session: %w", err)
	}
	if err := r.client.Set(ctx, r.keyPrefix+s.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("store checkout session: %w", err)
	}
	return nil
}

func (r *RedisCheckoutStore) Get(ctx context.Context, id string) (*checkout.Session, error) {
	data, err := r.client.Get(ctx, r.keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, checkout.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load checkout session: %w", err)
	}
	var s checkout.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	return &s, nil
}

func (r *RedisCheckoutStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, r.keyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("delete checkout session: %w", err)
	}
	if n == 0 {
		return checkout.ErrSessionNotFound
	}
	return nil
}

var _ checkout.Store = (*RedisCheckoutStore)(nil)
