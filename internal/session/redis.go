package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis as JSON values that expire after ttl.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to the Redis server at addr. A ttl of zero keeps
// sessions until they are overwritten.
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewRedisStoreFromClient(rdb, ttl)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: constants.DefaultSessionKeyPrefix,
		ttl:    ttl,
	}
}

// Ping checks that the server is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Load fetches and decodes the session for id. A missing key yields a fresh session.
func (r *RedisStore) Load(ctx context.Context, id string) (Context, error) {
	if id == "" {
		return Context{}, ErrMissingID
	}

	val, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return Context{}, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var c Context
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return Context{}, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return c, nil
}

// Save encodes the session and stores it under id with the configured TTL.
func (r *RedisStore) Save(ctx context.Context, id string, c Context) error {
	if id == "" {
		return ErrMissingID
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	if err := r.client.Set(ctx, r.key(id), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}
