package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces layer keys.
const RedisKeyPrefix = "layerdefs:layer:"

// RedisOptions configures [NewRedis].
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis stores each layer document under RedisKeyPrefix+id.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis and checks the connection with PING.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Redis{client: client}, nil
}

// Put stores data without expiry.
func (s *Redis) Put(ctx context.Context, id string, data []byte) error {
	return Retryable(s.client.Set(ctx, RedisKeyPrefix+id, data, 0).Err())
}

// Get returns the stored document.
func (s *Redis) Get(ctx context.Context, id string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, RedisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Retryable(err)
	}
	return data, true, nil
}

// Delete removes the key.
func (s *Redis) Delete(ctx context.Context, id string) error {
	return Retryable(s.client.Del(ctx, RedisKeyPrefix+id).Err())
}

// Name returns "redis".
func (s *Redis) Name() string { return "redis" }

// Close closes the client.
func (s *Redis) Close() error {
	return s.client.Close()
}

// Ensure Redis implements Store.
var _ Store = (*Redis)(nil)
