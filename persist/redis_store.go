package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krisalay/ui-memory/types"
)

// RedisStore keeps snapshots in Redis, one string value per key.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configures OpenRedis.
type RedisOptions struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string

	// Prefix is prepended to every key, e.g. "uimemory:".
	Prefix string

	// TTL expires snapshots nobody saved for this long. Zero keeps them forever.
	TTL time.Duration

	// ConnectTimeout bounds the initial ping. Default: 5s.
	ConnectTimeout time.Duration
}

// OpenRedis connects to Redis and checks the connection.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStore(client, opts.Prefix, opts.TTL), nil
}

// NewRedisStore wraps an existing client. The store owns the client from then on.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Load implements types.Store.
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis store %q: %w", key, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis store %q: %w", key, err)
	}
	return b, nil
}

// Put implements types.Store.
func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis store %q: %w", key, err)
	}
	return nil
}

// Delete implements types.Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis store %q: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
