package localstorage

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/crm-portal/internal/errors"
	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

// RedisConfig selects the Redis server backing local storage
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisRepo stores each namespace as a Redis hash
type RedisRepo struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisRepo connects to Redis and checks the connection
func NewRedisRepo(ctx context.Context, cfg RedisConfig) (*RedisRepo, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "crm:local:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}

	return &RedisRepo{client: client, prefix: prefix, ttl: ttl}, nil
}

func (r *RedisRepo) key(namespace string) string {
	return r.prefix + namespace
}

func (r *RedisRepo) Get(ctx context.Context, namespace, key string) (string, error) {
	value, err := r.client.HGet(ctx, r.key(namespace), key).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("%s: %w", key, errors.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrStorageUnavailable, err)
	}
	return value, nil
}

func (r *RedisRepo) Set(ctx context.Context, namespace string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	fields := make([]any, 0, len(values)*2)
	for k, v := range values {
		fields = append(fields, k, v)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.key(namespace), fields...)
		pipe.Expire(ctx, r.key(namespace), r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.key(namespace), keys...).Err(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the Redis connection pool
func (r *RedisRepo) Close() error {
	return r.client.Close()
}
