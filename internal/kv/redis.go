package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/soyeahso/pocketchat/internal/logging"
)

// Redis is an alternative backend for running the store against a local
// redis during development. Same contract as the others: no TTLs, no
// transactions.
type Redis struct {
	client *redis.Client
	log    *logging.Logger
}

// OpenRedis connects to redis at addr and verifies the connection.
func OpenRedis(ctx context.Context, addr, password string, db int, log *logging.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis %s: %w", addr, err)
	}

	rlog := log.Sub("kv")
	rlog.Info().Str("addr", addr).Int("db", db).Msg("redis key-value store opened")
	return &Redis{client: client, log: rlog}, nil
}

// Get implements Store.
func (s *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set implements Store.
func (s *Redis) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// Remove implements Store.
func (s *Redis) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// MultiRemove implements Store.
func (s *Redis) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Keys implements Store.
func (s *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.client.Keys(ctx, prefix+"*").Result()
}

// Close implements Store.
func (s *Redis) Close() error {
	return s.client.Close()
}
