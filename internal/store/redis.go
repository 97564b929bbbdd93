package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStorage implements BlobStore with one Redis string per document.
type RedisStorage struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewRedisStorage connects to addr and verifies the connection.
func NewRedisStorage(ctx context.Context, addr, prefix string) (*RedisStorage, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStorageFromClient(rdb, prefix), nil
}

// NewRedisStorageFromClient wraps an existing client.
func NewRedisStorageFromClient(rdb goredis.UniversalClient, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = "vitalitypact"
	}
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

func (s *RedisStorage) key(userID, kind, id string) string {
	return s.prefix + ":" + userID + ":" + kind + ":" + id
}

func (s *RedisStorage) Put(ctx context.Context, userID, kind, id string, data []byte) error {
	key := s.key(userID, kind, id)
	if err := s.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStorage) Get(ctx context.Context, userID, kind, id string) ([]byte, error) {
	key := s.key(userID, kind, id)
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *RedisStorage) Delete(ctx context.Context, userID, kind, id string) error {
	key := s.key(userID, kind, id)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
