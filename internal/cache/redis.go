package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "reseller:cache:"
	tagPrefix = "reseller:tag:"
)

// RedisStore - кэш в Redis, общий для нескольких экземпляров сервиса
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyPrefix+key, value, ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, tagPrefix+tag, key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	// индекс тега живёт не меньше самой долгой его записи
	for _, tag := range tags {
		current, err := s.rdb.PTTL(ctx, tagPrefix+tag).Result()
		if err != nil {
			return fmt.Errorf("failed to read tag ttl: %w", err)
		}
		if current == -1 || (current >= 0 && current < ttl) {
			if err := s.rdb.PExpire(ctx, tagPrefix+tag, ttl).Err(); err != nil {
				return fmt.Errorf("failed to extend tag ttl: %w", err)
			}
		}
	}
	return nil
}

func (s *RedisStore) InvalidateTags(ctx context.Context, tags ...string) (int, error) {
	seen := make(map[string]struct{})
	var keys []string
	for _, tag := range tags {
		members, err := s.rdb.SMembers(ctx, tagPrefix+tag).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to read tag %s: %w", tag, err)
		}
		for _, member := range members {
			if _, ok := seen[member]; ok {
				continue
			}
			seen[member] = struct{}{}
			keys = append(keys, keyPrefix+member)
		}
	}

	var removed int64
	if len(keys) > 0 {
		n, err := s.rdb.Del(ctx, keys...).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to delete cache entries: %w", err)
		}
		removed = n
	}

	tagKeys := make([]string, 0, len(tags))
	for _, tag := range tags {
		tagKeys = append(tagKeys, tagPrefix+tag)
	}
	if err := s.rdb.Del(ctx, tagKeys...).Err(); err != nil {
		return int(removed), fmt.Errorf("failed to delete tag index: %w", err)
	}
	return int(removed), nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
