package lockout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lockout:login:"

// RedisStore shares failure counters across instances. Each identifier is a
// counter key whose TTL is the lockout window.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Failures(ctx context.Context, identifier string) (int, error) {
	val, err := s.client.Get(ctx, keyPrefix+identifier).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get lockout counter: %w", err)
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse lockout counter: %w", err)
	}
	return n, nil
}

// RecordFailure uses INCR and EXPIRE NX in one transaction so the window is
// set by the first failure only.
func (s *RedisStore) RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error) {
	key := keyPrefix + identifier
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record lockout failure: %w", err)
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) Clear(ctx context.Context, identifier string) error {
	if err := s.client.Del(ctx, keyPrefix+identifier).Err(); err != nil {
		return fmt.Errorf("clear lockout counter: %w", err)
	}
	return nil
}
