package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "idempotency:"
	pendingValue = "pending"
)

// RedisStore shares keys across API replicas. Claims are taken with SET NX.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Begin(ctx context.Context, key string) (*Record, error) {
	// Two attempts cover a key expiring between SETNX and GET.
	for attempt := 0; attempt < 2; attempt++ {
		claimed, err := s.rdb.SetNX(ctx, keyPrefix+key, pendingValue, s.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("idempotency claim: %w", err)
		}
		if claimed {
			return nil, nil
		}

		b, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("idempotency lookup: %w", err)
		}
		if string(b) == pendingValue {
			return nil, ErrInFlight
		}

		var record Record
		if err := json.Unmarshal(b, &record); err != nil {
			return nil, fmt.Errorf("idempotency decode: %w", err)
		}
		return &record, nil
	}
	return nil, ErrInFlight
}

func (s *RedisStore) Complete(ctx context.Context, key string, record Record) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+key, b, s.ttl).Err()
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, keyPrefix+key).Err()
}

// NewRedisClient connects and pings, failing fast when Redis is unreachable.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

var _ Store = (*RedisStore)(nil)
