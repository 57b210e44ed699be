package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "restaurant:cart:"
	DefaultTTL = 7 * 24 * time.Hour
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func key(sid string) string {
	return keyPrefix + sid
}

func (s *RedisStore) Get(ctx context.Context, sid string) (map[uint]int, error) {
	if sid == "" {
		return map[uint]int{}, nil
	}
	raw, err := s.client.HGetAll(ctx, key(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	out := make(map[uint]int, len(raw))
	for field, val := range raw {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(val)
		if err != nil || qty <= 0 {
			continue
		}
		out[uint(id)] = qty
	}
	return out, nil
}

func (s *RedisStore) Add(ctx context.Context, sid string, productID uint, qty int) (int, error) {
	if sid == "" {
		return 0, ErrNoSession
	}
	k := key(sid)
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.HIncrBy(ctx, k, field(productID), int64(qty))
		p.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis hincrby: %w", err)
	}
	n := int(incr.Val())
	if n <= 0 {
		return 0, s.Remove(ctx, sid, productID)
	}
	return n, nil
}

func (s *RedisStore) Set(ctx context.Context, sid string, productID uint, qty int) error {
	if sid == "" {
		return ErrNoSession
	}
	if qty <= 0 {
		return s.Remove(ctx, sid, productID)
	}
	k := key(sid)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, field(productID), qty)
		p.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, sid string, productID uint) error {
	if sid == "" {
		return ErrNoSession
	}
	if err := s.client.HDel(ctx, key(sid), field(productID)).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.client.Del(ctx, key(sid)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func field(productID uint) string {
	return strconv.FormatUint(uint64(productID), 10)
}
