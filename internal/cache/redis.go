package cache

import (
	"context"
	"errors"
	"log"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"
)

const (
	redisCallTimeout = 2 * time.Second
	redisAttempts    = 2
	redisRetryDelay  = 100 * time.Millisecond
)

// Shared is the optional network tier. All operations are bounded by a small
// retry budget and a per-call timeout; every failure is logged and reported
// as a miss so the caller degrades to the local tier.
type Shared struct {
	client *redis.Client
}

// NewShared connects a shared tier to the given Redis address. Password and
// db may be zero values.
func NewShared(addr, password string, db int) *Shared {
	return &Shared{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Get returns the blob and its remaining TTL. A miss, timeout, or transport
// error all come back as (nil, 0, false).
func (s *Shared) Get(ctx context.Context, key string) ([]byte, time.Duration, bool) {
	var blob []byte
	err := retry.Do(
		func() error {
			callCtx, cancel := context.WithTimeout(ctx, redisCallTimeout)
			defer cancel()
			b, err := s.client.Get(callCtx, key).Bytes()
			if err != nil {
				return err
			}
			blob = b
			return nil
		},
		retry.Attempts(redisAttempts),
		retry.Delay(redisRetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !errors.Is(err, redis.Nil) }),
	)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] shared tier get failed for %s: %v", key, err)
		}
		return nil, 0, false
	}

	ttlCtx, cancel := context.WithTimeout(ctx, redisCallTimeout)
	defer cancel()
	ttl, err := s.client.TTL(ttlCtx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = 0
	}
	return blob, ttl, true
}

// Put stores blob under key for ttl. Failures are swallowed.
func (s *Shared) Put(ctx context.Context, key string, blob []byte, ttl time.Duration) {
	err := retry.Do(
		func() error {
			callCtx, cancel := context.WithTimeout(ctx, redisCallTimeout)
			defer cancel()
			return s.client.Set(callCtx, key, blob, ttl).Err()
		},
		retry.Attempts(redisAttempts),
		retry.Delay(redisRetryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Printf("[cache] shared tier put failed for %s: %v", key, err)
	}
}

// Close releases the underlying connection pool.
func (s *Shared) Close() error {
	return s.client.Close()
}
