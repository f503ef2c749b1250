// Package redisx holds the optional Redis connection and the distributed lock built on it.
package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Locker runs fn while holding the named lock.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error
}

type obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

// RedisLocker is a Locker backed by bsm/redislock.
type RedisLocker struct {
	client *redis.Client
	locker obtainer
}

// Connect opens the client and pings it.
func Connect(ctx context.Context, addr, password string) (*RedisLocker, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	logger.GetAppLogger().Infof("Connected to Redis at %s", addr)
	return &RedisLocker{client: rdb, locker: redislock.New(rdb)}, nil
}

// Close closes the Redis client.
func (l *RedisLocker) Close() error {
	if l.client == nil {
		return nil
	}
	return l.client.Close()
}

// WithLock fails with common.ErrSyncInProgress when another holder has key.
// The lock is refreshed every ttl/2 while fn runs.
func (l *RedisLocker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	lock, err := l.locker.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return common.ErrSyncInProgress
	}
	if err != nil {
		return fmt.Errorf("obtain lock %s: %w", key, err)
	}

	log := logger.GetAppLogger().WithField("lock", key)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := lock.Refresh(context.Background(), ttl, nil); err != nil {
					log.WithError(err).Warn("Failed to refresh lock")
					return
				}
			}
		}
	}()

	defer func() {
		close(done)
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.WithError(err).Warn("Failed to release lock")
		}
	}()

	return fn(ctx)
}

// NoopLocker runs fn directly. Used when Redis is not configured.
type NoopLocker struct{}

func (NoopLocker) WithLock(ctx context.Context, _ string, _ time.Duration, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
