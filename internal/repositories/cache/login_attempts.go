package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxLoginAttempts = 5
	DefaultLoginWindow      = 5 * time.Minute
	DefaultLockoutDuration  = 5 * time.Minute
)

// LoginAttemptTracker counts failed sign-ins per username and locks the
// name out once MaxAttempts failures land within Window.
type LoginAttemptTracker struct {
	client      *redis.Client
	MaxAttempts int64
	Window      time.Duration
	Lockout     time.Duration
}

func NewLoginAttemptTracker(client *redis.Client) *LoginAttemptTracker {
	return &LoginAttemptTracker{
		client:      client,
		MaxAttempts: DefaultMaxLoginAttempts,
		Window:      DefaultLoginWindow,
		Lockout:     DefaultLockoutDuration,
	}
}

func attemptsKey(username string) string {
	return GenerateKey(EntityLogin, KeyAttempts, strings.ToLower(username))
}

func lockKey(username string) string {
	return GenerateKey(EntityLogin, KeyLock, strings.ToLower(username))
}

// LockedUntil returns the remaining lockout, zero when the name is not locked.
func (t *LoginAttemptTracker) LockedUntil(ctx context.Context, username string) (time.Duration, error) {
	ttl, err := t.client.TTL(ctx, lockKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read lockout: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// RecordFailure counts one failure and reports whether it locked the name.
func (t *LoginAttemptTracker) RecordFailure(ctx context.Context, username string) (bool, error) {
	key := attemptsKey(username)

	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record login failure: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.Window).Err(); err != nil {
			return false, fmt.Errorf("failed to record login failure: %w", err)
		}
	}

	if count < t.MaxAttempts {
		return false, nil
	}

	pipe := t.client.TxPipeline()
	pipe.Set(ctx, lockKey(username), time.Now().UTC().Unix(), t.Lockout)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to lock login: %w", err)
	}
	return true, nil
}

// Reset clears the failure counter after a successful sign-in.
func (t *LoginAttemptTracker) Reset(ctx context.Context, username string) error {
	return t.client.Del(ctx, attemptsKey(username)).Err()
}
