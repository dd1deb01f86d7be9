// Package revoke records, per user, the instant before which issued claims
// are no longer accepted.
package revoke

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	Revoke(ctx context.Context, userID string, at time.Time) error
	RevokedAt(ctx context.Context, userID string) (time.Time, bool, error)
}

// Nop is used when no Redis is configured; nothing is ever revoked.
type Nop struct{}

func (Nop) Revoke(context.Context, string, time.Time) error { return nil }

func (Nop) RevokedAt(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps watermarks for ttl, the lifetime of a claim. A zero ttl
// keeps them forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(userID string) string {
	return "revoked:user:" + userID
}

func (s *RedisStore) Revoke(ctx context.Context, userID string, at time.Time) error {
	return s.client.Set(ctx, key(userID), strconv.FormatInt(at.Unix(), 10), s.ttl).Err()
}

func (s *RedisStore) RevokedAt(ctx context.Context, userID string) (time.Time, bool, error) {
	value, err := s.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(seconds, 0), true, nil
}

// Revoked reports whether a claim issued at issuedAt predates the watermark.
func Revoked(ctx context.Context, store Store, userID string, issuedAt time.Time) (bool, error) {
	at, ok, err := store.RevokedAt(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	return issuedAt.Before(at), nil
}
