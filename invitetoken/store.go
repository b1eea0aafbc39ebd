// Package invitetoken stores teacher invite tokens in redis with a TTL, so
// tokens survive process restarts and are visible to every API instance.
package invitetoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "invite:"

var ErrTokenNotFound = errors.New("invite token not found or expired")

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Create mints a new invite token issued by the given teacher. The token
// expires after the store's TTL.
func (s *Store) Create(ctx context.Context, issuedBy string) (string, error) {
	token := uuid.NewString()
	err := s.rdb.Set(ctx, keyPrefix+token, issuedBy, s.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("failed to store invite token: %w", err)
	}
	return token, nil
}

// Lookup returns who issued the token, or ErrTokenNotFound if it never
// existed or has expired.
func (s *Store) Lookup(ctx context.Context, token string) (string, error) {
	issuedBy, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up invite token: %w", err)
	}
	return issuedBy, nil
}

// Revoke deletes the token before its TTL runs out.
func (s *Store) Revoke(ctx context.Context, token string) error {
	err := s.rdb.Del(ctx, keyPrefix+token).Err()
	if err != nil {
		return fmt.Errorf("failed to revoke invite token: %w", err)
	}
	return nil
}
