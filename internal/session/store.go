// Package session implements the Redis-backed cookie sessions used by
// the HTML page layer. REST clients use JWT instead.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session ID is unknown or expired.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Store persists session-id → user-id mappings with a TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create opens a new session for the user and returns its ID.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	sid, err := generateSessionID()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sid, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sid, nil
}

// Get resolves a session ID to its user ID, refreshing the TTL.
func (s *Store) Get(ctx context.Context, sid string) (string, error) {
	userID, err := s.client.Get(ctx, keyPrefix+sid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	// Sliding expiration; a failed refresh is not fatal.
	_ = s.client.Expire(ctx, keyPrefix+sid, s.ttl).Err()
	return userID, nil
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (s *Store) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func generateSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
