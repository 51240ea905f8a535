// Package auth resolves sessions written to Redis by the external
// auth flow. Sign-up and sign-in themselves happen outside this
// service; only session retrieval lives here.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/khoward/portfolio-tracker/internal/models"
)

const keyPrefix = "session:"

// ErrSessionNotFound is returned when a token resolves to no session.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore reads and writes sessions in Redis.
type SessionStore struct {
	rdb *redis.Client
}

// NewSessionStore creates a session store on an existing Redis client.
func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Get resolves a session token. Expired sessions are indistinguishable
// from missing ones; both return ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	data, err := s.rdb.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Put stores a session with the given lifetime. A missing token is
// minted. Redis expiry enforces ExpiresAt.
func (s *SessionStore) Put(ctx context.Context, session *models.Session, ttl time.Duration) error {
	if session.Token == "" {
		session.Token = uuid.NewString()
	}
	session.ExpiresAt = time.Now().Add(ttl)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+session.Token, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes a session token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
