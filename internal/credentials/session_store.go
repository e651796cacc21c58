package credentials

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenKey is the fixed field under which a session keeps its bearer token.
const TokenKey = "adminToken"

// SessionStore keeps per-session key/value data in a redis hash.
type SessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewSessionStore(client redis.UniversalClient, ttl time.Duration) *SessionStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

// NewSessionID generates a cryptographically secure session id.
func (s *SessionStore) NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *SessionStore) key(sessionID string) string {
	return fmt.Sprintf("admin:session:%s", sessionID)
}

// SaveToken stores the bearer token for a session and (re)starts its TTL.
func (s *SessionStore) SaveToken(ctx context.Context, sessionID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoToken
	}

	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, TokenKey, token)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

// Token reads the bearer token of a session, refreshing the TTL on access.
func (s *SessionStore) Token(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrNoToken
	}

	key := s.key(sessionID)
	val, err := s.client.HGet(ctx, key, TokenKey).Result()
	if err == redis.Nil {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session token: %w", err)
	}

	s.client.Expire(ctx, key, s.ttl)

	return val, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// For binds the store to one session so it can be handed to the API client.
func (s *SessionStore) For(sessionID string) Provider {
	return ProviderFunc(func(ctx context.Context) (string, error) {
		return s.Token(ctx, sessionID)
	})
}
