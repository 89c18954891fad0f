package redis

import (
	"context"
	"fmt"
	"time"

	"arena-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore resolves identity-provider session tokens kept in Redis.
// Each session is a hash at quiz:session:{token} with fields id and name.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// CreateSession stores caller under a fresh token. Sessions written by the
// identity provider itself use the same layout.
func (s *SessionStore) CreateSession(ctx context.Context, caller domain.Caller) (string, error) {
	token := uuid.NewString()
	key := s.key(token)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "id", caller.ID, "name", caller.DisplayName)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *SessionStore) LookupSession(ctx context.Context, token string) (domain.Caller, error) {
	fields, err := s.client.HGetAll(ctx, s.key(token)).Result()
	if err != nil {
		return domain.Caller{}, fmt.Errorf("load session: %w", err)
	}
	if fields["id"] == "" {
		return domain.Caller{}, domain.ErrSessionNotFound
	}
	return domain.Caller{ID: fields["id"], DisplayName: fields["name"]}, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionStore) key(token string) string {
	return "quiz:session:" + token
}
