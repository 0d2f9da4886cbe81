// Package session provides the Redis-backed session store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/usecase"
)

// SessionRedis implements usecase.SessionRepository using Redis.
// Expiry is delegated to key TTLs.
type SessionRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = "session"
	}
	return &SessionRedis{
		client: client,
		prefix: prefix,
	}
}

// sessionKey returns the Redis key for a session.
func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// subjectSessionsKey returns the Redis key for an account's session set.
func (r *SessionRedis) subjectSessionsKey(kind entity.Kind, subjectID uint) string {
	return fmt.Sprintf("%s:%s:%d", r.prefix, kind, subjectID)
}

// Create persists a new session to Redis.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	setKey := r.subjectSessionsKey(session.Kind, session.SubjectID)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.sessionKey(session.ID), data, ttl)
	pipe.SAdd(ctx, setKey, session.ID)
	// all sessions share one TTL, so the newest one bounds the index
	pipe.Expire(ctx, setKey, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// FindByID retrieves a session by its ID.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes a session and its index entry. Missing sessions are ignored.
func (r *SessionRedis) Delete(ctx context.Context, id string) error {
	session, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.sessionKey(id))
	pipe.SRem(ctx, r.subjectSessionsKey(session.Kind, session.SubjectID), id)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteAllBySubject removes every session of one account.
func (r *SessionRedis) DeleteAllBySubject(ctx context.Context, kind entity.Kind, subjectID uint) error {
	setKey := r.subjectSessionsKey(kind, subjectID)
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.sessionKey(id))
	}
	keys = append(keys, setKey)
	return r.client.Del(ctx, keys...).Err()
}

// DeleteExpired removes expired sessions (handled by Redis TTL).
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	// Redis handles expiration automatically via TTL
	return 0, nil
}
