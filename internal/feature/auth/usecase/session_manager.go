package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"shop_backend/internal/feature/auth/domain/entity"
)

// tokenBytes is the amount of randomness in a session token (hex-encoded to 64 chars).
const tokenBytes = 32

// ClientMeta is request metadata recorded on a session.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// SessionManager issues and resolves opaque server-held session tokens.
type SessionManager struct {
	repo SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionManager creates a SessionManager whose sessions live for ttl.
func NewSessionManager(repo SessionRepository, ttl time.Duration) *SessionManager {
	return &SessionManager{repo: repo, ttl: ttl, now: time.Now}
}

// TTL returns the lifetime of new sessions.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Login issues a new session for identity.
func (m *SessionManager) Login(ctx context.Context, identity entity.Identity, meta ClientMeta) (*entity.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &entity.Session{
		ID:        token,
		Kind:      identity.Kind,
		SubjectID: identity.SubjectID,
		Username:  identity.Username,
		Role:      identity.Role,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return s, nil
}

// Resolve returns the session bound to token.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*entity.Session, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	s, err := m.repo.FindByID(ctx, token)
	if err != nil {
		return nil, err
	}

	if !m.now().Before(s.ExpiresAt) {
		if err := m.repo.Delete(ctx, token); err != nil {
			slog.Warn("failed to delete expired session", "error", err)
		}
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Destroy invalidates token immediately. Unknown tokens are ignored.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.repo.Delete(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// DestroyAllFor removes every session of one account.
func (m *SessionManager) DestroyAllFor(ctx context.Context, kind entity.Kind, subjectID uint) error {
	return m.repo.DeleteAllBySubject(ctx, kind, subjectID)
}

// PurgeExpired deletes expired sessions from stores without native expiry.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.repo.DeleteExpired(ctx)
}

// RequireRole fails with ErrAdminOnly or ErrUserOnly when identity does not hold role.
func RequireRole(identity entity.Identity, role string) error {
	if identity.Role == role {
		return nil
	}
	if role == entity.RoleAdmin {
		return ErrAdminOnly
	}
	return ErrUserOnly
}
