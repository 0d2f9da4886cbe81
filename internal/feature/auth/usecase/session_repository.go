package usecase

import (
	"context"

	"shop_backend/internal/feature/auth/domain/entity"
)

// SessionRepository abstracts the persistence layer for session entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SessionRepository interface {
	// Create persists a new session to the storage.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its token. Returns ErrSessionNotFound when absent.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteAllBySubject removes every session of one account.
	DeleteAllBySubject(ctx context.Context, kind entity.Kind, subjectID uint) error

	// DeleteExpired removes all expired sessions from storage.
	// Returns the number of deleted sessions.
	DeleteExpired(ctx context.Context) (int64, error)
}
