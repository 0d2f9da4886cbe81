package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/usecase"
)

// sessionRepository stores sessions in the SQL database. It is used when Redis is not configured.
type sessionRepository struct {
	db *gorm.DB
}

// Compile-time check to ensure sessionRepository implements SessionRepository.
var _ usecase.SessionRepository = (*sessionRepository)(nil)

// NewSessionRepository creates a new instance of sessionRepository.
func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

// Create persists a new session to the database.
func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	return r.db.WithContext(ctx).Create(SessionModelFromEntity(session)).Error
}

// FindByID retrieves a session by its token.
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// Delete removes a session by its token.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{}).Error
}

// DeleteAllBySubject removes every session of one account.
func (r *sessionRepository) DeleteAllBySubject(ctx context.Context, kind entity.Kind, subjectID uint) error {
	return r.db.WithContext(ctx).
		Where("kind = ? AND subject_id = ?", string(kind), subjectID).
		Delete(&SessionModel{}).Error
}

// DeleteExpired removes all expired sessions from storage.
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}
