package adapters

import (
	"time"

	"shop_backend/internal/feature/auth/domain/entity"
)

// SessionModel is the GORM model for the sessions table.
type SessionModel struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Kind      string    `gorm:"size:10;not null;index:idx_sessions_subject"`
	SubjectID uint      `gorm:"not null;index:idx_sessions_subject"`
	Username  string    `gorm:"size:18;not null"`
	Role      string    `gorm:"size:10;not null"`
	UserAgent string    `gorm:"size:512"`
	IPAddress string    `gorm:"size:45"` // IPv6 max length
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts the GORM model to a domain entity.
func (m *SessionModel) ToEntity() *entity.Session {
	return &entity.Session{
		ID:        m.ID,
		Kind:      entity.Kind(m.Kind),
		SubjectID: m.SubjectID,
		Username:  m.Username,
		Role:      m.Role,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

// SessionModelFromEntity converts a domain entity to a GORM model.
func SessionModelFromEntity(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:        s.ID,
		Kind:      string(s.Kind),
		SubjectID: s.SubjectID,
		Username:  s.Username,
		Role:      s.Role,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
