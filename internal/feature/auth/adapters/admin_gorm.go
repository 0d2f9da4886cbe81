package adapters

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/usecase"
	"shop_backend/internal/platform/db"
)

type adminRepository struct {
	db *gorm.DB
}

var _ usecase.AdminRepository = (*adminRepository)(nil)

func NewAdminRepository(db *gorm.DB) *adminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, a *entity.Admin) error {
	if err := db.Conn(ctx, r.db).Create(a).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByLogin matches the admin's username or lower-cased email.
func (r *adminRepository) FindByLogin(ctx context.Context, identifier string) (*entity.Admin, error) {
	var a entity.Admin
	err := db.Conn(ctx, r.db).
		Where("username = ? OR correo = ?", identifier, strings.ToLower(identifier)).
		Order("id_admin ASC").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := db.Conn(ctx, r.db).
		Model(&entity.Admin{}).
		Where("username = ? OR correo = ?", username, strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}
