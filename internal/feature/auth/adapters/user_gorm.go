// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
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

// userRepository はUserRepositoryインターフェースのGORM実装です。
// Postgres・MySQL・SQLiteのいずれでも動作します。
type userRepository struct {
	db *gorm.DB
}

// userRepositoryがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userRepository)(nil)

// NewUserRepository は指定されたgorm.DB接続でuserRepositoryの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// Create はユーザーをデータベースに追加します。
// 一意制約違反の場合、usecase.ErrUserAlreadyExistsを返します。
func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	if err := db.Conn(ctx, r.db).Create(u).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID はIDでユーザーを取得します。
func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := db.Conn(ctx, r.db).Where("id_registro = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByLogin はユーザー名、またはメールアドレス（大文字小文字を区別しない）でユーザーを取得します。
func (r *userRepository) FindByLogin(ctx context.Context, identifier string) (*entity.User, error) {
	var u entity.User
	err := db.Conn(ctx, r.db).
		Where("username = ? OR correo = ?", identifier, strings.ToLower(identifier)).
		Order("id_registro ASC").
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ExistsByUsernameOrEmail は同じユーザー名またはメールアドレスの行があるかを返します。
func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := db.Conn(ctx, r.db).
		Model(&entity.User{}).
		Where("username = ? OR correo = ?", username, strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// List は全ユーザーをID順で返します。
func (r *userRepository) List(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := db.Conn(ctx, r.db).Order("id_registro ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update は指定されたフィールドのみ更新します。
func (r *userRepository) Update(ctx context.Context, id uint, changes usecase.UserChanges) error {
	updates := map[string]any{}
	if changes.Username != nil {
		updates["username"] = *changes.Username
	}
	if changes.Gender != nil {
		updates["genero"] = string(*changes.Gender)
	}
	if changes.Phone != nil {
		updates["telefono"] = *changes.Phone
	}
	if changes.PasswordHash != nil {
		updates["password"] = *changes.PasswordHash
	}

	conn := db.Conn(ctx, r.db)
	if err := conn.Select("id_registro").Where("id_registro = ?", id).First(&entity.User{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.ErrUserNotFound
		}
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	if err := conn.Model(&entity.User{}).Where("id_registro = ?", id).Updates(updates).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// Delete はユーザーを削除します。
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := db.Conn(ctx, r.db).Where("id_registro = ?", id).Delete(&entity.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
