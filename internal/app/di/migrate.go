package di

import (
	"fmt"

	"gorm.io/gorm"

	authadapters "shop_backend/internal/feature/auth/adapters"
	authentity "shop_backend/internal/feature/auth/domain/entity"
	catalogentity "shop_backend/internal/feature/catalog/domain/entity"
	purchaseentity "shop_backend/internal/feature/purchase/domain/entity"
)

// Migrate は全テーブルをAutoMigrateします。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&authentity.User{},
		&authentity.Admin{},
		&authadapters.SessionModel{},
		&catalogentity.Product{},
		&purchaseentity.Order{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
