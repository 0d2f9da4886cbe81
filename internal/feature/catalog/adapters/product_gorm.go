// Package adapters はcatalogフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/platform/db"
)

// productRepository はProductRepositoryインターフェースのGORM実装です。
// トランザクション内で呼ばれた場合はcontextのトランザクションを使用します。
type productRepository struct {
	db *gorm.DB
}

// productRepositoryがProductRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ProductRepository = (*productRepository)(nil)

// NewProductRepository はproductRepositoryの新しいインスタンスを生成します。
func NewProductRepository(db *gorm.DB) *productRepository {
	return &productRepository{db: db}
}

// FindByID はIDで商品を取得します。
func (r *productRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	var p entity.Product
	if err := db.Conn(ctx, r.db).Where("id_producto = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List は全商品をID順で返します。
func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := db.Conn(ctx, r.db).Order("id_producto ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create は商品を追加します。
func (r *productRepository) Create(ctx context.Context, p *entity.Product) error {
	return db.Conn(ctx, r.db).Create(p).Error
}

// Update は指定された列のみ更新します。
func (r *productRepository) Update(ctx context.Context, id uint, changes usecase.ProductChanges) error {
	updates := map[string]any{}
	if changes.Name != nil {
		updates["nombre"] = *changes.Name
	}
	if changes.Description != nil {
		updates["descripcion"] = *changes.Description
	}
	if changes.Price != nil {
		updates["precio"] = *changes.Price
	}
	if changes.Stock != nil {
		updates["stock"] = *changes.Stock
	}
	if changes.ReleaseDate != nil {
		updates["releaseDate"] = *changes.ReleaseDate
	}
	if changes.Version != nil {
		updates["version"] = *changes.Version
	}
	if changes.Format != nil {
		updates["format"] = *changes.Format
	}
	if changes.InGamePurchases != nil {
		updates["inGamePurchases"] = *changes.InGamePurchases
	}
	if changes.Rating != nil {
		updates["rating"] = *changes.Rating
	}

	conn := db.Conn(ctx, r.db)
	if err := conn.Select("id_producto").Where("id_producto = ?", id).First(&entity.Product{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.ErrProductNotFound
		}
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	return conn.Model(&entity.Product{}).Where("id_producto = ?", id).Updates(updates).Error
}

// Delete は商品を削除します。
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	result := db.Conn(ctx, r.db).Where("id_producto = ?", id).Delete(&entity.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrProductNotFound
	}
	return nil
}

// DecrementStock は条件付きUPDATEで在庫を減らします。
// 読み取りと書き込みの間に他のリクエストが割り込む余地はありません。
func (r *productRepository) DecrementStock(ctx context.Context, id uint, qty int) error {
	conn := db.Conn(ctx, r.db)
	result := conn.Model(&entity.Product{}).
		Where("id_producto = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	// 0行更新: 商品が存在しないか在庫不足
	var count int64
	if err := conn.Model(&entity.Product{}).Where("id_producto = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return usecase.ErrProductNotFound
	}
	return usecase.ErrInsufficientStock
}
