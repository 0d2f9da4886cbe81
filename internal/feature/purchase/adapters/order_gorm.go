// Package adapters はpurchaseフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"shop_backend/internal/feature/purchase/domain/entity"
	"shop_backend/internal/feature/purchase/usecase"
	"shop_backend/internal/platform/db"
)

// orderRepository はOrderRepositoryインターフェースのGORM実装です。
type orderRepository struct {
	db *gorm.DB
}

var _ usecase.OrderRepository = (*orderRepository)(nil)

// NewOrderRepository はorderRepositoryの新しいインスタンスを生成します。
func NewOrderRepository(db *gorm.DB) *orderRepository {
	return &orderRepository{db: db}
}

// Create は注文を追加します。成功するとo.IDが設定されます。
func (r *orderRepository) Create(ctx context.Context, o *entity.Order) error {
	return db.Conn(ctx, r.db).Create(o).Error
}

// ListByUser はユーザーの注文を新しい順で返します。
func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]entity.Order, error) {
	var orders []entity.Order
	err := db.Conn(ctx, r.db).
		Where("id_registro = ?", userID).
		Order("id_compra DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
