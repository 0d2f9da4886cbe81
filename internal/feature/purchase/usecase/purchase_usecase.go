package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	authentity "shop_backend/internal/feature/auth/domain/entity"
	catalogentity "shop_backend/internal/feature/catalog/domain/entity"
	catalog "shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/feature/purchase/domain/entity"
)

// ProductStore は購入処理が必要とする商品操作です。
// トランザクション内で呼ばれるため、キャッシュを経由しない実装を渡してください。
type ProductStore interface {
	FindByID(ctx context.Context, id uint) (*catalogentity.Product, error)
	DecrementStock(ctx context.Context, id uint, qty int) error
}

// OrderRepository は注文の永続化を抽象化します。
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	ListByUser(ctx context.Context, userID uint) ([]entity.Order, error)
}

// Transactor はfnを1つのトランザクション内で実行します。
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator は商品キャッシュの1件を破棄します。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, id uint) error
}

// PurchaseInput は購入リクエストの入力です。Quantityが0の場合は1として扱います。
type PurchaseInput struct {
	Quantity   int
	Name       string
	Phone      string
	Address    string
	PostalCode string
}

// purchaseUsecase は購入処理のビジネスロジックを実装します。
type purchaseUsecase struct {
	tx       Transactor
	products ProductStore
	orders   OrderRepository
	cache    CacheInvalidator
}

// NewPurchaseUsecase はpurchaseUsecaseを生成します。cacheはnilでもかまいません。
func NewPurchaseUsecase(tx Transactor, products ProductStore, orders OrderRepository, cache CacheInvalidator) *purchaseUsecase {
	return &purchaseUsecase{tx: tx, products: products, orders: orders, cache: cache}
}

func (in PurchaseInput) normalize() (PurchaseInput, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return in, ErrInvalidQuantity
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	if in.Name == "" || in.Phone == "" || in.Address == "" || in.PostalCode == "" {
		return in, ErrMissingShipping
	}
	return in, nil
}

// Purchase は注文の作成と在庫の減算を1つのトランザクションで行い、注文IDを返します。
// 在庫減算に失敗した場合は注文も保存されません。
func (u *purchaseUsecase) Purchase(ctx context.Context, buyer authentity.Identity, productID uint, in PurchaseInput) (uint, error) {
	if buyer.Kind != authentity.KindUser || buyer.SubjectID == 0 {
		return 0, ErrLoginRequired
	}
	in, err := in.normalize()
	if err != nil {
		return 0, err
	}

	var order *entity.Order
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := u.products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if !p.InStock(in.Quantity) {
			return catalog.ErrInsufficientStock
		}

		order = &entity.Order{
			UserID:             buyer.SubjectID,
			ProductID:          p.ID,
			Quantity:           in.Quantity,
			Status:             entity.StatusPending,
			ShippingName:       in.Name,
			ShippingPhone:      in.Phone,
			ShippingAddress:    in.Address,
			ShippingPostalCode: in.PostalCode,
		}
		if err := u.orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// 他の購入と競合した場合はここで在庫不足となり、注文ごとロールバックされます
		return u.products.DecrementStock(ctx, p.ID, in.Quantity)
	})
	if err != nil {
		return 0, err
	}

	if u.cache != nil {
		if err := u.cache.Invalidate(ctx, productID); err != nil {
			slog.Warn("product cache invalidation failed", "product_id", productID, "error", err)
		}
	}

	slog.Info("purchase completed",
		"order_id", order.ID,
		"user_id", buyer.SubjectID,
		"product_id", productID,
		"quantity", in.Quantity,
	)
	return order.ID, nil
}

// History はログイン中の顧客の注文を新しい順で返します。
func (u *purchaseUsecase) History(ctx context.Context, buyer authentity.Identity) ([]entity.Order, error) {
	if buyer.Kind != authentity.KindUser || buyer.SubjectID == 0 {
		return nil, ErrLoginRequired
	}
	return u.orders.ListByUser(ctx, buyer.SubjectID)
}
