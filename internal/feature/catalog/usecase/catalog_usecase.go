package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"shop_backend/internal/feature/catalog/domain/entity"
)

// ProductRepository はproductの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ProductRepository interface {
	// FindByID は商品を取得します。存在しない場合はErrProductNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Product, error)

	// List は全商品をID順で返します。
	List(ctx context.Context) ([]entity.Product, error)

	Create(ctx context.Context, p *entity.Product) error

	// Update は指定された列のみ更新します。存在しない場合はErrProductNotFoundを返します。
	Update(ctx context.Context, id uint, changes ProductChanges) error

	// Delete は商品を削除します。存在しない場合はErrProductNotFoundを返します。
	Delete(ctx context.Context, id uint) error

	// DecrementStock は在庫がqty以上ある場合のみ1文で在庫を減らします。
	// 在庫不足はErrInsufficientStock、商品がない場合はErrProductNotFoundを返します。
	DecrementStock(ctx context.Context, id uint, qty int) error
}

// Copywriter は商品説明文を生成します。
type Copywriter interface {
	Describe(ctx context.Context, prompt string) (string, error)
}

// ProductChanges lists the columns a partial product update may touch. Nil fields are left alone.
type ProductChanges struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	Stock           *int
	ReleaseDate     *time.Time
	Version         *string
	Format          *string
	InGamePurchases *bool
	Rating          *string
}

// ProductInput は商品作成の入力です。Stockは0を許容するためポインタです。
type ProductInput struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	Stock           *int
	ReleaseDate     *time.Time
	Version         string
	Format          string
	InGamePurchases bool
	Rating          string
}

// catalogUsecase は商品カタログのビジネスロジックを実装します。
type catalogUsecase struct {
	products   ProductRepository
	copywriter Copywriter
}

// NewCatalogUsecase はcatalogUsecaseを生成します。copywriterはnilでもかまいません。
func NewCatalogUsecase(products ProductRepository, copywriter Copywriter) *catalogUsecase {
	return &catalogUsecase{products: products, copywriter: copywriter}
}

func validateName(name string) error {
	if utf8.RuneCountInString(name) > entity.MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > entity.MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// normalizePrice は保存時と同じ桁数に丸めてから範囲を検証します。
// 0.004のような値は丸めると0になるため拒否されます。
func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	rounded := price.Round(entity.PriceScale)
	if !rounded.IsPositive() || rounded.GreaterThan(entity.MaxPrice) {
		return decimal.Zero, ErrInvalidPrice
	}
	return rounded, nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// Get は商品を1件取得します。
func (u *catalogUsecase) Get(ctx context.Context, id uint) (*entity.Product, error) {
	return u.products.FindByID(ctx, id)
}

// List は全商品を返します。
func (u *catalogUsecase) List(ctx context.Context) ([]entity.Product, error) {
	return u.products.List(ctx)
}

// Create は入力を検証し、メタデータの既定値を補って商品を作成します。
func (u *catalogUsecase) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if name == "" || desc == "" || in.Price.IsZero() || in.Stock == nil {
		return nil, ErrMissingProductFields
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(desc); err != nil {
		return nil, err
	}
	price, err := normalizePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if err := validateStock(*in.Stock); err != nil {
		return nil, err
	}

	p := &entity.Product{
		Name:            name,
		Description:     desc,
		Price:           price,
		Stock:           *in.Stock,
		ReleaseDate:     in.ReleaseDate,
		Version:         in.Version,
		Format:          in.Format,
		InGamePurchases: in.InGamePurchases,
		Rating:          in.Rating,
	}
	if p.Version == "" {
		p.Version = entity.DefaultVersion
	}
	if p.Format == "" {
		p.Format = entity.DefaultFormat
	}

	if err := u.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update は指定されたフィールドを検証して部分更新し、更新後の商品を返します。
func (u *catalogUsecase) Update(ctx context.Context, id uint, changes ProductChanges) (*entity.Product, error) {
	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return nil, ErrMissingProductFields
		}
		if err := validateName(name); err != nil {
			return nil, err
		}
		changes.Name = &name
	}
	if changes.Description != nil {
		desc := strings.TrimSpace(*changes.Description)
		if desc == "" {
			return nil, ErrMissingProductFields
		}
		if err := validateDescription(desc); err != nil {
			return nil, err
		}
		changes.Description = &desc
	}
	if changes.Price != nil {
		price, err := normalizePrice(*changes.Price)
		if err != nil {
			return nil, err
		}
		changes.Price = &price
	}
	if changes.Stock != nil {
		if err := validateStock(*changes.Stock); err != nil {
			return nil, err
		}
	}

	if err := u.products.Update(ctx, id, changes); err != nil {
		return nil, err
	}
	return u.products.FindByID(ctx, id)
}

// Delete は商品を削除します。
func (u *catalogUsecase) Delete(ctx context.Context, id uint) error {
	return u.products.Delete(ctx, id)
}

// DecrementStock は在庫をqty減らします。競合時も在庫が負になることはありません。
// トランザクション外の呼び出し元向けの操作で、キャッシュ付きリポジトリ経由なら無効化も行われます。
// 購入処理は注文作成と同じtxで在庫を減らすため、これを使わずコミット後にInvalidateします。
func (u *catalogUsecase) DecrementStock(ctx context.Context, id uint, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	return u.products.DecrementStock(ctx, id, qty)
}

// SuggestDescription は商品情報から販売用の説明文案を生成します。保存はしません。
func (u *catalogUsecase) SuggestDescription(ctx context.Context, id uint) (string, error) {
	if u.copywriter == nil {
		return "", ErrCopywriterDisabled
	}
	p, err := u.products.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	text, err := u.copywriter.Describe(ctx, buildPrompt(p))
	if err != nil {
		return "", fmt.Errorf("failed to generate description: %w", err)
	}
	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) > entity.MaxDescriptionLength {
		text = string(r[:entity.MaxDescriptionLength])
	}
	return text, nil
}

// buildPrompt は説明文生成用のプロンプトを組み立てます。
func buildPrompt(p *entity.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Escribe una descripción de venta en español de máximo %d caracteres para el videojuego %q.\n",
		entity.MaxDescriptionLength, p.Name)
	fmt.Fprintf(&b, "Descripción actual: %s\n", p.Description)
	fmt.Fprintf(&b, "Formato: %s. Versión: %s.\n", p.Format, p.Version)
	if p.Rating != "" {
		fmt.Fprintf(&b, "Clasificación: %s.\n", p.Rating)
	}
	if p.InGamePurchases {
		b.WriteString("Incluye compras dentro del juego.\n")
	}
	b.WriteString("Responde solo con el texto de la descripción.")
	return b.String()
}
