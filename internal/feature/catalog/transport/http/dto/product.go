// Package dto はcatalogフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/shared/apperr"
)

// ErrInvalidReleaseDate はreleaseDateが日付として解釈できない場合に返します。
var ErrInvalidReleaseDate = apperr.New(apperr.ErrValidation, "Fecha de lanzamiento no válida.")

// ProductReq は商品の作成・更新リクエストです。更新時は省略したフィールドは変更されません。
// precioは数値と文字列のどちらも受け付けます。
type ProductReq struct {
	Nombre          *string          `json:"nombre"`
	Descripcion     *string          `json:"descripcion"`
	Precio          *decimal.Decimal `json:"precio"`
	Stock           *int             `json:"stock"`
	ReleaseDate     *string          `json:"releaseDate"`
	Version         *string          `json:"version"`
	Format          *string          `json:"format"`
	InGamePurchases *bool            `json:"inGamePurchases"`
	Rating          *string          `json:"rating"`
}

// parseDate は "2006-01-02" またはRFC3339を受け付けます。
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidReleaseDate
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// ToInput は作成用の入力に変換します。
func (r ProductReq) ToInput() (usecase.ProductInput, error) {
	release, err := parseDate(r.ReleaseDate)
	if err != nil {
		return usecase.ProductInput{}, err
	}
	return usecase.ProductInput{
		Name:            deref(r.Nombre),
		Description:     deref(r.Descripcion),
		Price:           deref(r.Precio),
		Stock:           r.Stock,
		ReleaseDate:     release,
		Version:         deref(r.Version),
		Format:          deref(r.Format),
		InGamePurchases: deref(r.InGamePurchases),
		Rating:          deref(r.Rating),
	}, nil
}

// ToChanges は部分更新用の変更内容に変換します。
func (r ProductReq) ToChanges() (usecase.ProductChanges, error) {
	release, err := parseDate(r.ReleaseDate)
	if err != nil {
		return usecase.ProductChanges{}, err
	}
	return usecase.ProductChanges{
		Name:            r.Nombre,
		Description:     r.Descripcion,
		Price:           r.Precio,
		Stock:           r.Stock,
		ReleaseDate:     release,
		Version:         r.Version,
		Format:          r.Format,
		InGamePurchases: r.InGamePurchases,
		Rating:          r.Rating,
	}, nil
}

// ProductResponse は商品の表現です。precioは文字列 "59.99" として出力されます。
type ProductResponse struct {
	ID              uint            `json:"id_producto"`
	Nombre          string          `json:"nombre"`
	Descripcion     string          `json:"descripcion"`
	Precio          decimal.Decimal `json:"precio"`
	Stock           int             `json:"stock"`
	FechaCreacion   time.Time       `json:"fechaCreacion"`
	ReleaseDate     *time.Time      `json:"releaseDate"`
	Version         string          `json:"version"`
	Format          string          `json:"format"`
	InGamePurchases bool            `json:"inGamePurchases"`
	Rating          string          `json:"rating"`
}

func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Nombre:          p.Name,
		Descripcion:     p.Description,
		Precio:          p.Price.Round(2),
		Stock:           p.Stock,
		FechaCreacion:   p.CreatedAt,
		ReleaseDate:     p.ReleaseDate,
		Version:         p.Version,
		Format:          p.Format,
		InGamePurchases: p.InGamePurchases,
		Rating:          p.Rating,
	}
}

func NewProductListResponse(products []entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}

// CreatedResponse は作成成功時のレスポンスです。
type CreatedResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id_producto"`
}

// SuggestionResponse は説明文生成の結果です。
type SuggestionResponse struct {
	Descripcion string `json:"descripcion"`
}
