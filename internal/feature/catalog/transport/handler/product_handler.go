// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/transport/http/dto"
	"shop_backend/internal/feature/catalog/usecase"
)

// CatalogUsecase は商品カタログ操作のユースケースを定義します。
type CatalogUsecase interface {
	Get(ctx context.Context, id uint) (*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, in usecase.ProductInput) (*entity.Product, error)
	Update(ctx context.Context, id uint, changes usecase.ProductChanges) (*entity.Product, error)
	Delete(ctx context.Context, id uint) error
	SuggestDescription(ctx context.Context, id uint) (string, error)
}

// ProductHandler は/api/productos以下のリクエストを処理します。
type ProductHandler struct {
	catalog CatalogUsecase
}

func NewProductHandler(catalog CatalogUsecase) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List は全商品を返します（管理者用）。
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductListResponse(products))
}

// Get は商品を1件返します。認証は不要です。
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := api.BindID(c, "id")
	if err != nil {
		api.WriteError(c, err)
		return
	}
	p, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(p))
}

// Create は商品を作成し201を返します。
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, usecase.ErrMissingProductFields)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		api.WriteError(c, err)
		return
	}
	p, err := h.catalog.Create(c.Request.Context(), in)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	slog.Info("product created", "product_id", p.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.CreatedResponse{Message: "Producto creado.", ID: p.ID})
}

// Update は指定されたフィールドのみ更新します。
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := api.BindID(c, "id")
	if err != nil {
		api.WriteError(c, err)
		return
	}
	var req dto.ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, usecase.ErrMissingProductFields)
		return
	}
	changes, err := req.ToChanges()
	if err != nil {
		api.WriteError(c, err)
		return
	}
	if _, err := h.catalog.Update(c.Request.Context(), id, changes); err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Producto actualizado."})
}

// Delete は商品を削除します。
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := api.BindID(c, "id")
	if err != nil {
		api.WriteError(c, err)
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		api.WriteError(c, err)
		return
	}
	slog.Info("product deleted", "product_id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Producto eliminado."})
}

// SuggestDescription はGeminiで生成した説明文案を返します。商品は更新しません。
func (h *ProductHandler) SuggestDescription(c *gin.Context) {
	id, err := api.BindID(c, "id")
	if err != nil {
		api.WriteError(c, err)
		return
	}
	text, err := h.catalog.SuggestDescription(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuggestionResponse{Descripcion: text})
}
