// Package handler はpurchaseフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	authentity "shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/transport/middleware"
	"shop_backend/internal/feature/purchase/domain/entity"
	"shop_backend/internal/feature/purchase/transport/http/dto"
	"shop_backend/internal/feature/purchase/usecase"
)

// PurchaseUsecase は購入操作のユースケースを定義します。
type PurchaseUsecase interface {
	Purchase(ctx context.Context, buyer authentity.Identity, productID uint, in usecase.PurchaseInput) (uint, error)
	History(ctx context.Context, buyer authentity.Identity) ([]entity.Order, error)
}

// PurchaseHandler は購入関連のHTTPリクエストを処理します。
type PurchaseHandler struct {
	purchases PurchaseUsecase
}

func NewPurchaseHandler(purchases PurchaseUsecase) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// Purchase は/api/comprar/:productIdを処理し、成功時は201で注文IDを返します。
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	productID, err := api.BindID(c, "productId")
	if err != nil {
		api.WriteError(c, err)
		return
	}
	var req dto.PurchaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, usecase.ErrInvalidBody)
		return
	}

	buyer, _ := middleware.IdentityFromContext(c)
	id, err := h.purchases.Purchase(c.Request.Context(), buyer, productID, usecase.PurchaseInput{
		Quantity:   int(req.Quantity),
		Name:       req.Name,
		Phone:      req.Phone,
		Address:    req.Address,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PurchaseResponse{Success: true, CompraID: id})
}

// History はログイン中の顧客の注文履歴を返します。
func (h *PurchaseHandler) History(c *gin.Context) {
	buyer, _ := middleware.IdentityFromContext(c)
	orders, err := h.purchases.History(c.Request.Context(), buyer)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListResponse(orders))
}
