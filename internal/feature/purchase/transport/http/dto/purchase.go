// Package dto はpurchaseフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shop_backend/internal/feature/purchase/domain/entity"
)

// PurchaseReq は/api/comprar/:productIdのリクエストボディです。
// カード情報は受け付けますが保存しません。
type PurchaseReq struct {
	Quantity   Quantity `json:"quantity"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	PostalCode string   `json:"postalCode"`
	CardNumber string   `json:"cardNumber"`
	ExpiryDate string   `json:"expiryDate"`
	CVV        string   `json:"cvv"`
}

// Quantity は数値と数字文字列（フォーム送信の"2"など）の両方を受け付けます。
// 空文字とnullは0として扱い、範囲の検証はユースケースに任せます。
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*q = 0
			return nil
		}
		data = []byte(s)
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("quantity: %q is not an integer", data)
	}
	*q = Quantity(n)
	return nil
}

// PurchaseResponse は購入成功時のレスポンスです。
type PurchaseResponse struct {
	Success  bool `json:"success"`
	CompraID uint `json:"compraId"`
}

// OrderResponse は注文履歴の1件です。
type OrderResponse struct {
	ID                 uint      `json:"id_compra"`
	ProductID          uint      `json:"id_producto"`
	Cantidad           int       `json:"cantidad"`
	Status             string    `json:"status"`
	ShippingName       string    `json:"shippingName"`
	ShippingPhone      string    `json:"shippingPhone"`
	ShippingAddress    string    `json:"shippingAddress"`
	ShippingPostalCode string    `json:"shippingPostalCode"`
	PurchaseDate       time.Time `json:"purchaseDate"`
}

func NewOrderListResponse(orders []entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderResponse{
			ID:                 o.ID,
			ProductID:          o.ProductID,
			Cantidad:           o.Quantity,
			Status:             string(o.Status),
			ShippingName:       o.ShippingName,
			ShippingPhone:      o.ShippingPhone,
			ShippingAddress:    o.ShippingAddress,
			ShippingPostalCode: o.ShippingPostalCode,
			PurchaseDate:       o.PurchaseDate,
		})
	}
	return out
}
