// Package entity defines the domain entities for the purchase feature.
package entity

import "time"

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Order records one successful purchase with a snapshot of the shipping details.
// UserID and ProductID are plain indexed columns without foreign keys.
type Order struct {
	ID                 uint      `gorm:"column:id_compra;primaryKey"`
	UserID             uint      `gorm:"column:id_registro;not null;index"`
	ProductID          uint      `gorm:"column:id_producto;not null;index"`
	Quantity           int       `gorm:"column:cantidad;not null;default:1"`
	Status             Status    `gorm:"column:status;size:20;not null;default:'pending'"`
	ShippingName       string    `gorm:"column:shippingName;size:255;not null"`
	ShippingPhone      string    `gorm:"column:shippingPhone;size:50;not null"`
	ShippingAddress    string    `gorm:"column:shippingAddress;size:255;not null"`
	ShippingPostalCode string    `gorm:"column:shippingPostalCode;size:20;not null"`
	PurchaseDate       time.Time `gorm:"column:purchaseDate;autoCreateTime"`
}

func (Order) TableName() string {
	return "compras"
}
