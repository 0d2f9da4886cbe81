// Package entity defines the domain entities for the catalog feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MaxNameLength        = 50
	MaxDescriptionLength = 200

	// PriceScale はprecio列の小数桁数です。
	PriceScale = 2

	DefaultVersion = "1.0"
	DefaultFormat  = "Digital"
)

// MaxPrice はdecimal(10,2)に収まる最大の価格です。
var MaxPrice = decimal.RequireFromString("99999999.99")

// Product is a catalog item. Stock is the single source of truth for availability
// and never goes negative.
type Product struct {
	ID          uint            `gorm:"column:id_producto;primaryKey"`
	Name        string          `gorm:"column:nombre;size:50;not null"`
	Description string          `gorm:"column:descripcion;size:200;not null"`
	Price       decimal.Decimal `gorm:"column:precio;type:decimal(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null"`
	CreatedAt   time.Time       `gorm:"column:fechaCreacion;autoCreateTime"`

	// descriptive metadata
	ReleaseDate     *time.Time `gorm:"column:releaseDate"`
	Version         string     `gorm:"column:version;size:20;not null;default:'1.0'"`
	Format          string     `gorm:"column:format;size:20;not null;default:'Digital'"`
	InGamePurchases bool       `gorm:"column:inGamePurchases;not null;default:false"`
	Rating          string     `gorm:"column:rating;size:20"`
}

func (Product) TableName() string {
	return "productos"
}

// InStock reports whether at least qty units are available.
func (p *Product) InStock(qty int) bool {
	return p.Stock >= qty
}
