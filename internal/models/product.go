package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryRawMaterial marks production inputs. They are stocked but never sold
// to clients, so sales views and the visit catalogue leave them out.
const CategoryRawMaterial = "Raw Material"

// Product is a stocked article.
type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string          `gorm:"size:255;not null" json:"name"`
	SKU      string          `gorm:"column:sku;size:50;uniqueIndex;not null" json:"sku"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock    int             `gorm:"not null" json:"stock"`
	Category string          `gorm:"size:100;index" json:"category"`
	Unit     string          `gorm:"size:20" json:"unit"`
}

// IsRawMaterial reports whether the product is a production input.
func (p *Product) IsRawMaterial() bool { return p.Category == CategoryRawMaterial }

// LowStock reports whether stock is under threshold.
func (p *Product) LowStock(threshold int) bool { return p.Stock < threshold }

// Value is the stock valuation at the current price.
func (p *Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}
