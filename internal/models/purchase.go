package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseStatus string

const (
	PurchasePending  PurchaseStatus = "PENDING"
	PurchaseReceived PurchaseStatus = "RECEIVED"
)

// Purchase is a supplier order. Items is a free-text summary.
type Purchase struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Supplier string          `gorm:"size:255;not null" json:"supplier"`
	Date     time.Time       `gorm:"index;not null" json:"date"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status   PurchaseStatus  `gorm:"size:20;not null" json:"status"`
	Items    string          `gorm:"type:text" json:"items"`
}
