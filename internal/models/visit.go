package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKind tells a returned line from a delivered one.
type LineKind string

const (
	LineReturn   LineKind = "RETURN"
	LineDelivery LineKind = "DELIVERY"
)

// Visit is a finalized delivery stop: the settlement as it was computed on
// site, kept as the client's invoice for that day.
type Visit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Number    string    `gorm:"size:50;uniqueIndex;not null" json:"number"`
	ClientID  uint      `gorm:"index;not null" json:"client_id"`
	Client    *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	DriverID  uint      `gorm:"index;not null" json:"driver_id"`
	Driver    *User     `gorm:"foreignKey:DriverID" json:"-"`
	OrderID   *uint     `gorm:"index" json:"order_id,omitempty"`
	VisitedAt time.Time `gorm:"index;not null" json:"visited_at"`

	PreviousBalance  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"previous_balance"`
	DeliveryTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"delivery_total"`
	ReturnsTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"returns_total"`
	GrandTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"grand_total"`
	PaymentAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"payment_amount"`
	PaymentMethod    PaymentMethod   `gorm:"size:20" json:"payment_method"`
	RemainingBalance decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"remaining_balance"`

	Lines []VisitLine `gorm:"foreignKey:VisitID" json:"lines,omitempty"`
}

// GetDriverID exposes the driver for ownership checks.
func (v *Visit) GetDriverID() uint { return v.DriverID }

// VisitLine is one returned or delivered product of a visit.
type VisitLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	VisitID   uint            `gorm:"index;not null" json:"visit_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Kind      LineKind        `gorm:"size:10;not null" json:"kind"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
}
