package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus follows PENDING → PREPARED → DELIVERED, or CANCELLED before delivery.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPrepared  OrderStatus = "PREPARED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:  {OrderPrepared, OrderCancelled},
	OrderPrepared: {OrderDelivered, OrderCancelled},
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the order still needs a delivery.
func (s OrderStatus) Active() bool { return s == OrderPending || s == OrderPrepared }

// Order is a client order with its line items.
type Order struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ClientID uint            `gorm:"index;not null" json:"client_id"`
	Client   *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Date     time.Time       `gorm:"index;not null" json:"date"`
	Status   OrderStatus     `gorm:"size:20;index;not null" json:"status"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Items    []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// ComputeTotal sums the line totals.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// OrderItem is one product line, priced at order time.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// LineTotal is price × quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
