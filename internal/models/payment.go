package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a client settled.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCheck        PaymentMethod = "CHECK"
)

// PaymentMethods lists the accepted methods.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentBankTransfer, PaymentCheck}

// Payment is money received from a client, at a visit or recorded by the office.
type Payment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	ClientID  uint            `gorm:"index;not null" json:"client_id"`
	Client    *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	VisitID   *uint           `gorm:"index" json:"visit_id,omitempty"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method    PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Date      time.Time       `gorm:"index;not null" json:"date"`
}
