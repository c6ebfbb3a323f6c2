package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client is a business the company delivers to. Balance is the running
// account: positive means the client owes money, negative means credit.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string          `gorm:"size:255;not null" json:"name"`
	Address   string          `gorm:"size:500" json:"address"`
	Phone     string          `gorm:"size:50" json:"phone"`
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance"`
	LastVisit *time.Time      `json:"last_visit,omitempty"`
}

// Owes reports whether the client has an outstanding balance.
func (c *Client) Owes() bool { return c.Balance.IsPositive() }
