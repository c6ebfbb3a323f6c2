package models

import (
	"strings"
	"time"
)

// CompanySettings holds the issuing business printed on visit receipts.
// There is a single row.
type CompanySettings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255" json:"email,omitempty"`
	Phone    string `gorm:"size:50" json:"phone,omitempty"`
	Address  string `gorm:"size:500" json:"address,omitempty"`
	City     string `gorm:"size:100" json:"city,omitempty"`
	Currency string `gorm:"size:3;not null" json:"currency"`
}

// Header returns the non-empty identity lines, name first.
func (c *CompanySettings) Header() []string {
	lines := make([]string, 0, 4)
	for _, s := range []string{c.Name, c.Address, c.City, c.Phone} {
		if s = strings.TrimSpace(s); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}
