package services

import (
	"context"
	"strings"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CompanyInput edits the issuing business.
type CompanyInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Currency string `json:"currency"`
}

type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

// Get returns the company settings. A database without any yields a
// placeholder in USD so receipts can still be printed.
func (s *CompanyService) Get(ctx context.Context) (*models.CompanySettings, error) {
	var c models.CompanySettings
	err := s.db.WithContext(ctx).Order("id").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.CompanySettings{Name: "Slatko", Currency: "USD"}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load company settings")
	}
	return &c, nil
}

// Update writes the settings, creating the row on first use.
func (s *CompanyService) Update(ctx context.Context, actor uint, in CompanyInput) (*models.CompanySettings, error) {
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("currency", in.Currency, v)
	if in.Currency != "" && len(in.Currency) != 3 {
		v.Add("currency", "invalid_choice")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	var c models.CompanySettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id").FirstOrInit(&c).Error; err != nil {
			return errors.Wrap(err, "load company settings")
		}
		c.Name = strings.TrimSpace(in.Name)
		c.Email = strings.TrimSpace(in.Email)
		c.Phone = strings.TrimSpace(in.Phone)
		c.Address = strings.TrimSpace(in.Address)
		c.City = strings.TrimSpace(in.City)
		c.Currency = in.Currency
		if err := tx.Save(&c).Error; err != nil {
			return errors.Wrap(err, "save company settings")
		}
		return record(tx, actor, "company", c.ID, "update", nil)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
