package services

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseInput creates a supplier order. Date is YYYY-MM-DD and defaults to today.
type PurchaseInput struct {
	Supplier string          `json:"supplier"`
	Date     string          `json:"date"`
	Total    decimal.Decimal `json:"total"`
	Items    string          `json:"items"`
}

type PurchaseService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPurchaseService(db *gorm.DB) *PurchaseService {
	return &PurchaseService{db: db, now: time.Now}
}

func (s *PurchaseService) Create(ctx context.Context, actor uint, in PurchaseInput) (*models.Purchase, error) {
	v := validation.Violations{}
	validation.Required("supplier", in.Supplier, v)
	validation.PositiveDecimal("total", in.Total, v)
	date := s.now()
	if strings.TrimSpace(in.Date) != "" {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(in.Date))
		if err != nil {
			v.Add("date", "invalid_date")
		}
		date = d
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	p := models.Purchase{
		Supplier: strings.TrimSpace(in.Supplier),
		Date:     date,
		Total:    in.Total,
		Status:   models.PurchasePending,
		Items:    strings.TrimSpace(in.Items),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return errors.Wrap(err, "create purchase")
		}
		return record(tx, actor, "purchase", p.ID, "create", map[string]any{"supplier": p.Supplier, "total": p.Total})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Receive marks a pending purchase as received.
func (s *PurchaseService) Receive(ctx context.Context, actor, id uint) (*models.Purchase, error) {
	var p models.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return errors.Wrapf(notFound(err, ErrPurchaseNotFound), "purchase %d", id)
		}
		res := tx.Model(&models.Purchase{}).
			Where("id = ? AND status = ?", id, models.PurchasePending).
			Update("status", models.PurchaseReceived)
		if res.Error != nil {
			return errors.Wrap(res.Error, "receive purchase")
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrInvalidTransition, "purchase %d is %s", id, p.Status)
		}
		p.Status = models.PurchaseReceived
		return record(tx, actor, "purchase", id, "receive", nil)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
