package services

import (
	"context"
	"strings"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category string          `json:"category"`
	Unit     string          `json:"unit"`
}

func (in ProductInput) validate() error {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("sku", in.SKU, v)
	validation.PositiveDecimal("price", in.Price, v)
	validation.NonNegativeInt("stock", in.Stock, v)
	return v.Err()
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	p.Price = in.Price
	p.Stock = in.Stock
	p.Category = strings.TrimSpace(in.Category)
	p.Unit = strings.TrimSpace(in.Unit)
}

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, errors.Wrapf(notFound(err, ErrProductNotFound), "product %d", id)
	}
	return &p, nil
}

func skuTaken(tx *gorm.DB, sku string, except uint) (bool, error) {
	var n int64
	err := tx.Unscoped().Model(&models.Product{}).Where("sku = ? AND id <> ?", sku, except).Count(&n).Error
	return n > 0, errors.Wrap(err, "check sku")
}

func (s *ProductService) Create(ctx context.Context, actor uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var p models.Product
	in.apply(&p)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := skuTaken(tx, p.SKU, 0)
		if err != nil {
			return err
		}
		if taken {
			return errors.Wrapf(ErrDuplicateSKU, "%s", p.SKU)
		}
		if err := tx.Create(&p).Error; err != nil {
			return errors.Wrap(err, "create product")
		}
		return record(tx, actor, "product", p.ID, "create", map[string]any{"sku": p.SKU})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, actor, id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return errors.Wrapf(notFound(err, ErrProductNotFound), "product %d", id)
		}
		in.apply(&p)
		taken, err := skuTaken(tx, p.SKU, id)
		if err != nil {
			return err
		}
		if taken {
			return errors.Wrapf(ErrDuplicateSKU, "%s", p.SKU)
		}
		if err := tx.Save(&p).Error; err != nil {
			return errors.Wrap(err, "update product")
		}
		return record(tx, actor, "product", id, "update", nil)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Delete(ctx context.Context, actor, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete product")
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrProductNotFound, "product %d", id)
		}
		return record(tx, actor, "product", id, "delete", nil)
	})
}
