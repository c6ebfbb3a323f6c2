package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BatchInput records produced goods.
type BatchInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type ProductionService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewProductionService(db *gorm.DB) *ProductionService {
	return &ProductionService{db: db, now: time.Now}
}

// batchNumberAttempts bounds retries when a concurrent recording takes the
// same batch number first.
const batchNumberAttempts = 3

// Record stores a batch numbered B-YYYYMMDD-NN and adds it to stock.
func (s *ProductionService) Record(ctx context.Context, worker uint, in BatchInput) (*models.ProductionBatch, error) {
	v := validation.Violations{}
	validation.RequiredID("product_id", in.ProductID, v)
	validation.PositiveInt("quantity", in.Quantity, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var (
		batch *models.ProductionBatch
		err   error
	)
	for attempt := 1; ; attempt++ {
		batch, err = s.record(ctx, worker, in)
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == batchNumberAttempts {
			break
		}
		logrus.WithField("attempt", attempt).Warn("batch number taken, retrying")
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"batch": batch.Number, "product_id": in.ProductID, "quantity": in.Quantity}).Info("production batch recorded")
	return batch, nil
}

func (s *ProductionService) record(ctx context.Context, worker uint, in BatchInput) (*models.ProductionBatch, error) {
	now := s.now()
	batch := models.ProductionBatch{ProductID: in.ProductID, Quantity: in.Quantity, ProducedAt: now, WorkerID: worker}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, in.ProductID).Error; err != nil {
			return errors.Wrapf(notFound(err, ErrProductNotFound), "product %d", in.ProductID)
		}

		number, err := nextBatchNumber(tx, now)
		if err != nil {
			return err
		}
		batch.Number = number
		if err := tx.Create(&batch).Error; err != nil {
			return errors.Wrap(err, "create batch")
		}

		err = tx.Model(&models.Product{}).Where("id = ?", product.ID).
			UpdateColumn("stock", gorm.Expr("stock + ?", in.Quantity)).Error
		if err != nil {
			return errors.Wrap(err, "increase stock")
		}
		product.Stock += in.Quantity
		batch.Product = &product
		return record(tx, worker, "batch", batch.ID, "create", map[string]any{"number": batch.Number, "quantity": in.Quantity})
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// nextBatchNumber follows the highest number of the day, so gaps left by
// removed batches are never reused.
func nextBatchNumber(tx *gorm.DB, day time.Time) (string, error) {
	prefix := "B-" + day.Format("20060102") + "-"
	var last []string
	err := tx.Model(&models.ProductionBatch{}).
		Where("number LIKE ?", prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		Limit(1).
		Pluck("number", &last).Error
	if err != nil {
		return "", errors.Wrap(err, "find last batch number")
	}
	seq := 1
	if len(last) > 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(last[0], prefix))
		if err != nil {
			return "", errors.Wrapf(err, "parse batch number %q", last[0])
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%02d", prefix, seq), nil
}

// Recent lists the latest batches, newest first.
func (s *ProductionService) Recent(ctx context.Context, limit int) ([]models.ProductionBatch, error) {
	var batches []models.ProductionBatch
	err := s.db.WithContext(ctx).Preload("Product").
		Order("produced_at DESC, id DESC").
		Limit(limit).
		Find(&batches).Error
	return batches, errors.Wrap(err, "load batches")
}
