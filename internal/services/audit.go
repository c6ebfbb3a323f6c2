package services

import (
	"context"
	"encoding/json"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// record appends an audit entry inside tx. A zero actor is stored as NULL.
func record(tx *gorm.DB, actor uint, entity string, id uint, action string, details any) error {
	entry := models.AuditLog{EntityType: entity, EntityID: id, Action: action}
	if actor != 0 {
		entry.UserID = &actor
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return errors.Wrap(err, "encode audit details")
		}
		entry.Details = datatypes.JSON(raw)
	}
	return errors.Wrapf(tx.Create(&entry).Error, "audit %s %d %s", entity, id, action)
}

// AuditService reads the audit trail.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Trail returns the entries of one entity, newest first.
func (s *AuditService) Trail(ctx context.Context, entity string, id uint) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entity, id).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, errors.Wrap(err, "load audit trail")
}
