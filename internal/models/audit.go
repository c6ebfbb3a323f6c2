package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records a state change made through the API.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UserID     *uint          `gorm:"index" json:"user_id,omitempty"`
	EntityType string         `gorm:"size:50;index:idx_audit_entity;not null" json:"entity_type"`
	EntityID   uint           `gorm:"index:idx_audit_entity;not null" json:"entity_id"`
	Action     string         `gorm:"size:50;not null" json:"action"`
	Details    datatypes.JSON `json:"details,omitempty"`
}
