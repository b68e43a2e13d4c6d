package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Entity      string            `gorm:"not null;index:idx_audit_entity" json:"entity"`
	EntityID    uint              `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Action      string            `gorm:"not null" json:"action"`
	Data        datatypes.JSONMap `json:"data"`
	PerformedBy string            `json:"performed_by"`
	PerformedAt time.Time         `json:"performed_at"`
}
