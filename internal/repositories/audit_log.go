package repositories

import (
	"context"
	"time"

	"fraudwatch/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	// Create stamps PerformedAt when it is zero.
	Create(ctx context.Context, entry *models.AuditLog) error
	// ListByEntity returns the history of one entity, newest first.
	ListByEntity(ctx context.Context, entity string, entityID uint) ([]models.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entity string, entityID uint) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("performed_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
