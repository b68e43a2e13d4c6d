package repositories

import (
	"context"
	"errors"
	"time"

	"fraudwatch/internal/models"

	"gorm.io/gorm"
)

// FraudAlertRepository defines the data access operations for alerts.
type FraudAlertRepository interface {
	// List returns all alerts, newest first, with their transaction loaded.
	List(ctx context.Context) ([]models.FraudAlert, error)

	// GetByID returns nil, nil when the alert does not exist.
	GetByID(ctx context.Context, id uint) (*models.FraudAlert, error)

	ListByStatus(ctx context.Context, status string) ([]models.FraudAlert, error)
	ListByLevel(ctx context.Context, level string) ([]models.FraudAlert, error)
	ListByTransaction(ctx context.Context, transactionID uint) ([]models.FraudAlert, error)

	// Create stamps CreatedAt when it is zero.
	Create(ctx context.Context, alert *models.FraudAlert) error

	// Update overwrites level, status and assignee.
	Update(ctx context.Context, alert *models.FraudAlert) error
}

type fraudAlertRepository struct {
	db *gorm.DB
}

// NewFraudAlertRepository creates a new instance of FraudAlertRepository
func NewFraudAlertRepository(db *gorm.DB) FraudAlertRepository {
	return &fraudAlertRepository{db: db}
}

func (r *fraudAlertRepository) withTransaction(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Transaction").
		Preload("Transaction.Merchant")
}

func (r *fraudAlertRepository) List(ctx context.Context) ([]models.FraudAlert, error) {
	var alerts []models.FraudAlert
	err := r.withTransaction(ctx).Order("created_at DESC, id DESC").Find(&alerts).Error
	return alerts, err
}

func (r *fraudAlertRepository) GetByID(ctx context.Context, id uint) (*models.FraudAlert, error) {
	var alert models.FraudAlert
	if err := r.withTransaction(ctx).First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (r *fraudAlertRepository) ListByStatus(ctx context.Context, status string) ([]models.FraudAlert, error) {
	var alerts []models.FraudAlert
	err := r.withTransaction(ctx).
		Where("LOWER(status) = LOWER(?)", status).
		Order("created_at DESC, id DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *fraudAlertRepository) ListByLevel(ctx context.Context, level string) ([]models.FraudAlert, error) {
	var alerts []models.FraudAlert
	err := r.withTransaction(ctx).
		Where("LOWER(level) = LOWER(?)", level).
		Order("created_at DESC, id DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *fraudAlertRepository) ListByTransaction(ctx context.Context, transactionID uint) ([]models.FraudAlert, error) {
	var alerts []models.FraudAlert
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at DESC, id DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *fraudAlertRepository) Create(ctx context.Context, alert *models.FraudAlert) error {
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Omit("Transaction", "AssignedUser").Create(alert).Error
}

func (r *fraudAlertRepository) Update(ctx context.Context, alert *models.FraudAlert) error {
	return r.db.WithContext(ctx).
		Model(&models.FraudAlert{ID: alert.ID}).
		Select("level", "status", "assigned_to").
		Updates(map[string]interface{}{
			"level":       alert.Level,
			"status":      alert.Status,
			"assigned_to": alert.AssignedTo,
		}).Error
}
