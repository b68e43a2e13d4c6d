package repositories

import (
	"context"
	"errors"

	"fraudwatch/internal/models"

	"gorm.io/gorm"
)

type MerchantRepository interface {
	List(ctx context.Context) ([]models.Merchant, error)
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	// ListHighRisk returns merchants scored above
	// models.HighRiskMerchantListThreshold, riskiest first.
	ListHighRisk(ctx context.Context) ([]models.Merchant, error)
	Create(ctx context.Context, merchant *models.Merchant) error
}

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) List(ctx context.Context) ([]models.Merchant, error) {
	var merchants []models.Merchant
	err := r.db.WithContext(ctx).Order("name ASC").Find(&merchants).Error
	return merchants, err
}

func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) ListHighRisk(ctx context.Context) ([]models.Merchant, error) {
	var merchants []models.Merchant
	err := r.db.WithContext(ctx).
		Where("risk_score > ?", models.HighRiskMerchantListThreshold).
		Order("risk_score DESC").
		Find(&merchants).Error
	return merchants, err
}

func (r *merchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	return r.db.WithContext(ctx).Create(merchant).Error
}
