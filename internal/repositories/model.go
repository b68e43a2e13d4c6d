package repositories

import (
	"context"

	"fraudwatch/internal/models"

	"gorm.io/gorm"
)

// ModelRepository stores scoring model metadata.
type ModelRepository interface {
	CreateVersion(ctx context.Context, version *models.ModelVersion) error
	ListVersions(ctx context.Context) ([]models.ModelVersion, error)
	CreateScore(ctx context.Context, score *models.ModelScore) error
	CreateFeature(ctx context.Context, feature *models.TransactionFeature) error
}

type modelRepository struct {
	db *gorm.DB
}

func NewModelRepository(db *gorm.DB) ModelRepository {
	return &modelRepository{db: db}
}

func (r *modelRepository) CreateVersion(ctx context.Context, version *models.ModelVersion) error {
	return r.db.WithContext(ctx).Create(version).Error
}

func (r *modelRepository) ListVersions(ctx context.Context) ([]models.ModelVersion, error) {
	var versions []models.ModelVersion
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&versions).Error
	return versions, err
}

func (r *modelRepository) CreateScore(ctx context.Context, score *models.ModelScore) error {
	return r.db.WithContext(ctx).Omit("ModelVersion").Create(score).Error
}

func (r *modelRepository) CreateFeature(ctx context.Context, feature *models.TransactionFeature) error {
	return r.db.WithContext(ctx).Create(feature).Error
}
