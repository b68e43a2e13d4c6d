package repositories

import (
	"context"
	"errors"
	"time"

	"fraudwatch/internal/models"

	"gorm.io/gorm"
)

type DeviceRepository interface {
	List(ctx context.Context) ([]models.Device, error)
	GetByID(ctx context.Context, id uint) (*models.Device, error)
	// Create stamps FirstSeen when it is zero.
	Create(ctx context.Context, device *models.Device) error
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) List(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	err := r.db.WithContext(ctx).Order("id ASC").Find(&devices).Error
	return devices, err
}

func (r *deviceRepository) GetByID(ctx context.Context, id uint) (*models.Device, error) {
	var device models.Device
	if err := r.db.WithContext(ctx).First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepository) Create(ctx context.Context, device *models.Device) error {
	if device.FirstSeen.IsZero() {
		device.FirstSeen = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(device).Error
}
