package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ModelVersion, ModelScore and TransactionFeature back an offline scoring
// pipeline. The service only seeds and stores them.
type ModelVersion struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Version      string         `gorm:"not null" json:"version"`
	Metrics      datatypes.JSON `json:"metrics"`
	FileLocation string         `json:"file_location"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ModelScore struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	TransactionID  uint            `gorm:"not null;index" json:"transaction_id"`
	ModelVersionID uint            `gorm:"not null;index" json:"model_version_id"`
	Score          decimal.Decimal `gorm:"type:numeric(6,4)" json:"score"`
	Explanation    string          `json:"explanation"`
	CreatedAt      time.Time       `json:"created_at"`

	ModelVersion *ModelVersion `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`
}

type TransactionFeature struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	TransactionID uint           `gorm:"not null;index" json:"transaction_id"`
	FeatureJSON   datatypes.JSON `json:"features"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Feedback is an analyst label on an alert or transaction.
type Feedback struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	RelatedID   uint      `gorm:"not null" json:"related_id"`
	RelatedType string    `gorm:"not null" json:"related_type"`
	Label       string    `json:"label"`
	Notes       string    `json:"notes"`
	CreatedBy   uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`

	Author *User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT;" json:"-"`
}
