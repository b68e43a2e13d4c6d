package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single card or account movement under review.
type Transaction struct {
	ID         uint              `gorm:"primarykey" json:"id"`
	Reference  string            `gorm:"size:50;not null" json:"reference"`
	AccountID  uint              `gorm:"not null;index" json:"account_id"`
	MerchantID uint              `gorm:"not null;index" json:"merchant_id"`
	DeviceID   uint              `gorm:"not null;index" json:"device_id"`
	Amount     decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"amount"`
	Currency   string            `gorm:"size:3;not null" json:"currency"`
	Timestamp  time.Time         `json:"timestamp"`
	Status     TransactionStatus `gorm:"not null" json:"status"`
	CreatedAt  time.Time         `json:"created_at"`

	Account  *Account  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"account,omitempty"`
	Merchant *Merchant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"merchant,omitempty"`
	Device   *Device   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"device,omitempty"`

	FraudAlerts []FraudAlert         `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Features    []TransactionFeature `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	ModelScores []ModelScore         `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// Account owns transactions.
type Account struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	AccountNumber string    `gorm:"uniqueIndex;not null" json:"account_number"`
	HolderName    string    `gorm:"not null" json:"holder_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// Device is the fingerprint a transaction originated from.
type Device struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Hash      string    `gorm:"uniqueIndex;not null" json:"hash"`
	LastIP    string    `json:"last_ip"`
	LastGeo   string    `json:"last_geo"`
	FirstSeen time.Time `json:"first_seen"`
}
