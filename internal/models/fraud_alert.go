package models

import "time"

// FraudAlert is a review item raised against a single transaction.
type FraudAlert struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	TransactionID uint        `gorm:"not null;index" json:"transaction_id"`
	Level         RiskLevel   `gorm:"not null" json:"level"`
	Status        AlertStatus `gorm:"not null" json:"status"`
	AssignedTo    *uint       `gorm:"index" json:"assigned_to"`
	CreatedAt     time.Time   `json:"created_at"`

	Transaction  *Transaction `json:"transaction,omitempty"`
	AssignedUser *User        `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL;" json:"-"`
}
