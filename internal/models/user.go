package models

import "time"

// User is a back-office operator. Alerts assigned to a deleted user are
// left unassigned.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"not null;default:'Viewer'" json:"role"`
	TokenVersion int       `gorm:"default:1" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	AssignedAlerts []FraudAlert `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL;" json:"-"`
	Feedbacks      []Feedback   `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT;" json:"-"`
}
