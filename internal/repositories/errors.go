package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsForeignKeyViolation reports whether err came from a foreign key
// constraint. It recognises gorm's translated error as well as the raw
// postgres and sqlite messages.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}

// IsDuplicateKey reports whether err came from a unique constraint.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
