package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one gorm handle.
type Store struct {
	db *gorm.DB

	Transactions TransactionRepository
	Alerts       FraudAlertRepository
	Merchants    MerchantRepository
	Accounts     AccountRepository
	Devices      DeviceRepository
	Users        UserRepository
	AuditLogs    AuditLogRepository
	Models       ModelRepository
}

// NewStore creates a Store bound to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Transactions: NewTransactionRepository(db),
		Alerts:       NewFraudAlertRepository(db),
		Merchants:    NewMerchantRepository(db),
		Accounts:     NewAccountRepository(db),
		Devices:      NewDeviceRepository(db),
		Users:        NewUserRepository(db),
		AuditLogs:    NewAuditLogRepository(db),
		Models:       NewModelRepository(db),
	}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithinTransaction runs fn with a Store bound to a database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
