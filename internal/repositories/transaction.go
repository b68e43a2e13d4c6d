package repositories

import (
	"context"
	"errors"
	"time"

	"fraudwatch/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionRepository defines the data access operations for transactions.
// Lookups return nil, nil when the row does not exist.
type TransactionRepository interface {
	// List returns every transaction, newest id first, with account,
	// merchant and device loaded.
	List(ctx context.Context) ([]models.Transaction, error)

	GetByID(ctx context.Context, id uint) (*models.Transaction, error)

	// ListByAccount returns all transactions of one account, oldest first.
	ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error)

	// ListByStatus matches the status case-insensitively.
	ListByStatus(ctx context.Context, status string) ([]models.Transaction, error)

	CountByDevice(ctx context.Context, deviceID uint) (int64, error)

	// Totals returns the transaction count and amount sum.
	Totals(ctx context.Context) (count int64, total decimal.Decimal, err error)

	CountByStatus(ctx context.Context, status models.TransactionStatus) (int64, error)

	// Create stamps CreatedAt and Timestamp when they are zero.
	Create(ctx context.Context, tx *models.Transaction) error

	Update(ctx context.Context, tx *models.Transaction) error

	// Delete removes the transaction and, through the foreign keys, its
	// alerts, features and scores. Deleting a missing id is a no-op.
	Delete(ctx context.Context, id uint) error
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Account").
		Preload("Merchant").
		Preload("Device")
}

func (r *transactionRepository) List(ctx context.Context) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.withRelations(ctx).Order("id DESC").Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.withRelations(ctx).First(&tx, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.withRelations(ctx).
		Where("account_id = ?", accountID).
		Order("timestamp ASC, id ASC").
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) ListByStatus(ctx context.Context, status string) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.withRelations(ctx).
		Where("LOWER(status) = LOWER(?)", status).
		Order("id DESC").
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepository) CountByDevice(ctx context.Context, deviceID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("device_id = ?", deviceID).
		Count(&count).Error
	return count, err
}

func (r *transactionRepository) Totals(ctx context.Context) (int64, decimal.Decimal, error) {
	var (
		count int64
		total decimal.Decimal
	)
	row := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COUNT(*), COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&count, &total); err != nil {
		return 0, decimal.Zero, err
	}
	return count, total, nil
}

func (r *transactionRepository) CountByStatus(ctx context.Context, status models.TransactionStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	now := time.Now().UTC()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = now
	}
	return r.db.WithContext(ctx).Omit("Account", "Merchant", "Device").Create(tx).Error
}

func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{ID: tx.ID}).
		Select("reference", "account_id", "merchant_id", "device_id", "amount", "currency", "timestamp", "status").
		Updates(tx).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Transaction{}, id).Error
}
