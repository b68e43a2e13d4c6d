package transaction

import (
	"context"
	"time"

	"fraudwatch/internal/models"
	"fraudwatch/internal/services/risk"

	"github.com/shopspring/decimal"
)

// CreateRequest is the payload for recording a transaction.
type CreateRequest struct {
	Reference  string          `json:"reference"`
	AccountID  uint            `json:"account_id"`
	MerchantID uint            `json:"merchant_id"`
	DeviceID   uint            `json:"device_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Timestamp  *time.Time      `json:"timestamp"`
	Status     string          `json:"status"`
}

// CreateResult is a recorded transaction and the alert it raised, if any.
type CreateResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Alert       *models.FraudAlert  `json:"alert,omitempty"`
}

// Scored pairs a transaction with its current risk assessment.
type Scored struct {
	Transaction *models.Transaction `json:"transaction"`
	Assessment  risk.Assessment     `json:"assessment"`
}

// StatsCache is the subset of the redis cache used for statistics.
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
