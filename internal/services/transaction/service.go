// Package transaction records transactions and builds the analyst views
// over them.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fraudwatch/internal/models"
	"fraudwatch/internal/repositories"
	"fraudwatch/internal/repositories/cache"
	"fraudwatch/internal/services/alert"
	"fraudwatch/internal/services/notification"
	"fraudwatch/internal/services/risk"
	"fraudwatch/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Service struct {
	store  *repositories.Store
	alerts *alert.Service
	cache  StatsCache
	log    *logrus.Logger
	now    func() time.Time
}

// NewService creates a new transaction service. statsCache may be nil, in
// which case statistics are computed on every call.
func NewService(store *repositories.Store, alerts *alert.Service, statsCache StatsCache, log *logrus.Logger) *Service {
	if store == nil {
		panic("store is required")
	}
	if alerts == nil {
		panic("alert service is required")
	}
	return &Service{
		store:  store,
		alerts: alerts,
		cache:  statsCache,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and records a transaction. A transaction above the
// alert threshold gets its alert in the same database transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	tx := &models.Transaction{
		Reference:  strings.TrimSpace(req.Reference),
		AccountID:  req.AccountID,
		MerchantID: req.MerchantID,
		DeviceID:   req.DeviceID,
		Amount:     req.Amount,
		Currency:   strings.ToUpper(strings.TrimSpace(req.Currency)),
		Status:     models.ParseTransactionStatus(req.Status),
	}
	if req.Timestamp != nil {
		tx.Timestamp = req.Timestamp.UTC()
	}

	v := validation.New()
	v.Transaction(tx)
	if v.Valid() {
		if err := s.checkReferences(ctx, tx, v); err != nil {
			return nil, err
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	var raised *models.FraudAlert
	err := s.store.WithinTransaction(ctx, func(r *repositories.Store) error {
		if err := r.Transactions.Create(ctx, tx); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		a, err := s.alerts.CreateForTransaction(ctx, r.Alerts, tx)
		if err != nil {
			return err
		}
		raised = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	s.alerts.Notify(ctx, notification.EventAlertCreated, raised)

	s.log.WithFields(logrus.Fields{
		"transaction_id": tx.ID,
		"reference":      tx.Reference,
		"amount":         tx.Amount.String(),
		"alerted":        raised != nil,
	}).Info("transaction recorded")

	return &CreateResult{Transaction: tx, Alert: raised}, nil
}

func (s *Service) checkReferences(ctx context.Context, tx *models.Transaction, v *validation.Validator) error {
	account, err := s.store.Accounts.GetByID(ctx, tx.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	v.Check(account != nil, "account_id", "does not exist")

	merchant, err := s.store.Merchants.GetByID(ctx, tx.MerchantID)
	if err != nil {
		return fmt.Errorf("failed to load merchant: %w", err)
	}
	v.Check(merchant != nil, "merchant_id", "does not exist")

	device, err := s.store.Devices.GetByID(ctx, tx.DeviceID)
	if err != nil {
		return fmt.Errorf("failed to load device: %w", err)
	}
	v.Check(device != nil, "device_id", "does not exist")
	return nil
}

// List returns every transaction, newest first.
func (s *Service) List(ctx context.Context) ([]models.Transaction, error) {
	txns, err := s.store.Transactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return txns, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, err := s.store.Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %d: %w", id, err)
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}

// Search returns transactions whose status equals status, ignoring case.
func (s *Service) Search(ctx context.Context, status string) ([]models.Transaction, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrStatusRequired
	}
	txns, err := s.store.Transactions.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	if len(txns) == 0 {
		return nil, ErrNoMatches
	}
	return txns, nil
}

func (s *Service) ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	txns, err := s.store.Transactions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %d: %w", accountID, err)
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return txns, nil
}

// Summary renders a one-line description such as
// "Transaction TXN001: $150.50 - Completed".
func (s *Service) Summary(ctx context.Context, id uint) (string, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Transaction %s: $%s - %s", tx.Reference, tx.Amount.StringFixed(2), tx.Status), nil
}

// Delete removes a transaction and everything that cascades from it.
func (s *Service) Delete(ctx context.Context, id uint) error {
	tx, err := s.store.Transactions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load transaction %d: %w", id, err)
	}
	if tx == nil {
		return ErrTransactionNotFound
	}
	if err := s.store.Transactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	s.invalidateStats(ctx)
	s.log.WithField("transaction_id", id).Info("transaction deleted")
	return nil
}

// Assess scores a stored transaction against its account history.
func (s *Service) Assess(ctx context.Context, id uint) (*Scored, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.store.Transactions.ListByAccount(ctx, tx.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account history: %w", err)
	}
	assessment, err := risk.Assess(tx, history, s.now())
	if err != nil {
		return nil, err
	}
	return &Scored{Transaction: tx, Assessment: assessment}, nil
}

// Detail builds the analyst view of one transaction.
func (s *Service) Detail(ctx context.Context, id uint) (*models.TransactionDetail, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.store.Transactions.ListByAccount(ctx, tx.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account history: %w", err)
	}
	assessment, err := risk.Assess(tx, history, s.now())
	if err != nil {
		return nil, err
	}
	alerts, err := s.store.Alerts.ListByTransaction(ctx, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	deviceCount, err := s.store.Transactions.CountByDevice(ctx, tx.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to count device transactions: %w", err)
	}

	spent := decimal.Zero
	for _, h := range history {
		spent = spent.Add(h.Amount)
	}

	return &models.TransactionDetail{
		Transaction:             tx,
		RelatedAlerts:           alerts,
		RiskScore:               assessment.Score,
		RiskLevel:               assessment.Level,
		RiskFactors:             assessment.Factors,
		HighRisk:                risk.IsHighRisk(tx),
		AccountTransactionCount: len(history),
		AccountTotalSpent:       spent,
		IsFirstTransaction:      risk.IsFirstTransaction(history),
		IsNewDevice:             risk.IsNewDevice(tx.Device, s.now()),
		DeviceTransactionCount:  deviceCount,
	}, nil
}

// Stats returns the aggregate counters, served from cache when possible.
func (s *Service) Stats(ctx context.Context) (*models.TransactionStats, error) {
	if s.cache != nil {
		var cached models.TransactionStats
		found, err := s.cache.Get(ctx, cache.StatsKey, &cached)
		if err != nil {
			s.log.WithError(err).Warn("stats cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cache.StatsKey, stats, StatsCacheTTL); err != nil {
			s.log.WithError(err).Warn("stats cache write failed")
		}
	}
	return stats, nil
}

func (s *Service) computeStats(ctx context.Context) (*models.TransactionStats, error) {
	count, total, err := s.store.Transactions.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to total transactions: %w", err)
	}
	flagged, err := s.store.Transactions.CountByStatus(ctx, models.TransactionStatusFlagged)
	if err != nil {
		return nil, fmt.Errorf("failed to count flagged transactions: %w", err)
	}
	alerts, err := s.store.Alerts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	high := 0
	for _, a := range alerts {
		if a.Level == models.RiskLevelHigh {
			high++
		}
	}

	average := decimal.Zero
	if count > 0 {
		average = total.Div(decimal.NewFromInt(count)).Round(2)
	}

	return &models.TransactionStats{
		TotalTransactions: int(count),
		TotalAmount:       total,
		AverageAmount:     average,
		FlaggedCount:      int(flagged),
		AlertCount:        len(alerts),
		HighRiskAlerts:    high,
	}, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.StatsKey); err != nil && !errors.Is(err, context.Canceled) {
		s.log.WithError(err).Warn("stats cache invalidation failed")
	}
}
