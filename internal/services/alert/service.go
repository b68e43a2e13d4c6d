// Package alert raises fraud alerts for large transactions and records
// analyst reviews.
package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fraudwatch/internal/models"
	"fraudwatch/internal/repositories"
	"fraudwatch/internal/services/notification"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// AutoAlertThreshold is the amount above which recording a transaction
// raises an alert.
var AutoAlertThreshold = decimal.NewFromInt(1000)

type Service struct {
	store    *repositories.Store
	notifier notification.Publisher
	log      *logrus.Logger
	now      func() time.Time
}

// NewService creates a new alert service
func NewService(store *repositories.Store, notifier notification.Publisher, log *logrus.Logger) *Service {
	if store == nil {
		panic("store is required")
	}
	if notifier == nil {
		notifier = notification.NewLogPublisher(log)
	}
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateForTransaction raises an Open, High, unassigned alert when tx is
// above AutoAlertThreshold and returns nil otherwise. alerts may be bound to
// the database transaction that recorded tx. Callers publish the returned
// alert with Notify once that transaction commits.
func (s *Service) CreateForTransaction(ctx context.Context, alerts repositories.FraudAlertRepository, tx *models.Transaction) (*models.FraudAlert, error) {
	if !tx.Amount.GreaterThan(AutoAlertThreshold) {
		return nil, nil
	}

	alert := &models.FraudAlert{
		TransactionID: tx.ID,
		Level:         models.RiskLevelHigh,
		Status:        models.AlertStatusOpen,
		CreatedAt:     s.now(),
	}
	if err := alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to create alert for transaction %d: %w", tx.ID, err)
	}

	s.log.WithFields(logrus.Fields{
		"alert_id":       alert.ID,
		"transaction_id": tx.ID,
		"amount":         tx.Amount.String(),
	}).Info("alert raised")
	return alert, nil
}

// Notify publishes an alert event. Failures are logged and dropped.
func (s *Service) Notify(ctx context.Context, eventType string, alert *models.FraudAlert) {
	if alert == nil {
		return
	}
	if err := s.notifier.PublishAlert(ctx, notification.NewAlertEvent(eventType, alert)); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"alert_id": alert.ID,
			"event":    eventType,
		}).Warn("failed to publish alert event")
	}
}

// Review overwrites the status and assignee of an alert. Any status text is
// accepted; known statuses are normalised to their canonical spelling.
func (s *Service) Review(ctx context.Context, id uint, req ReviewRequest, actor string) (*models.FraudAlert, error) {
	if strings.TrimSpace(req.Status) == "" {
		return nil, ErrStatusRequired
	}
	status := models.ParseAlertStatus(req.Status)
	if !status.IsKnown() {
		s.log.WithFields(logrus.Fields{
			"alert_id": id,
			"status":   status,
		}).Warn("storing unrecognised alert status")
	}

	err := s.store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		alert, err := tx.Alerts.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load alert %d: %w", id, err)
		}
		if alert == nil {
			return ErrAlertNotFound
		}

		previous := datatypes.JSONMap{
			"status":      alert.Status,
			"assigned_to": alert.AssignedTo,
		}

		alert.Status = status
		alert.AssignedTo = req.AssignedTo
		if err := tx.Alerts.Update(ctx, alert); err != nil {
			if repositories.IsForeignKeyViolation(err) {
				return ErrAssigneeNotFound
			}
			return fmt.Errorf("failed to update alert %d: %w", id, err)
		}

		return tx.AuditLogs.Create(ctx, &models.AuditLog{
			Entity:   AuditEntity,
			EntityID: alert.ID,
			Action:   "review",
			Data: datatypes.JSONMap{
				"previous": previous,
				"current": datatypes.JSONMap{
					"status":      alert.Status,
					"assigned_to": alert.AssignedTo,
				},
			},
			PerformedBy: actor,
			PerformedAt: s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	alert, err := s.store.Alerts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload alert %d: %w", id, err)
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}

	s.log.WithFields(logrus.Fields{
		"alert_id": id,
		"status":   alert.Status,
		"actor":    actor,
	}).Info("alert reviewed")
	s.Notify(ctx, notification.EventAlertReviewed, alert)
	return alert, nil
}

// List returns alerts matching filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]models.FraudAlert, error) {
	var (
		alerts []models.FraudAlert
		err    error
	)
	switch {
	case filter.Level != "":
		alerts, err = s.store.Alerts.ListByLevel(ctx, string(models.ParseRiskLevel(filter.Level)))
	case filter.Status != "":
		alerts, err = s.store.Alerts.ListByStatus(ctx, string(models.ParseAlertStatus(filter.Status)))
	default:
		alerts, err = s.store.Alerts.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	if filter.Level != "" && filter.Status != "" {
		want := strings.ToLower(string(models.ParseAlertStatus(filter.Status)))
		filtered := alerts[:0]
		for _, a := range alerts {
			if strings.ToLower(string(a.Status)) == want {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}
	if alerts == nil {
		alerts = []models.FraudAlert{}
	}
	return alerts, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.FraudAlert, error) {
	alert, err := s.store.Alerts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert %d: %w", id, err)
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}
	return alert, nil
}

func (s *Service) ListByTransaction(ctx context.Context, transactionID uint) ([]models.FraudAlert, error) {
	alerts, err := s.store.Alerts.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts for transaction %d: %w", transactionID, err)
	}
	return alerts, nil
}

// History returns the audit trail of one alert.
func (s *Service) History(ctx context.Context, id uint) ([]models.AuditLog, error) {
	return s.store.AuditLogs.ListByEntity(ctx, AuditEntity, id)
}

// Dashboard summarises the alert queue.
func (s *Service) Dashboard(ctx context.Context) (*models.AlertDashboard, error) {
	alerts, err := s.store.Alerts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	d := &models.AlertDashboard{
		TotalAlerts:       len(alerts),
		RecentAlerts:      []models.FraudAlert{},
		HighRiskAlerts:    []models.FraudAlert{},
		ResolutionRate:    decimal.Zero,
		FalsePositiveRate: decimal.Zero,
	}

	dismissed := 0
	for i, a := range alerts {
		if i < RecentAlertLimit {
			d.RecentAlerts = append(d.RecentAlerts, a)
		}
		switch models.ParseAlertStatus(string(a.Status)) {
		case models.AlertStatusOpen:
			d.OpenAlerts++
		case models.AlertStatusUnderReview:
			d.UnderReviewAlerts++
		case models.AlertStatusResolved:
			d.ResolvedAlerts++
		case models.AlertStatusDismissed:
			dismissed++
		}
		if a.Level == models.RiskLevelHigh {
			d.HighPriority++
			d.HighRiskAlerts = append(d.HighRiskAlerts, a)
		}
	}

	if d.TotalAlerts > 0 {
		d.ResolutionRate = percentage(d.ResolvedAlerts, d.TotalAlerts)
		d.FalsePositiveRate = percentage(dismissed, d.TotalAlerts)
	}
	return d, nil
}

func percentage(part, total int) decimal.Decimal {
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
