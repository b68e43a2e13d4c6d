package transaction

import (
	"context"
	"testing"
	"time"

	"fraudwatch/internal/logger"
	"fraudwatch/internal/models"
	"fraudwatch/internal/repositories"
	"fraudwatch/internal/repositories/cache"
	"fraudwatch/internal/repositories/repotest"
	"fraudwatch/internal/services/alert"
	"fraudwatch/internal/services/notification"
	"fraudwatch/internal/validation"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   *Service
	store *repositories.Store
	data  repotest.Fixture
	mr    *miniredis.Miniredis
}

func setup(t *testing.T) fixture {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.Discard()
	store := repositories.NewStore(repotest.Open(t))
	alerts := alert.NewService(store, notification.NewLogPublisher(log), log)

	return fixture{
		svc:   NewService(store, alerts, cache.NewCacheService(client, time.Hour), log),
		store: store,
		data:  repotest.Seed(t, store, "0.85", time.Now().UTC()),
		mr:    mr,
	}
}

func (f fixture) request(ref, amount string) CreateRequest {
	return CreateRequest{
		Reference:  ref,
		AccountID:  f.data.Account.ID,
		MerchantID: f.data.Merchant.ID,
		DeviceID:   f.data.Device.ID,
		Amount:     decimal.RequireFromString(amount),
		Currency:   "usd",
		Status:     "completed",
	}
}

func TestCreateRaisesAlertAboveThreshold(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.request("TXN002", "5000.00"))
	require.NoError(t, err)
	require.NotNil(t, res.Alert)
	assert.Equal(t, "USD", res.Transaction.Currency)
	assert.Equal(t, models.TransactionStatusCompleted, res.Transaction.Status)

	alerts, err := f.store.Alerts.ListByTransaction(ctx, res.Transaction.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.RiskLevelHigh, alerts[0].Level)
	assert.Equal(t, models.AlertStatusOpen, alerts[0].Status)
	assert.Nil(t, alerts[0].AssignedTo)
}

func TestCreateWithoutAlertAtOrBelowThreshold(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, amount := range []string{"1000.00", "150.50"} {
		res, err := f.svc.Create(ctx, f.request("TXN-"+amount, amount))
		require.NoError(t, err)
		assert.Nil(t, res.Alert)

		alerts, err := f.store.Alerts.ListByTransaction(ctx, res.Transaction.ID)
		require.NoError(t, err)
		assert.Empty(t, alerts)
	}
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := f.request("TX1", "0")
	req.Currency = "DOLLARS"
	_, err := f.svc.Create(ctx, req)
	fields, ok := validation.Fields(err)
	require.True(t, ok, err)
	assert.Contains(t, fields, "reference")
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "currency")

	req = f.request("TXN777", "10")
	req.MerchantID = 9999
	_, err = f.svc.Create(ctx, req)
	fields, ok = validation.Fields(err)
	require.True(t, ok, err)
	assert.Equal(t, "does not exist", fields["merchant_id"])

	req = f.request("TXN778", "10")
	req.Status = ""
	_, err = f.svc.Create(ctx, req)
	fields, ok = validation.Fields(err)
	require.True(t, ok, err)
	assert.Contains(t, fields, "status")

	req = f.request("TXN779", "10")
	req.Currency = "  "
	_, err = f.svc.Create(ctx, req)
	fields, ok = validation.Fields(err)
	require.True(t, ok, err)
	assert.Contains(t, fields, "currency")

	txns, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestSearch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := f.request("TXN002", "5000")
	req.Status = "Flagged"
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Search(ctx, " ")
	assert.ErrorIs(t, err, ErrStatusRequired)

	_, err = f.svc.Search(ctx, "Pending")
	assert.ErrorIs(t, err, ErrNoMatches)

	txns, err := f.svc.Search(ctx, "FLAGGED")
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestDeleteCascadesAndReportsMissing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.request("TXN002", "5000"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, res.Transaction.ID))
	alerts, err := f.store.Alerts.ListByTransaction(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	assert.ErrorIs(t, f.svc.Delete(ctx, res.Transaction.ID), ErrTransactionNotFound)
}

func TestSummary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.request("TXN001", "150.5"))
	require.NoError(t, err)

	summary, err := f.svc.Summary(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "Transaction TXN001: $150.50 - Completed", summary)

	_, err = f.svc.Summary(ctx, 999)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestDetail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.request("TXN002", "5000.00"))
	require.NoError(t, err)

	d, err := f.svc.Detail(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.05", d.RiskScore.StringFixed(2))
	assert.Equal(t, models.RiskLevelHigh, d.RiskLevel)
	assert.Len(t, d.RiskFactors, 4)
	assert.True(t, d.HighRisk)
	assert.True(t, d.IsFirstTransaction)
	assert.True(t, d.IsNewDevice)
	assert.Equal(t, 1, d.AccountTransactionCount)
	assert.EqualValues(t, 1, d.DeviceTransactionCount)
	assert.Len(t, d.RelatedAlerts, 1)
	assert.Equal(t, "5000.00", d.AccountTotalSpent.StringFixed(2))

	_, err = f.svc.Create(ctx, f.request("TXN003", "20"))
	require.NoError(t, err)
	d, err = f.svc.Detail(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.False(t, d.IsFirstTransaction)
	assert.Equal(t, "0.85", d.RiskScore.StringFixed(2))
}

func TestStatsCachedAndInvalidated(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	empty, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalTransactions)
	assert.True(t, empty.AverageAmount.IsZero())
	assert.True(t, f.mr.Exists(cache.StatsKey))

	_, err = f.svc.Create(ctx, f.request("TXN001", "150.50"))
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(cache.StatsKey))

	req := f.request("TXN002", "5000")
	req.Status = "Flagged"
	_, err = f.svc.Create(ctx, req)
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTransactions)
	assert.Equal(t, "5150.50", stats.TotalAmount.StringFixed(2))
	assert.Equal(t, "2575.25", stats.AverageAmount.StringFixed(2))
	assert.Equal(t, 1, stats.FlaggedCount)
	assert.Equal(t, 1, stats.AlertCount)
	assert.Equal(t, 1, stats.HighRiskAlerts)
}

func TestAssess(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.request("TXN001", "10"))
	require.NoError(t, err)

	scored, err := f.svc.Assess(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"High-risk merchant (score: 85.00%)",
		"First transaction on account",
		"New device (first seen less than 7 days ago)",
	}, scored.Assessment.Factors)
}
