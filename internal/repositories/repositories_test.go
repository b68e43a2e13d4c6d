package repositories_test

import (
	"context"
	"testing"
	"time"

	"fraudwatch/internal/models"
	"fraudwatch/internal/repositories"
	"fraudwatch/internal/repositories/repotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func setup(t *testing.T) (*repositories.Store, repotest.Fixture) {
	store := repositories.NewStore(repotest.Open(t))
	fixture := repotest.Seed(t, store, "0.85", time.Now().UTC())
	return store, fixture
}

func TestTransactionCreateStampsTimes(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	tx := f.Transaction("TXN001", "150.50", models.TransactionStatusCompleted)
	require.NoError(t, store.Transactions.Create(ctx, tx))
	assert.NotZero(t, tx.ID)
	assert.False(t, tx.CreatedAt.IsZero())
	assert.False(t, tx.Timestamp.IsZero())

	got, err := store.Transactions.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString("150.50").Equal(got.Amount))
	require.NotNil(t, got.Merchant)
	assert.Equal(t, f.Merchant.Name, got.Merchant.Name)
	require.NotNil(t, got.Device)
	require.NotNil(t, got.Account)
}

func TestTransactionGetByIDMissing(t *testing.T) {
	store, _ := setup(t)

	got, err := store.Transactions.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransactionListNewestFirst(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	for _, ref := range []string{"TXN001", "TXN002", "TXN003"} {
		require.NoError(t, store.Transactions.Create(ctx, f.Transaction(ref, "10", models.TransactionStatusCompleted)))
	}

	txns, err := store.Transactions.List(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, "TXN003", txns[0].Reference)
	assert.Equal(t, "TXN001", txns[2].Reference)
}

func TestTransactionListByStatusIsCaseInsensitive(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	require.NoError(t, store.Transactions.Create(ctx, f.Transaction("TXN001", "10", models.TransactionStatusFlagged)))
	require.NoError(t, store.Transactions.Create(ctx, f.Transaction("TXN002", "10", models.TransactionStatusCompleted)))

	tests := []struct {
		status string
		want   int
	}{
		{"flagged", 1},
		{"FLAGGED", 1},
		{"Completed", 1},
		{"Flag", 0},
		{"Pending", 0},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			txns, err := store.Transactions.ListByStatus(ctx, tt.status)
			require.NoError(t, err)
			assert.Len(t, txns, tt.want)
		})
	}
}

func TestTransactionDeleteCascadesAlerts(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	tx := f.Transaction("TXN002", "5000", models.TransactionStatusFlagged)
	require.NoError(t, store.Transactions.Create(ctx, tx))
	require.NoError(t, store.Alerts.Create(ctx, &models.FraudAlert{
		TransactionID: tx.ID,
		Level:         models.RiskLevelHigh,
		Status:        models.AlertStatusOpen,
	}))
	require.NoError(t, store.Models.CreateFeature(ctx, &models.TransactionFeature{
		TransactionID: tx.ID,
		FeatureJSON:   []byte(`{"velocity":3}`),
	}))

	require.NoError(t, store.Transactions.Delete(ctx, tx.ID))

	got, err := store.Transactions.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	alerts, err := store.Alerts.ListByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestTransactionDeleteMissingIsNoop(t *testing.T) {
	store, _ := setup(t)
	assert.NoError(t, store.Transactions.Delete(context.Background(), 4242))
}

func TestTransactionRestrictsUnknownMerchant(t *testing.T) {
	store, f := setup(t)

	tx := f.Transaction("TXN009", "10", models.TransactionStatusPending)
	tx.MerchantID = 9999
	assert.Error(t, store.Transactions.Create(context.Background(), tx))
}

func TestTransactionTotalsAndCounts(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	count, total, err := store.Transactions.Totals(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, total.IsZero())

	require.NoError(t, store.Transactions.Create(ctx, f.Transaction("TXN001", "150.50", models.TransactionStatusCompleted)))
	require.NoError(t, store.Transactions.Create(ctx, f.Transaction("TXN002", "5000", models.TransactionStatusFlagged)))

	count, total, err = store.Transactions.Totals(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Equal(t, "5150.5", total.String())

	flagged, err := store.Transactions.CountByStatus(ctx, models.TransactionStatusFlagged)
	require.NoError(t, err)
	assert.EqualValues(t, 1, flagged)

	byDevice, err := store.Transactions.CountByDevice(ctx, f.Device.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, byDevice)
}

func TestTransactionUpdateOverwrites(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	tx := f.Transaction("TXN001", "10", models.TransactionStatusPending)
	require.NoError(t, store.Transactions.Create(ctx, tx))

	tx.Status = models.TransactionStatusCompleted
	tx.Amount = decimal.RequireFromString("12.25")
	require.NoError(t, store.Transactions.Update(ctx, tx))

	got, err := store.Transactions.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, got.Status)
	assert.True(t, decimal.RequireFromString("12.25").Equal(got.Amount))
}

func TestAlertUpdateAndFilters(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	tx := f.Transaction("TXN002", "5000", models.TransactionStatusFlagged)
	require.NoError(t, store.Transactions.Create(ctx, tx))
	alert := &models.FraudAlert{TransactionID: tx.ID, Level: models.RiskLevelHigh, Status: models.AlertStatusOpen}
	require.NoError(t, store.Alerts.Create(ctx, alert))
	assert.False(t, alert.CreatedAt.IsZero())

	alert.Status = models.AlertStatusUnderReview
	alert.AssignedTo = &f.Analyst.ID
	require.NoError(t, store.Alerts.Update(ctx, alert))

	got, err := store.Alerts.GetByID(ctx, alert.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.AlertStatusUnderReview, got.Status)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, f.Analyst.ID, *got.AssignedTo)
	require.NotNil(t, got.Transaction)
	assert.Equal(t, "TXN002", got.Transaction.Reference)

	byStatus, err := store.Alerts.ListByStatus(ctx, "under review")
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	byLevel, err := store.Alerts.ListByLevel(ctx, "high")
	require.NoError(t, err)
	assert.Len(t, byLevel, 1)

	byLevel, err = store.Alerts.ListByLevel(ctx, "Low")
	require.NoError(t, err)
	assert.Empty(t, byLevel)

	missing, err := store.Alerts.GetByID(ctx, 777)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAlertUpdateRejectsUnknownAssignee(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	tx := f.Transaction("TXN002", "5000", models.TransactionStatusFlagged)
	require.NoError(t, store.Transactions.Create(ctx, tx))
	alert := &models.FraudAlert{TransactionID: tx.ID, Level: models.RiskLevelHigh, Status: models.AlertStatusOpen}
	require.NoError(t, store.Alerts.Create(ctx, alert))

	ghost := uint(9999)
	alert.AssignedTo = &ghost
	assert.Error(t, store.Alerts.Update(ctx, alert))
}

func TestMerchantListHighRisk(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	for name, score := range map[string]string{"Walmart": "0.15", "Borderline": "0.6", "Crypto Exchange": "0.70"} {
		require.NoError(t, store.Merchants.Create(ctx, &models.Merchant{Name: name, RiskScore: decimal.RequireFromString(score)}))
	}

	merchants, err := store.Merchants.ListHighRisk(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(merchants))
	for _, m := range merchants {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Acme", "Crypto Exchange"}, names)
}

func TestUserRepository(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	got, err := store.Users.GetByUsername(ctx, f.Analyst.Username)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.TokenVersion)

	require.NoError(t, store.Users.IncrementTokenVersion(ctx, got.ID))
	require.NoError(t, store.Users.UpdateRole(ctx, got.ID, models.RoleAdmin))

	got, err = store.Users.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, 3, got.TokenVersion)

	assert.ErrorIs(t, store.Users.UpdateRole(ctx, 9999, models.RoleViewer), repositories.ErrUserNotFound)

	users, total, err := store.Users.ListPaginated(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, users, 1)

	none, err := store.Users.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAuditLogListByEntity(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, store.AuditLogs.Create(ctx, &models.AuditLog{Entity: "FraudAlert", EntityID: 1, Action: "review", Data: datatypes.JSONMap{"status": "Resolved"}, PerformedBy: "admin"}))
	require.NoError(t, store.AuditLogs.Create(ctx, &models.AuditLog{Entity: "FraudAlert", EntityID: 2, Action: "review"}))

	entries, err := store.AuditLogs.ListByEntity(ctx, "FraudAlert", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Resolved", entries[0].Data["status"])
	assert.False(t, entries[0].PerformedAt.IsZero())
}

func TestWithinTransactionRollsBack(t *testing.T) {
	store, f := setup(t)
	ctx := context.Background()

	err := store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Transactions.Create(ctx, f.Transaction("TXN001", "10", models.TransactionStatusPending)); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	txns, err := store.Transactions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)
}
