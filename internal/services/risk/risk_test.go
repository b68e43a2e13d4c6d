package risk

import (
	"testing"
	"time"

	"fraudwatch/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func txn(amount, merchantRisk string, deviceAge time.Duration) *models.Transaction {
	return &models.Transaction{
		ID:       2,
		Amount:   decimal.RequireFromString(amount),
		Merchant: &models.Merchant{RiskScore: decimal.RequireFromString(merchantRisk)},
		Device:   &models.Device{FirstSeen: now.Add(-deviceAge)},
	}
}

func history(n int) []models.Transaction {
	return make([]models.Transaction, n)
}

func TestAssessSeedExample(t *testing.T) {
	a, err := Assess(txn("5000.00", "0.85", 0), history(1), now)
	require.NoError(t, err)

	assert.Equal(t, "1.05", a.Score.StringFixed(2))
	assert.Equal(t, models.RiskLevelHigh, a.Level)
	assert.Equal(t, []string{
		"High transaction amount (>$1,000.00)",
		"High-risk merchant (score: 85.00%)",
		"First transaction on account",
		"New device (first seen less than 7 days ago)",
	}, a.Factors)
}

func TestAssessFactors(t *testing.T) {
	tests := []struct {
		name      string
		tx        *models.Transaction
		history   int
		wantScore string
		wantLevel models.RiskLevel
		wantCount int
	}{
		{"nothing matches", txn("150.50", "0.20", 30*24*time.Hour), 3, "0.00", models.RiskLevelLow, 0},
		{"amount at threshold does not match", txn("1000.00", "0.20", 30*24*time.Hour), 2, "0.00", models.RiskLevelLow, 0},
		{"amount just above threshold", txn("1000.01", "0.20", 30*24*time.Hour), 2, "0.30", models.RiskLevelLow, 1},
		{"merchant at threshold does not match", txn("10", "0.70", 30*24*time.Hour), 2, "0.00", models.RiskLevelLow, 0},
		{"merchant only", txn("10", "0.71", 30*24*time.Hour), 2, "0.40", models.RiskLevelLow, 1},
		{"first transaction only", txn("10", "0.10", 30*24*time.Hour), 1, "0.20", models.RiskLevelLow, 1},
		{"new device only", txn("10", "0.10", 6*24*time.Hour), 2, "0.15", models.RiskLevelLow, 1},
		{"device exactly seven days old is not new", txn("10", "0.10", NewDeviceWindow), 2, "0.00", models.RiskLevelLow, 0},
		{"amount and first", txn("5000", "0.10", 30*24*time.Hour), 1, "0.50", models.RiskLevelMedium, 2},
		{"amount and merchant", txn("5000", "0.85", 30*24*time.Hour), 2, "0.70", models.RiskLevelMedium, 2},
		{"amount merchant and device", txn("5000", "0.85", time.Hour), 2, "0.85", models.RiskLevelHigh, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Assess(tt.tx, history(tt.history), now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, a.Score.StringFixed(2))
			assert.Equal(t, tt.wantLevel, a.Level)
			assert.Len(t, a.Factors, tt.wantCount)
		})
	}
}

func TestAssessIsMonotonic(t *testing.T) {
	base, err := Assess(txn("10", "0.10", 30*24*time.Hour), history(2), now)
	require.NoError(t, err)

	more, err := Assess(txn("5000", "0.10", 30*24*time.Hour), history(2), now)
	require.NoError(t, err)
	assert.True(t, more.Score.GreaterThan(base.Score))

	most, err := Assess(txn("5000", "0.90", 30*24*time.Hour), history(2), now)
	require.NoError(t, err)
	assert.True(t, most.Score.GreaterThan(more.Score))
}

func TestLevelForBoundaries(t *testing.T) {
	tests := []struct {
		score string
		want  models.RiskLevel
	}{
		{"0", models.RiskLevelLow},
		{"0.4", models.RiskLevelLow},
		{"0.41", models.RiskLevelMedium},
		{"0.7", models.RiskLevelMedium},
		{"0.75", models.RiskLevelHigh},
		{"1.05", models.RiskLevelHigh},
	}
	for _, tt := range tests {
		t.Run(tt.score, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(decimal.RequireFromString(tt.score)))
		})
	}
}

func TestAssessRequiresResolvedRelations(t *testing.T) {
	_, err := Assess(nil, nil, now)
	assert.ErrorIs(t, err, ErrNilTransaction)

	tx := txn("10", "0.1", time.Hour)
	tx.Merchant = nil
	_, err = Assess(tx, history(1), now)
	assert.ErrorIs(t, err, ErrUnresolvedMerchant)

	tx = txn("10", "0.1", time.Hour)
	tx.Device = nil
	_, err = Assess(tx, history(1), now)
	assert.ErrorIs(t, err, ErrUnresolvedDevice)
}

func TestIsHighRisk(t *testing.T) {
	assert.True(t, IsHighRisk(txn("1500", "0.1", 0)))
	assert.True(t, IsHighRisk(txn("10", "0.75", 0)))
	assert.False(t, IsHighRisk(txn("1000", "0.70", 0)))
	assert.False(t, IsHighRisk(nil))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1,000.00", formatMoney(decimal.NewFromInt(1000)))
	assert.Equal(t, "999.50", formatMoney(decimal.RequireFromString("999.5")))
	assert.Equal(t, "1,234,567.89", formatMoney(decimal.RequireFromString("1234567.89")))
}
