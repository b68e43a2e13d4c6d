// Package risk scores transactions with a fixed set of weighted heuristics.
package risk

import (
	"fmt"
	"time"

	"fraudwatch/internal/models"

	"github.com/shopspring/decimal"
)

var (
	HighAmountThreshold   = decimal.NewFromInt(1000)
	MerchantRiskThreshold = decimal.RequireFromString("0.70")

	HighAmountWeight       = decimal.RequireFromString("0.30")
	HighRiskMerchantWeight = decimal.RequireFromString("0.40")
	FirstTransactionWeight = decimal.RequireFromString("0.20")
	NewDeviceWeight        = decimal.RequireFromString("0.15")

	HighLevelThreshold   = decimal.RequireFromString("0.7")
	MediumLevelThreshold = decimal.RequireFromString("0.4")
)

// NewDeviceWindow is how long a device counts as new after it is first seen.
const NewDeviceWindow = 7 * 24 * time.Hour

// Assessment is the outcome of scoring one transaction. Score is the plain
// sum of the matched weights and can exceed 1.
type Assessment struct {
	Score   decimal.Decimal  `json:"score"`
	Level   models.RiskLevel `json:"level"`
	Factors []string         `json:"factors"`
}

// Assess scores tx. Merchant and Device must be loaded. accountTxns is the
// full history of the account and includes tx itself, so a history of one
// marks a first transaction.
func Assess(tx *models.Transaction, accountTxns []models.Transaction, now time.Time) (Assessment, error) {
	if tx == nil {
		return Assessment{}, ErrNilTransaction
	}
	if tx.Merchant == nil {
		return Assessment{}, fmt.Errorf("transaction %d: %w", tx.ID, ErrUnresolvedMerchant)
	}
	if tx.Device == nil {
		return Assessment{}, fmt.Errorf("transaction %d: %w", tx.ID, ErrUnresolvedDevice)
	}

	score := decimal.Zero
	factors := make([]string, 0, 4)

	if tx.Amount.GreaterThan(HighAmountThreshold) {
		score = score.Add(HighAmountWeight)
		factors = append(factors, fmt.Sprintf("High transaction amount (>$%s)", formatMoney(HighAmountThreshold)))
	}

	if tx.Merchant.RiskScore.GreaterThan(MerchantRiskThreshold) {
		score = score.Add(HighRiskMerchantWeight)
		factors = append(factors, fmt.Sprintf("High-risk merchant (score: %s%%)",
			tx.Merchant.RiskScore.Mul(decimal.NewFromInt(100)).StringFixed(2)))
	}

	if IsFirstTransaction(accountTxns) {
		score = score.Add(FirstTransactionWeight)
		factors = append(factors, "First transaction on account")
	}

	if IsNewDevice(tx.Device, now) {
		score = score.Add(NewDeviceWeight)
		factors = append(factors, "New device (first seen less than 7 days ago)")
	}

	return Assessment{
		Score:   score,
		Level:   LevelFor(score),
		Factors: factors,
	}, nil
}

// LevelFor maps a score to a risk level. Scores on a boundary take the
// lower level.
func LevelFor(score decimal.Decimal) models.RiskLevel {
	switch {
	case score.GreaterThan(HighLevelThreshold):
		return models.RiskLevelHigh
	case score.GreaterThan(MediumLevelThreshold):
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

func IsFirstTransaction(accountTxns []models.Transaction) bool {
	return len(accountTxns) == 1
}

func IsNewDevice(device *models.Device, now time.Time) bool {
	return device != nil && device.FirstSeen.After(now.Add(-NewDeviceWindow))
}

// IsHighRisk flags transactions for the detail view: a large amount or a
// risky merchant.
func IsHighRisk(tx *models.Transaction) bool {
	if tx == nil {
		return false
	}
	if tx.Amount.GreaterThan(HighAmountThreshold) {
		return true
	}
	return tx.Merchant != nil && tx.Merchant.RiskScore.GreaterThan(MerchantRiskThreshold)
}

// formatMoney renders 1000 as "1,000.00".
func formatMoney(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if fixed[0] == '-' {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac := fixed[:len(fixed)-3], fixed[len(fixed)-3:]

	out := make([]byte, 0, len(whole)+len(whole)/3)
	for i := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	return sign + string(out) + frac
}
