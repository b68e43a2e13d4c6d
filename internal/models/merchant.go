package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HighRiskMerchantListThreshold is the cutoff used by the merchant listing
// endpoint. Scoring uses the stricter risk.MerchantRiskThreshold.
var HighRiskMerchantListThreshold = decimal.RequireFromString("0.6")

type Merchant struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	Category  string          `json:"category"`
	RiskScore decimal.Decimal `gorm:"type:numeric(5,4);not null;default:0" json:"risk_score"`
	CreatedAt time.Time       `json:"created_at"`
}
