package models

import "github.com/shopspring/decimal"

// AlertDashboard summarises the alert queue for analysts.
type AlertDashboard struct {
	TotalAlerts       int             `json:"total_alerts"`
	OpenAlerts        int             `json:"open_alerts"`
	UnderReviewAlerts int             `json:"under_review_alerts"`
	ResolvedAlerts    int             `json:"resolved_alerts"`
	HighPriority      int             `json:"high_priority_alerts"`
	RecentAlerts      []FraudAlert    `json:"recent_alerts"`
	HighRiskAlerts    []FraudAlert    `json:"high_risk_alerts"`
	ResolutionRate    decimal.Decimal `json:"resolution_rate"`
	FalsePositiveRate decimal.Decimal `json:"false_positive_rate"`
}

// TransactionDetail is the analyst view of one transaction.
type TransactionDetail struct {
	Transaction             *Transaction    `json:"transaction"`
	RelatedAlerts           []FraudAlert    `json:"related_alerts"`
	RiskScore               decimal.Decimal `json:"risk_score"`
	RiskLevel               RiskLevel       `json:"risk_level"`
	RiskFactors             []string        `json:"risk_factors"`
	HighRisk                bool            `json:"high_risk"`
	AccountTransactionCount int             `json:"account_transaction_count"`
	AccountTotalSpent       decimal.Decimal `json:"account_total_spent"`
	IsFirstTransaction      bool            `json:"is_first_transaction"`
	IsNewDevice             bool            `json:"is_new_device"`
	DeviceTransactionCount  int64           `json:"device_transaction_count"`
}

// TransactionStats is the aggregate returned by the stats endpoint.
type TransactionStats struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AverageAmount     decimal.Decimal `json:"average_amount"`
	FlaggedCount      int             `json:"flagged_count"`
	AlertCount        int             `json:"alert_count"`
	HighRiskAlerts    int             `json:"high_risk_alerts"`
}
