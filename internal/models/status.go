package models

import "strings"

// AlertStatus is the review state of a FraudAlert. Rows written before the
// closed set existed may carry other text; those values are kept verbatim.
type AlertStatus string

const (
	AlertStatusOpen        AlertStatus = "Open"
	AlertStatusUnderReview AlertStatus = "Under Review"
	AlertStatusResolved    AlertStatus = "Resolved"
	AlertStatusDismissed   AlertStatus = "Dismissed"
)

var alertStatuses = map[string]AlertStatus{
	"open":        AlertStatusOpen,
	"underreview": AlertStatusUnderReview,
	"resolved":    AlertStatusResolved,
	"dismissed":   AlertStatusDismissed,
}

// ParseAlertStatus maps any spelling of a known status ("under_review",
// "UnderReview", "under review") to its canonical value. Unknown text is
// returned trimmed but otherwise unchanged.
func ParseAlertStatus(raw string) AlertStatus {
	if s, ok := alertStatuses[foldStatus(raw)]; ok {
		return s
	}
	return AlertStatus(strings.TrimSpace(raw))
}

func (s AlertStatus) IsKnown() bool {
	_, ok := alertStatuses[foldStatus(string(s))]
	return ok && ParseAlertStatus(string(s)) == s
}

// TransactionStatus is the processing state recorded with a transaction.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusFlagged   TransactionStatus = "Flagged"
	TransactionStatusPending   TransactionStatus = "Pending"
)

var transactionStatuses = map[string]TransactionStatus{
	"completed": TransactionStatusCompleted,
	"flagged":   TransactionStatusFlagged,
	"pending":   TransactionStatusPending,
}

func ParseTransactionStatus(raw string) TransactionStatus {
	if s, ok := transactionStatuses[foldStatus(raw)]; ok {
		return s
	}
	return TransactionStatus(strings.TrimSpace(raw))
}

func (s TransactionStatus) IsKnown() bool {
	_, ok := transactionStatuses[foldStatus(string(s))]
	return ok && ParseTransactionStatus(string(s)) == s
}

// RiskLevel grades both alerts and risk assessments.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

var riskLevels = map[string]RiskLevel{
	"low":    RiskLevelLow,
	"medium": RiskLevelMedium,
	"high":   RiskLevelHigh,
}

func ParseRiskLevel(raw string) RiskLevel {
	if l, ok := riskLevels[foldStatus(raw)]; ok {
		return l
	}
	return RiskLevel(strings.TrimSpace(raw))
}

func (l RiskLevel) IsKnown() bool {
	_, ok := riskLevels[foldStatus(string(l))]
	return ok && ParseRiskLevel(string(l)) == l
}

func foldStatus(raw string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(raw)))
}
