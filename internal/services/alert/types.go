package alert

// AuditEntity is the entity name recorded in audit logs for alerts.
const AuditEntity = "FraudAlert"

// RecentAlertLimit is the number of alerts shown as recent on the dashboard.
const RecentAlertLimit = 5

// ReviewRequest is an analyst decision on an alert. Both fields replace the
// stored values; a nil AssignedTo unassigns the alert.
type ReviewRequest struct {
	Status     string `json:"status"`
	AssignedTo *uint  `json:"assigned_to"`
}

// Filter narrows alert listings. Empty fields match everything.
type Filter struct {
	Level  string
	Status string
}
