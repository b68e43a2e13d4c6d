package models

import "strings"

// Role is a coarse authorization group.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleAnalyst Role = "Analyst"
	RoleViewer  Role = "Viewer"
)

// Permission constants
const (
	// Transaction permissions
	PermissionTransactionRead   = "transaction:read"
	PermissionTransactionWrite  = "transaction:write"
	PermissionTransactionDelete = "transaction:delete"

	// Alert permissions
	PermissionAlertRead   = "alert:read"
	PermissionAlertReview = "alert:review"

	// Upload permissions
	PermissionUploadWrite = "upload:write"

	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"
)

// ParseRole resolves a role name case-insensitively.
func ParseRole(raw string) (Role, bool) {
	for _, r := range []Role{RoleAdmin, RoleAnalyst, RoleViewer} {
		if strings.EqualFold(string(r), strings.TrimSpace(raw)) {
			return r, true
		}
	}
	return "", false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role Role) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionTransactionDelete,
			PermissionAlertRead,
			PermissionAlertReview,
			PermissionUploadWrite,
		}
	case RoleAnalyst:
		return []string{
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionAlertRead,
			PermissionAlertReview,
			PermissionUploadWrite,
		}
	case RoleViewer:
		return []string{
			PermissionTransactionRead,
			PermissionAlertRead,
		}
	default:
		return []string{}
	}
}
