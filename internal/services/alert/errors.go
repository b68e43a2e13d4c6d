package alert

import "errors"

var (
	ErrAlertNotFound    = errors.New("alert not found")
	ErrAssigneeNotFound = errors.New("assigned user not found")
	ErrStatusRequired   = errors.New("status is required")
)
