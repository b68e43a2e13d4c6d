package transaction

import "errors"

// Service errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrStatusRequired      = errors.New("status parameter is required")
	ErrNoMatches           = errors.New("no transactions found with the given status")
)
