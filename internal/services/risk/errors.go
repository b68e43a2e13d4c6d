package risk

import "errors"

var (
	ErrNilTransaction     = errors.New("transaction is required")
	ErrUnresolvedMerchant = errors.New("transaction merchant is not loaded")
	ErrUnresolvedDevice   = errors.New("transaction device is not loaded")
)
