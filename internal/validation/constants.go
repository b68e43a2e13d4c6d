package validation

const (
	// Transaction fields
	MinReferenceLength = 5
	MaxReferenceLength = 50
	CurrencyLength     = 3

	// Password requirements
	MinPasswordLength    = 8
	MaxPasswordLength    = 72
	MinPasswordDigits    = 2
	MinUsernameLength    = 3
	MaxUsernameLength    = 50
	MaxFullNameLength    = 100
	MaxStatusFieldLength = 50
)

// commonPasswordWords may not appear anywhere in a password.
var commonPasswordWords = []string{"password", "123456", "qwerty", "admin", "letmein"}
