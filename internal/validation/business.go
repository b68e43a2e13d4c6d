package validation

import (
	"fraudwatch/internal/models"
)

// Transaction validates a transaction before it is recorded
func (v *Validator) Transaction(tx *models.Transaction) {
	v.Required("reference", tx.Reference)
	v.MinLength("reference", tx.Reference, MinReferenceLength)
	v.MaxLength("reference", tx.Reference, MaxReferenceLength)

	v.Required("account_id", tx.AccountID)
	v.Required("merchant_id", tx.MerchantID)
	v.Required("device_id", tx.DeviceID)

	v.Positive("amount", tx.Amount)

	v.Required("currency", tx.Currency)
	v.ExactLength("currency", tx.Currency, CurrencyLength)

	v.Required("status", string(tx.Status))
	v.MaxLength("status", string(tx.Status), MaxStatusFieldLength)
}

// Registration validates a new user account
func (v *Validator) Registration(username, email, fullName, password string) {
	v.Required("username", username)
	v.MinLength("username", username, MinUsernameLength)
	v.MaxLength("username", username, MaxUsernameLength)
	v.Required("email", email)
	v.Email("email", email)
	v.MaxLength("full_name", fullName, MaxFullNameLength)
	v.Password("password", password, username, email)
}
