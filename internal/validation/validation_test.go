package validation

import (
	"testing"

	"fraudwatch/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() *models.Transaction {
	return &models.Transaction{
		Reference:  "TXN001",
		AccountID:  1,
		MerchantID: 1,
		DeviceID:   1,
		Amount:     decimal.RequireFromString("150.50"),
		Currency:   "USD",
		Status:     models.TransactionStatusCompleted,
	}
}

func TestTransaction(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(tx *models.Transaction)
		field  string
	}{
		{"valid", func(tx *models.Transaction) {}, ""},
		{"short reference", func(tx *models.Transaction) { tx.Reference = "TX1" }, "reference"},
		{"zero amount", func(tx *models.Transaction) { tx.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(tx *models.Transaction) { tx.Amount = decimal.RequireFromString("-1") }, "amount"},
		{"long currency", func(tx *models.Transaction) { tx.Currency = "USDT" }, "currency"},
		{"missing merchant", func(tx *models.Transaction) { tx.MerchantID = 0 }, "merchant_id"},
		{"missing status", func(tx *models.Transaction) { tx.Status = "" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(tx)

			v := New()
			v.Transaction(tx)
			if tt.field == "" {
				assert.True(t, v.Valid())
				assert.NoError(t, v.Err())
				return
			}
			assert.False(t, v.Valid())
			assert.Contains(t, v.Errors, tt.field)
		})
	}
}

func TestPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"strong", "Tr0ub4dor&3", true},
		{"too short", "Ab1!2", false},
		{"one digit", "Abcdefg!1", false},
		{"no upper", "abcdef!12", false},
		{"no special", "Abcdefg12", false},
		{"contains username", "Jdoe!2024x", false},
		{"contains email local part", "Xjane.d!99", false},
		{"common word", "MyQwerty!42", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Password("password", tt.password, "jdoe", "jane.d@example.com")
			assert.Equal(t, tt.ok, v.Valid(), v.Errors)
		})
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=Admin Analyst Viewer"`
}

func TestStruct(t *testing.T) {
	v := New()
	v.Struct(loginRequest{Role: "Root"})

	assert.Equal(t, "is required", v.Errors["username"])
	assert.Equal(t, "is required", v.Errors["password"])
	assert.Contains(t, v.Errors["role"], "must be one of")

	v = New()
	v.Struct(loginRequest{Username: "admin", Password: "x"})
	assert.True(t, v.Valid())
}

func TestErrFields(t *testing.T) {
	v := New()
	v.AddError("amount", "must be greater than zero")
	v.AddError("amount", "ignored")

	err := v.Err()
	require.Error(t, err)
	fields, ok := Fields(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"amount": "must be greater than zero"}, fields)
	assert.Equal(t, "validation failed: amount: must be greater than zero", err.Error())

	_, ok = Fields(assert.AnError)
	assert.False(t, ok)
}
