// Package repotest opens migrated in-memory databases for tests.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fraudwatch/internal/models"
	"fraudwatch/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh sqlite database with foreign keys enforced and the
// schema migrated. It is closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repositories.Migrate(db))
	return db
}

// Fixture is a minimal graph of rows a transaction can reference.
type Fixture struct {
	Account  models.Account
	Merchant models.Merchant
	Device   models.Device
	Analyst  models.User
}

// Seed inserts one account, merchant, device and analyst.
func Seed(t testing.TB, store *repositories.Store, merchantRisk string, deviceFirstSeen time.Time) Fixture {
	t.Helper()
	ctx := context.Background()

	f := Fixture{
		Account:  models.Account{AccountNumber: "ACC-" + uuid.NewString()[:8], HolderName: "Jane Doe"},
		Merchant: models.Merchant{Name: "Acme", Category: "Retail", RiskScore: decimal.RequireFromString(merchantRisk)},
		Device:   models.Device{Hash: "DEV-" + uuid.NewString()[:8], LastIP: "10.0.0.1", LastGeo: "Lagos", FirstSeen: deviceFirstSeen},
		Analyst:  models.User{Username: "analyst-" + uuid.NewString()[:8], Email: uuid.NewString()[:8] + "@example.com", PasswordHash: "x", Role: models.RoleAnalyst},
	}
	require.NoError(t, store.Accounts.Create(ctx, &f.Account))
	require.NoError(t, store.Merchants.Create(ctx, &f.Merchant))
	require.NoError(t, store.Devices.Create(ctx, &f.Device))
	require.NoError(t, store.Users.Create(ctx, &f.Analyst))
	return f
}

// Transaction builds an unsaved transaction against the fixture.
func (f Fixture) Transaction(ref, amount string, status models.TransactionStatus) *models.Transaction {
	return &models.Transaction{
		Reference:  ref,
		AccountID:  f.Account.ID,
		MerchantID: f.Merchant.ID,
		DeviceID:   f.Device.ID,
		Amount:     decimal.RequireFromString(amount),
		Currency:   "USD",
		Status:     status,
	}
}
