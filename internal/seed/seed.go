// Package seed loads the reference data set used for demos and local
// development.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fraudwatch/internal/models"
	"fraudwatch/internal/repositories"
	"fraudwatch/internal/services/risk"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// ErrAlreadySeeded is returned when the reference users already exist.
var ErrAlreadySeeded = errors.New("database already seeded")

// DefaultPassword is given to every seeded user unless overridden.
const DefaultPassword = "Fraud#Watch24"

// Options tune a seed run.
type Options struct {
	Password   string
	BcryptCost int
}

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

// Summary counts what a run inserted.
type Summary struct {
	Users        int `json:"users"`
	Accounts     int `json:"accounts"`
	Merchants    int `json:"merchants"`
	Devices      int `json:"devices"`
	Transactions int `json:"transactions"`
	Alerts       int `json:"alerts"`
	Scores       int `json:"scores"`
}

// Run inserts the reference data in one database transaction.
func Run(ctx context.Context, store *repositories.Store, opts Options, log *logrus.Logger) (*Summary, error) {
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	existing, err := store.Users.GetByUsername(ctx, "admin")
	if err != nil {
		return nil, fmt.Errorf("failed to check for seeded users: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadySeeded
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	summary := &Summary{}
	err = store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		users := []models.User{
			{Username: "admin", Email: "admin@fraud.com", FullName: "System Administrator", Role: models.RoleAdmin, CreatedAt: date(2024, 1, 1, 0, 0)},
			{Username: "analyst1", Email: "analyst1@fraud.com", FullName: "First Analyst", Role: models.RoleAnalyst, CreatedAt: date(2024, 2, 1, 0, 0)},
			{Username: "analyst2", Email: "analyst2@fraud.com", FullName: "Second Analyst", Role: models.RoleAnalyst, CreatedAt: date(2024, 3, 1, 0, 0)},
		}
		for i := range users {
			users[i].PasswordHash = string(hash)
			if err := tx.Users.Create(ctx, &users[i]); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", users[i].Username, err)
			}
		}
		summary.Users = len(users)

		accounts := []models.Account{
			{AccountNumber: "ACC001", HolderName: "John Doe", CreatedAt: date(2024, 5, 1, 0, 0)},
			{AccountNumber: "ACC002", HolderName: "Jane Smith", CreatedAt: date(2024, 8, 1, 0, 0)},
			{AccountNumber: "ACC003", HolderName: "Bob Wilson", CreatedAt: date(2024, 11, 10, 0, 0)},
			{AccountNumber: "ACC004", HolderName: "Alice Johnson", CreatedAt: date(2024, 6, 15, 0, 0)},
		}
		for i := range accounts {
			if err := tx.Accounts.Create(ctx, &accounts[i]); err != nil {
				return fmt.Errorf("failed to seed account %s: %w", accounts[i].AccountNumber, err)
			}
		}
		summary.Accounts = len(accounts)

		merchants := []models.Merchant{
			{Name: "Amazon", Category: "E-commerce", RiskScore: decimal.RequireFromString("0.20"), CreatedAt: date(2019, 1, 1, 0, 0)},
			{Name: "Unknown Merchant", Category: "Gambling", RiskScore: decimal.RequireFromString("0.85"), CreatedAt: date(2024, 10, 1, 0, 0)},
			{Name: "Walmart", Category: "Retail", RiskScore: decimal.RequireFromString("0.15"), CreatedAt: date(2014, 1, 1, 0, 0)},
			{Name: "Crypto Exchange", Category: "Cryptocurrency", RiskScore: decimal.RequireFromString("0.70"), CreatedAt: date(2024, 9, 1, 0, 0)},
			{Name: "Target", Category: "Retail", RiskScore: decimal.RequireFromString("0.18"), CreatedAt: date(2015, 6, 1, 0, 0)},
		}
		for i := range merchants {
			if err := tx.Merchants.Create(ctx, &merchants[i]); err != nil {
				return fmt.Errorf("failed to seed merchant %s: %w", merchants[i].Name, err)
			}
		}
		summary.Merchants = len(merchants)

		devices := []models.Device{
			{Hash: "DEV001ABC", LastIP: "192.168.1.1", LastGeo: "New York, US", FirstSeen: date(2024, 5, 1, 0, 0)},
			{Hash: "DEV002XYZ", LastIP: "10.0.0.1", LastGeo: "Unknown", FirstSeen: date(2024, 11, 19, 0, 0)},
			{Hash: "DEV003QWE", LastIP: "203.45.67.89", LastGeo: "Singapore", FirstSeen: date(2024, 11, 10, 0, 0)},
			{Hash: "DEV004RTY", LastIP: "172.16.0.1", LastGeo: "London, UK", FirstSeen: date(2024, 7, 15, 0, 0)},
		}
		for i := range devices {
			if err := tx.Devices.Create(ctx, &devices[i]); err != nil {
				return fmt.Errorf("failed to seed device %s: %w", devices[i].Hash, err)
			}
		}
		summary.Devices = len(devices)

		type row struct {
			ref                       string
			account, merchant, device int
			amount                    string
			at                        time.Time
			status                    models.TransactionStatus
		}
		rows := []row{
			{"TXN001", 0, 0, 0, "150.50", date(2024, 11, 20, 10, 0), models.TransactionStatusCompleted},
			{"TXN002", 1, 1, 1, "5000.00", date(2024, 11, 20, 11, 30), models.TransactionStatusFlagged},
			{"TXN003", 0, 2, 0, "75.25", date(2024, 11, 20, 11, 45), models.TransactionStatusCompleted},
			{"TXN004", 2, 3, 2, "2500.00", date(2024, 11, 20, 7, 0), models.TransactionStatusPending},
			{"TXN005", 0, 0, 0, "299.99", date(2024, 11, 19, 12, 0), models.TransactionStatusCompleted},
			{"TXN006", 3, 4, 3, "450.00", date(2024, 11, 18, 15, 30), models.TransactionStatusCompleted},
		}
		txns := make([]models.Transaction, len(rows))
		for i, r := range rows {
			txns[i] = models.Transaction{
				Reference:  r.ref,
				AccountID:  accounts[r.account].ID,
				MerchantID: merchants[r.merchant].ID,
				DeviceID:   devices[r.device].ID,
				Amount:     decimal.RequireFromString(r.amount),
				Currency:   "USD",
				Timestamp:  r.at,
				Status:     r.status,
				CreatedAt:  r.at,
			}
			if err := tx.Transactions.Create(ctx, &txns[i]); err != nil {
				return fmt.Errorf("failed to seed transaction %s: %w", r.ref, err)
			}
			txns[i].Merchant = &merchants[r.merchant]
			txns[i].Device = &devices[r.device]
		}
		summary.Transactions = len(txns)

		admin, analyst := users[0].ID, users[1].ID
		alerts := []models.FraudAlert{
			{TransactionID: txns[1].ID, Level: models.RiskLevelHigh, Status: models.AlertStatusOpen, AssignedTo: &admin, CreatedAt: date(2024, 11, 20, 11, 30)},
			{TransactionID: txns[3].ID, Level: models.RiskLevelMedium, Status: models.AlertStatusUnderReview, AssignedTo: &analyst, CreatedAt: date(2024, 11, 20, 7, 0)},
			{TransactionID: txns[1].ID, Level: models.RiskLevelHigh, Status: models.AlertStatusOpen, CreatedAt: date(2024, 11, 20, 11, 35)},
		}
		for i := range alerts {
			if err := tx.Alerts.Create(ctx, &alerts[i]); err != nil {
				return fmt.Errorf("failed to seed alert %d: %w", i+1, err)
			}
		}
		summary.Alerts = len(alerts)

		versions := []models.ModelVersion{
			{Name: "Fraud Detection v1", Version: "1.0.0", Metrics: datatypes.JSON(`{"accuracy": 0.95}`), FileLocation: "/models/v1.pkl", CreatedAt: date(2024, 1, 1, 0, 0)},
			{Name: "Fraud Detection v2", Version: "2.0.0", Metrics: datatypes.JSON(`{"accuracy": 0.97}`), FileLocation: "/models/v2.pkl", CreatedAt: date(2024, 6, 1, 0, 0)},
		}
		for i := range versions {
			if err := tx.Models.CreateVersion(ctx, &versions[i]); err != nil {
				return fmt.Errorf("failed to seed model version %s: %w", versions[i].Version, err)
			}
		}

		scored, err := scoreAll(ctx, tx, txns, versions[len(versions)-1].ID)
		if err != nil {
			return err
		}
		summary.Scores = scored
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"users":        summary.Users,
		"transactions": summary.Transactions,
		"alerts":       summary.Alerts,
	}).Info("reference data seeded")
	return summary, nil
}

// scoreAll records a feature snapshot and a rule-engine score for every
// seeded transaction, as of the transaction's own timestamp.
func scoreAll(ctx context.Context, tx *repositories.Store, txns []models.Transaction, versionID uint) (int, error) {
	byAccount := map[uint][]models.Transaction{}
	for _, t := range txns {
		byAccount[t.AccountID] = append(byAccount[t.AccountID], t)
	}

	for i := range txns {
		t := &txns[i]
		assessment, err := risk.Assess(t, byAccount[t.AccountID], t.Timestamp)
		if err != nil {
			return 0, fmt.Errorf("failed to score %s: %w", t.Reference, err)
		}

		features, err := json.Marshal(map[string]interface{}{
			"amount":               t.Amount,
			"merchant_risk":        t.Merchant.RiskScore,
			"account_transactions": len(byAccount[t.AccountID]),
			"new_device":           risk.IsNewDevice(t.Device, t.Timestamp),
		})
		if err != nil {
			return 0, err
		}
		if err := tx.Models.CreateFeature(ctx, &models.TransactionFeature{
			TransactionID: t.ID,
			FeatureJSON:   datatypes.JSON(features),
			CreatedAt:     t.Timestamp,
		}); err != nil {
			return 0, fmt.Errorf("failed to store features for %s: %w", t.Reference, err)
		}

		if err := tx.Models.CreateScore(ctx, &models.ModelScore{
			TransactionID:  t.ID,
			ModelVersionID: versionID,
			Score:          assessment.Score,
			Explanation:    strings.Join(assessment.Factors, "; "),
			CreatedAt:      t.Timestamp,
		}); err != nil {
			return 0, fmt.Errorf("failed to store score for %s: %w", t.Reference, err)
		}
	}
	return len(txns), nil
}
