// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"context"
	"fmt"
	"time"

	"fraudwatch/internal/config"
	"fraudwatch/internal/logger"
	"fraudwatch/internal/models"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// AllModels lists every persisted model in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Account{},
		&models.Merchant{},
		&models.Device{},
		&models.Transaction{},
		&models.FraudAlert{},
		&models.ModelVersion{},
		&models.ModelScore{},
		&models.TransactionFeature{},
		&models.Feedback{},
		&models.AuditLog{},
	}
}

// InitDB connects to postgres, creating the database when it does not exist,
// and applies the connection pool settings. It does not migrate.
func InitDB(cfg config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	if err := ensureDatabase(cfg, log); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn(cfg, cfg.Name)), &gorm.Config{
		Logger: logger.Gorm(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	log.WithField("database", cfg.Name).Info("postgres connected")
	return db, nil
}

// Migrate brings the schema up to date with the models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ensureDatabase connects to the maintenance database and creates cfg.Name
// if it is missing.
func ensureDatabase(cfg config.DatabaseConfig, log *logrus.Logger) error {
	admin, err := gorm.Open(postgres.Open(dsn(cfg, "postgres")), &gorm.Config{
		Logger: logger.Gorm(log),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer Close(admin)

	var exists bool
	if err := admin.Raw("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)", cfg.Name).
		Scan(&exists).Error; err != nil {
		return fmt.Errorf("failed to check database: %w", err)
	}
	if exists {
		return nil
	}

	if err := admin.Exec("CREATE DATABASE " + pq.QuoteIdentifier(cfg.Name)).Error; err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.Name, err)
	}
	log.WithField("database", cfg.Name).Info("database created")
	return nil
}

func dsn(cfg config.DatabaseConfig, name string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, name, cfg.Port, cfg.SSLMode)
}
