// Package main is the entry point for the API server.
// It loads configuration, connects to PostgreSQL and Redis, wires the
// services and serves the HTTP API until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fraudwatch/internal/config"
	"fraudwatch/internal/handlers"
	"fraudwatch/internal/logger"
	"fraudwatch/internal/middleware"
	"fraudwatch/internal/repositories"
	"fraudwatch/internal/repositories/cache"
	"fraudwatch/internal/routes"
	"fraudwatch/internal/services/alert"
	"fraudwatch/internal/services/auth"
	"fraudwatch/internal/services/notification"
	"fraudwatch/internal/services/transaction"
	"fraudwatch/internal/services/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const version = "1.0.0"

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, FilePath: cfg.Log.FilePath})
	if err != nil {
		logrus.Fatalf("Failed to initialise logger: %v", err)
	}

	db, err := repositories.InitDB(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := repositories.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	go reportPoolStats(db, log)

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cacheService := cache.NewCacheService(redisClient, 10*time.Minute)
	if err := cacheService.HealthCheck(context.Background()); err != nil {
		log.WithError(err).Warn("Redis unavailable, stats caching and lockout will fail until it recovers")
	}

	var publisher notification.Publisher = notification.NewLogPublisher(log)
	if cfg.NSQ.Address != "" {
		nsqPublisher, err := notification.NewNSQPublisher(cfg.NSQ.Address, cfg.NSQ.Topic, log)
		if err != nil {
			log.WithError(err).Warn("NSQ unavailable, alert events will only be logged")
		} else {
			publisher = nsqPublisher
		}
	}

	store := repositories.NewStore(db)
	alertService := alert.NewService(store, publisher, log)
	transactionService := transaction.NewService(store, alertService, cacheService, log)
	authService := auth.NewService(
		store.Users,
		cache.NewLoginAttemptTracker(redisClient),
		auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL),
		log,
	)
	uploadService := upload.NewService(cfg.Upload.Dir, cfg.Upload.MaxBytes, log)

	app := fiber.New(fiber.Config{
		AppName:   "fraudwatch " + version,
		BodyLimit: int(cfg.Upload.MaxBytes) * 4,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.Middleware(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	for _, path := range []string{"/api/login", "/api/register"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	routes.SetupRoutes(app, middleware.NewAuthMiddleware(authService, log), routes.Dependencies{
		Transactions: transactionService,
		Alerts:       alertService,
		Auth:         authService,
		Uploads:      uploadService,
		Merchants:    store.Merchants,
		Health: map[string]handlers.Pinger{
			"database": func(ctx context.Context) error { return repositories.Ping(ctx, db) },
			"redis":    cacheService.HealthCheck,
		},
		Version: version,
		Log:     log,
	})

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.WithError(err).Fatal("Server stopped")
		}
	}()
	log.WithField("port", cfg.Server.Port).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Failed to shut down server cleanly")
	}
	publisher.Close()
	if err := cacheService.Close(); err != nil {
		log.WithError(err).Warn("Failed to close Redis connection")
	}
	if err := repositories.Close(db); err != nil {
		log.WithError(err).Warn("Failed to close database connection")
	}
}

// reportPoolStats logs connection pool usage once a minute.
func reportPoolStats(db *gorm.DB, log *logrus.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		stats := sqlDB.Stats()
		log.WithFields(logrus.Fields{
			"open":          stats.OpenConnections,
			"idle":          stats.Idle,
			"in_use":        stats.InUse,
			"wait_count":    stats.WaitCount,
			"wait_duration": stats.WaitDuration.String(),
		}).Debug("db pool stats")
	}
}
