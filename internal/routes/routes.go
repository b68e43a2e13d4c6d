// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"fraudwatch/internal/handlers"
	"fraudwatch/internal/middleware"
	"fraudwatch/internal/models"
	"fraudwatch/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Transactions handlers.TransactionService
	Alerts       handlers.AlertService
	Auth         handlers.AuthService
	Uploads      handlers.UploadService
	Merchants    repositories.MerchantRepository
	Health       map[string]handlers.Pinger
	Version      string
	Log          *logrus.Logger
}

// SetupRoutes configures all application routes.
// Everything under /api except health, login and register requires a token.
func SetupRoutes(app *fiber.App, authenticator middleware.Authenticator, deps Dependencies) {
	transactionHandler := handlers.NewTransactionHandler(deps.Transactions, deps.Log)
	alertHandler := handlers.NewAlertHandler(deps.Alerts, authenticator, deps.Log)
	merchantHandler := handlers.NewMerchantHandler(deps.Merchants, deps.Log)
	authHandler := handlers.NewAuthHandler(deps.Auth, authenticator, deps.Log)
	adminHandler := handlers.NewAdminHandler(deps.Auth, deps.Log)
	uploadHandler := handlers.NewUploadHandler(deps.Uploads, deps.Log)
	healthHandler := handlers.NewHealthHandler(deps.Version, deps.Health)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to FraudWatch API",
			"version": deps.Version,
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Public endpoints
	api.Get("/health", healthHandler.Check)
	api.Post("/login", authHandler.Login)
	api.Post("/register", authHandler.Register)

	protected := api.Use(authenticator.Handler)

	protected.Post("/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)

	setupTransactionRoutes(protected, authenticator, transactionHandler)
	setupAlertRoutes(protected, authenticator, alertHandler)
	setupMerchantRoutes(protected, authenticator, merchantHandler)
	setupAdminRoutes(protected, authenticator, adminHandler)

	protected.Post("/uploads", middleware.HasPermission(authenticator, models.PermissionUploadWrite), uploadHandler.Upload)
}

func setupTransactionRoutes(router fiber.Router, a middleware.Authenticator, h *handlers.TransactionHandler) {
	read := middleware.HasPermission(a, models.PermissionTransactionRead)

	router.Get("/stats", read, h.Stats)
	router.Get("/accounts/:id/transactions", read, h.ListByAccount)

	transactions := router.Group("/transactions")
	transactions.Get("/", read, h.List)
	// Registered before /:id so "search" is not taken for an id.
	transactions.Get("/search", read, h.Search)
	transactions.Get("/:id", read, h.Get)
	transactions.Get("/:id/summary", read, h.Summary)
	transactions.Get("/:id/xml", read, h.XML)
	transactions.Get("/:id/detail", read, h.Detail)
	transactions.Post("/", middleware.RequireRole(a, models.RoleAdmin, models.RoleAnalyst), h.Create)
	transactions.Delete("/:id", middleware.RequireRole(a, models.RoleAdmin), h.Delete)
}

func setupAlertRoutes(router fiber.Router, a middleware.Authenticator, h *handlers.AlertHandler) {
	alerts := router.Group("/alerts", middleware.HasPermission(a, models.PermissionAlertRead))

	alerts.Get("/", h.List)
	alerts.Get("/dashboard", h.Dashboard)
	alerts.Get("/:id", h.Get)
	alerts.Get("/:id/history", h.History)
	alerts.Put("/:id/review", middleware.RequireRole(a, models.RoleAdmin, models.RoleAnalyst), h.Review)
}

func setupMerchantRoutes(router fiber.Router, a middleware.Authenticator, h *handlers.MerchantHandler) {
	merchants := router.Group("/merchants", middleware.HasPermission(a, models.PermissionTransactionRead))

	merchants.Get("/", h.List)
	merchants.Get("/high-risk", h.HighRisk)
	merchants.Get("/:id", h.Get)
}

func setupAdminRoutes(router fiber.Router, a middleware.Authenticator, h *handlers.AdminHandler) {
	admin := router.Group("/admin", middleware.RequireRole(a, models.RoleAdmin))

	admin.Get("/users", h.ListUsers)
	admin.Put("/users/:id/role", h.SetRole)
}
