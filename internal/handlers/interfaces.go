package handlers

import (
	"context"
	"mime/multipart"

	"fraudwatch/internal/models"
	"fraudwatch/internal/services/alert"
	"fraudwatch/internal/services/auth"
	"fraudwatch/internal/services/transaction"
	"fraudwatch/internal/services/upload"
)

// TransactionService is implemented by *transaction.Service.
type TransactionService interface {
	Create(ctx context.Context, req transaction.CreateRequest) (*transaction.CreateResult, error)
	List(ctx context.Context) ([]models.Transaction, error)
	Get(ctx context.Context, id uint) (*models.Transaction, error)
	Search(ctx context.Context, status string) ([]models.Transaction, error)
	ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error)
	Summary(ctx context.Context, id uint) (string, error)
	Detail(ctx context.Context, id uint) (*models.TransactionDetail, error)
	Stats(ctx context.Context) (*models.TransactionStats, error)
	Delete(ctx context.Context, id uint) error
}

// AlertService is implemented by *alert.Service.
type AlertService interface {
	List(ctx context.Context, filter alert.Filter) ([]models.FraudAlert, error)
	Get(ctx context.Context, id uint) (*models.FraudAlert, error)
	History(ctx context.Context, id uint) ([]models.AuditLog, error)
	Review(ctx context.Context, id uint, req alert.ReviewRequest, actor string) (*models.FraudAlert, error)
	Dashboard(ctx context.Context) (*models.AlertDashboard, error)
}

// AuthService is implemented by *auth.Service.
type AuthService interface {
	SignIn(ctx context.Context, username, password, ip string) (*auth.LoginResult, error)
	SignOut(ctx context.Context, userID uint) error
	Register(ctx context.Context, req auth.RegisterRequest) (*models.User, error)
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	SetRole(ctx context.Context, userID uint, role string) (*models.User, error)
}

// UploadService is implemented by *upload.Service.
type UploadService interface {
	Save(ctx context.Context, files []*multipart.FileHeader) (*upload.Report, error)
}
