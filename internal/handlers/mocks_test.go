package handlers

import (
	"context"
	"mime/multipart"

	"fraudwatch/internal/models"
	"fraudwatch/internal/services/alert"
	"fraudwatch/internal/services/auth"
	"fraudwatch/internal/services/transaction"
	"fraudwatch/internal/services/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Create(ctx context.Context, req transaction.CreateRequest) (*transaction.CreateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.CreateResult), args.Error(1)
}

func (m *MockTransactionService) List(ctx context.Context) ([]models.Transaction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionService) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionService) Search(ctx context.Context, status string) ([]models.Transaction, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListByAccount(ctx context.Context, accountID uint) ([]models.Transaction, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionService) Summary(ctx context.Context, id uint) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionService) Detail(ctx context.Context, id uint) (*models.TransactionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionDetail), args.Error(1)
}

func (m *MockTransactionService) Stats(ctx context.Context) (*models.TransactionStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionStats), args.Error(1)
}

func (m *MockTransactionService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) List(ctx context.Context, filter alert.Filter) ([]models.FraudAlert, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.FraudAlert), args.Error(1)
}

func (m *MockAlertService) Get(ctx context.Context, id uint) (*models.FraudAlert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FraudAlert), args.Error(1)
}

func (m *MockAlertService) History(ctx context.Context, id uint) ([]models.AuditLog, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

func (m *MockAlertService) Review(ctx context.Context, id uint, req alert.ReviewRequest, actor string) (*models.FraudAlert, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FraudAlert), args.Error(1)
}

func (m *MockAlertService) Dashboard(ctx context.Context) (*models.AlertDashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlertDashboard), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignIn(ctx context.Context, username, password, ip string) (*auth.LoginResult, error) {
	args := m.Called(ctx, username, password, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuthService) SetRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Save(ctx context.Context, files []*multipart.FileHeader) (*upload.Report, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upload.Report), args.Error(1)
}

// fixedUser is an Authenticator that always reports the same caller.
type fixedUser struct {
	claims *models.UserClaims
}

func (f fixedUser) Handler(c *fiber.Ctx) error { return c.Next() }

func (f fixedUser) CurrentUser(*fiber.Ctx) (*models.UserClaims, bool) {
	return f.claims, f.claims != nil
}

func (f fixedUser) HasRole(c *fiber.Ctx, roles ...models.Role) bool {
	if f.claims == nil {
		return false
	}
	for _, r := range roles {
		if f.claims.Role == r {
			return true
		}
	}
	return false
}
