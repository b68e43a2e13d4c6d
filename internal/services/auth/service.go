// Package auth signs users in and out, registers them and manages roles.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fraudwatch/internal/models"
	"fraudwatch/internal/repositories"
	"fraudwatch/internal/validation"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// LoginAttempts tracks failed sign-ins. It is satisfied by
// cache.LoginAttemptTracker.
type LoginAttempts interface {
	LockedUntil(ctx context.Context, username string) (time.Duration, error)
	RecordFailure(ctx context.Context, username string) (bool, error)
	Reset(ctx context.Context, username string) error
}

// RegisterRequest is a self-service sign-up.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// LoginResult is returned on a successful sign-in.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type Service struct {
	users    repositories.UserRepository
	attempts LoginAttempts
	tokens   *TokenManager
	log      *logrus.Logger
	cost     int
}

func NewService(users repositories.UserRepository, attempts LoginAttempts, tokens *TokenManager, log *logrus.Logger) *Service {
	return &Service{
		users:    users,
		attempts: attempts,
		tokens:   tokens,
		log:      log,
		cost:     bcrypt.DefaultCost,
	}
}

// SignIn checks the password and issues a token. Five failures within the
// tracker window lock the username out for the lockout period.
func (s *Service) SignIn(ctx context.Context, username, password, ip string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	entry := s.log.WithFields(logrus.Fields{"username": username, "ip": ip})

	remaining, err := s.attempts.LockedUntil(ctx, username)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		entry.Warn("sign-in rejected, account locked")
		return nil, &LockedError{RetryAfter: remaining}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		locked, err := s.attempts.RecordFailure(ctx, username)
		if err != nil {
			entry.WithError(err).Error("failed to record sign-in failure")
		}
		if locked {
			entry.Warn("account locked after repeated failures")
		} else {
			entry.Info("sign-in failed")
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.attempts.Reset(ctx, username); err != nil {
		entry.WithError(err).Warn("failed to reset sign-in failures")
	}

	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	entry.WithField("user_id", user.ID).Info("signed in")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// SignOut invalidates every token issued to the user so far.
func (s *Service) SignOut(ctx context.Context, userID uint) error {
	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// Register creates a Viewer account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	return s.CreateUser(ctx, req, models.RoleViewer)
}

// CreateUser creates an account with the given role after applying the
// password policy.
func (s *Service) CreateUser(ctx context.Context, req RegisterRequest, role models.Role) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	v := validation.New()
	v.Registration(req.Username, req.Email, req.FullName, req.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	existing, err = s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("user created")
	return user, nil
}

// SetRole changes a user's role. Existing tokens stop working.
func (s *Service) SetRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	parsed, ok := models.ParseRole(role)
	if !ok {
		return nil, ErrInvalidRole
	}
	if err := s.users.UpdateRole(ctx, userID, parsed); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return s.GetUser(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns one page of users.
func (s *Service) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	return s.users.ListPaginated(ctx, offset, limit)
}

// Authenticate verifies a token and checks it has not been revoked.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.UserClaims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}
	return claims, nil
}
