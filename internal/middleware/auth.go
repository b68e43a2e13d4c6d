// Package middleware provides HTTP middleware components for the application.
// It includes authentication and authorization middleware for the fiber
// web framework.
package middleware

import (
	"context"
	"errors"
	"strings"

	"fraudwatch/internal/models"
	"fraudwatch/internal/services/auth"
	"fraudwatch/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const claimsKey = "claims"

// Authenticator is the identity collaborator the routes depend on.
type Authenticator interface {
	// Handler rejects requests without a valid bearer token and stores the
	// caller's claims for CurrentUser.
	Handler(c *fiber.Ctx) error
	CurrentUser(c *fiber.Ctx) (*models.UserClaims, bool)
	HasRole(c *fiber.Ctx, roles ...models.Role) bool
}

// TokenVerifier validates a bearer token. auth.Service implements it.
type TokenVerifier interface {
	Authenticate(ctx context.Context, token string) (*models.UserClaims, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
type AuthMiddleware struct {
	verifier TokenVerifier
	log      *logrus.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, log: log}
}

// Handler validates JWT tokens and adds claims to the request context.
// Tokens issued before the user's last sign-out or role change are refused.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	claims, err := m.verifier.Authenticate(c.UserContext(), strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrSessionExpired):
			return response.Error(c, fiber.StatusUnauthorized, "session expired")
		case errors.Is(err, auth.ErrInvalidToken):
			return response.Error(c, fiber.StatusUnauthorized, "invalid token")
		default:
			m.log.WithError(err).Error("token verification failed")
			return response.ServerError(c, "failed to verify token")
		}
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

func (m *AuthMiddleware) CurrentUser(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals(claimsKey).(*models.UserClaims)
	return claims, ok && claims != nil
}

func (m *AuthMiddleware) HasRole(c *fiber.Ctx, roles ...models.Role) bool {
	claims, ok := m.CurrentUser(c)
	if !ok {
		return false
	}
	for _, r := range roles {
		if claims.Role == r {
			return true
		}
	}
	return false
}

// RequireRole returns a middleware that admits only the given roles.
func RequireRole(a Authenticator, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := a.CurrentUser(c); !ok {
			return response.Unauthorized(c)
		}
		if !a.HasRole(c, roles...) {
			return response.Forbidden(c)
		}
		return c.Next()
	}
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(a Authenticator, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := a.CurrentUser(c)
		if !ok {
			return response.Unauthorized(c)
		}
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return response.Forbidden(c)
	}
}
