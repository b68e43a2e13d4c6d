package handlers

import (
	"errors"

	"fraudwatch/internal/middleware"
	"fraudwatch/internal/services/auth"
	"fraudwatch/internal/utils/response"
	"fraudwatch/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService AuthService
	auth        middleware.Authenticator
	log         *logrus.Logger
}

func NewAuthHandler(authSvc AuthService, authenticator middleware.Authenticator, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authSvc,
		auth:        authenticator,
		log:         log,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	v := validation.New()
	v.Struct(req)
	if err := v.Err(); err != nil {
		return failure(c, h.log, err, "Invalid login request")
	}

	result, err := h.authService.SignIn(c.UserContext(), req.Username, req.Password, c.IP())
	if err != nil {
		var locked *auth.LockedError
		switch {
		case errors.As(err, &locked):
			return response.Locked(c, "Account temporarily locked, try again later", locked.RetryAfter)
		case errors.Is(err, auth.ErrInvalidCredentials):
			return response.Error(c, fiber.StatusUnauthorized, "Invalid username or password")
		}
		return failure(c, h.log, err, "Failed to sign in")
	}
	return response.Success(c, "Login successful", result)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			return response.Conflict(c, "Username already taken")
		case errors.Is(err, auth.ErrEmailTaken):
			return response.Conflict(c, "Email already registered")
		}
		return failure(c, h.log, err, "Failed to register user")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"data":    user,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := h.auth.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c)
	}
	if err := h.authService.SignOut(c.UserContext(), claims.UserID); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return response.Unauthorized(c)
		}
		return failure(c, h.log, err, "Failed to sign out")
	}
	return response.Success(c, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := h.auth.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c)
	}
	user, err := h.authService.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return response.Unauthorized(c)
		}
		return failure(c, h.log, err, "Failed to load profile")
	}
	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"user":        user,
		"permissions": claims.Permissions,
	})
}
