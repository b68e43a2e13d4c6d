package handlers

import (
	"errors"

	"fraudwatch/internal/services/auth"
	"fraudwatch/internal/utils/pagination"
	"fraudwatch/internal/utils/response"
	"fraudwatch/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	authService AuthService
	log         *logrus.Logger
}

func NewAdminHandler(authSvc AuthService, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{authService: authSvc, log: log}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	users, total, err := h.authService.ListUsers(c.UserContext(), p.Offset, p.Limit)
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve users")
	}
	p.Total = total

	return response.Success(c, "Users retrieved successfully", pagination.Response(p, users))
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}
	var req setRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	v := validation.New()
	v.Struct(req)
	if err := v.Err(); err != nil {
		return failure(c, h.log, err, "Invalid role request")
	}

	user, err := h.authService.SetRole(c.UserContext(), id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRole):
			return response.ValidationFailed(c, map[string]string{"role": "must be one of Admin, Analyst, Viewer"})
		case errors.Is(err, auth.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		}
		return failure(c, h.log, err, "Failed to update role")
	}
	return response.Success(c, "Role updated successfully", user)
}
