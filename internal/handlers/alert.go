package handlers

import (
	"errors"
	"fmt"

	"fraudwatch/internal/middleware"
	"fraudwatch/internal/services/alert"
	"fraudwatch/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AlertHandler struct {
	alertService AlertService
	auth         middleware.Authenticator
	log          *logrus.Logger
}

func NewAlertHandler(alertSvc AlertService, auth middleware.Authenticator, log *logrus.Logger) *AlertHandler {
	return &AlertHandler{
		alertService: alertSvc,
		auth:         auth,
		log:          log,
	}
}

// List filters by ?level= and ?status=, both case-insensitive.
func (h *AlertHandler) List(c *fiber.Ctx) error {
	alerts, err := h.alertService.List(c.UserContext(), alert.Filter{
		Level:  c.Query("level"),
		Status: c.Query("status"),
	})
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve alerts")
	}
	return c.JSON(fiber.Map{
		"count": len(alerts),
		"data":  alerts,
	})
}

func (h *AlertHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid alert ID")
	}
	a, err := h.alertService.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, alert.ErrAlertNotFound) {
			return response.NotFound(c, fmt.Sprintf("Alert %d not found", id))
		}
		return failure(c, h.log, err, "Failed to retrieve alert")
	}
	return response.Success(c, "Alert retrieved successfully", a)
}

func (h *AlertHandler) History(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid alert ID")
	}
	logs, err := h.alertService.History(c.UserContext(), id)
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve alert history")
	}
	return response.Success(c, "Alert history retrieved successfully", logs)
}

func (h *AlertHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.alertService.Dashboard(c.UserContext())
	if err != nil {
		return failure(c, h.log, err, "Failed to build dashboard")
	}
	return response.Success(c, "Dashboard retrieved successfully", dashboard)
}

// Review overwrites status and assignee. The signed-in user is recorded
// as the reviewer.
func (h *AlertHandler) Review(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid alert ID")
	}

	var req alert.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := "system"
	if claims, ok := h.auth.CurrentUser(c); ok {
		actor = claims.Username
	}

	reviewed, err := h.alertService.Review(c.UserContext(), id, req, actor)
	if err != nil {
		switch {
		case errors.Is(err, alert.ErrAlertNotFound):
			return response.NotFound(c, fmt.Sprintf("Alert %d not found", id))
		case errors.Is(err, alert.ErrStatusRequired):
			return response.ValidationFailed(c, map[string]string{"status": "status is required"})
		case errors.Is(err, alert.ErrAssigneeNotFound):
			return response.ValidationFailed(c, map[string]string{"assigned_to": "user does not exist"})
		}
		return failure(c, h.log, err, "Failed to review alert")
	}
	return response.Success(c, "Alert reviewed successfully", reviewed)
}
