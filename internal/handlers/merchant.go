package handlers

import (
	"fmt"

	"fraudwatch/internal/repositories"
	"fraudwatch/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type MerchantHandler struct {
	merchants repositories.MerchantRepository
	log       *logrus.Logger
}

func NewMerchantHandler(merchants repositories.MerchantRepository, log *logrus.Logger) *MerchantHandler {
	return &MerchantHandler{merchants: merchants, log: log}
}

func (h *MerchantHandler) List(c *fiber.Ctx) error {
	merchants, err := h.merchants.List(c.UserContext())
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve merchants")
	}
	return response.Success(c, "Merchants retrieved successfully", merchants)
}

// HighRisk lists merchants whose risk score exceeds the listing threshold.
func (h *MerchantHandler) HighRisk(c *fiber.Ctx) error {
	merchants, err := h.merchants.ListHighRisk(c.UserContext())
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve merchants")
	}
	return response.Success(c, "High-risk merchants retrieved successfully", merchants)
}

func (h *MerchantHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid merchant ID")
	}
	merchant, err := h.merchants.GetByID(c.UserContext(), id)
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve merchant")
	}
	if merchant == nil {
		return response.NotFound(c, fmt.Sprintf("Merchant %d not found", id))
	}
	return response.Success(c, "Merchant retrieved successfully", merchant)
}
