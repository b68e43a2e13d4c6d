package handlers

import (
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"fraudwatch/internal/services/transaction"
	"fraudwatch/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TransactionHandler struct {
	transactionService TransactionService
	log                *logrus.Logger
}

func NewTransactionHandler(transactionSvc TransactionService, log *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionSvc,
		log:                log,
	}
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	txns, err := h.transactionService.List(c.UserContext())
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", txns)
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid transaction ID")
	}
	tx, err := h.transactionService.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			return response.NotFound(c, fmt.Sprintf("Transaction %d not found", id))
		}
		return failure(c, h.log, err, "Failed to retrieve transaction")
	}
	return response.Success(c, "Transaction retrieved successfully", tx)
}

// Search matches ?status= case-insensitively.
func (h *TransactionHandler) Search(c *fiber.Ctx) error {
	status := c.Query("status")
	txns, err := h.transactionService.Search(c.UserContext(), status)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrStatusRequired):
			return response.BadRequest(c, "Status parameter is required")
		case errors.Is(err, transaction.ErrNoMatches):
			return response.NotFound(c, fmt.Sprintf("No transactions found with status: %s", status))
		}
		return failure(c, h.log, err, "Failed to search transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", txns)
}

func (h *TransactionHandler) ListByAccount(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid account ID")
	}
	txns, err := h.transactionService.ListByAccount(c.UserContext(), id)
	if err != nil {
		return failure(c, h.log, err, "Failed to retrieve transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", txns)
}

// Summary answers in plain text.
func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid transaction ID")
	}
	summary, err := h.transactionService.Summary(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Transaction not found")
		}
		return failure(c, h.log, err, "Failed to summarise transaction")
	}
	return c.SendString(summary)
}

type transactionXML struct {
	XMLName   xml.Name `xml:"transaction"`
	ID        uint     `xml:"id"`
	Reference string   `xml:"reference"`
	AccountID uint     `xml:"account_id"`
	Merchant  string   `xml:"merchant,omitempty"`
	Amount    string   `xml:"amount"`
	Currency  string   `xml:"currency"`
	Status    string   `xml:"status"`
	Timestamp string   `xml:"timestamp"`
}

// XML renders one transaction as an XML document.
func (h *TransactionHandler) XML(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid transaction ID")
	}
	tx, err := h.transactionService.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
			return c.Status(fiber.StatusNotFound).SendString("<error>Transaction not found</error>")
		}
		return failure(c, h.log, err, "Failed to retrieve transaction")
	}

	doc := transactionXML{
		ID:        tx.ID,
		Reference: tx.Reference,
		AccountID: tx.AccountID,
		Amount:    tx.Amount.StringFixed(2),
		Currency:  tx.Currency,
		Status:    string(tx.Status),
		Timestamp: tx.Timestamp.UTC().Format(time.RFC3339),
	}
	if tx.Merchant != nil {
		doc.Merchant = tx.Merchant.Name
	}
	return c.XML(doc)
}

func (h *TransactionHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid transaction ID")
	}
	detail, err := h.transactionService.Detail(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			return response.NotFound(c, fmt.Sprintf("Transaction %d not found", id))
		}
		return failure(c, h.log, err, "Failed to build transaction detail")
	}
	return response.Success(c, "Transaction detail retrieved successfully", detail)
}

func (h *TransactionHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.transactionService.Stats(c.UserContext())
	if err != nil {
		return failure(c, h.log, err, "Failed to compute statistics")
	}
	return response.Success(c, "Statistics retrieved successfully", stats)
}

func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req transaction.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	res, err := h.transactionService.Create(c.UserContext(), req)
	if err != nil {
		return failure(c, h.log, err, "Failed to create transaction")
	}
	return response.Created(c, fmt.Sprintf("/api/transactions/%d", res.Transaction.ID),
		"Transaction created successfully", res)
}

func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid transaction ID")
	}
	if err := h.transactionService.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			return response.NotFound(c, fmt.Sprintf("Transaction %d not found", id))
		}
		return failure(c, h.log, err, "Failed to delete transaction")
	}
	return response.NoContent(c)
}
