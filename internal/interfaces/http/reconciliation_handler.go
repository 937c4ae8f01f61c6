package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumora-agency/lumora-api/internal/application/dto"
	"github.com/lumora-agency/lumora-api/internal/application/reconciliation"
)

// ReconciliationHandler serves bank sync and matching operations.
type ReconciliationHandler struct {
	sync    *reconciliation.SyncUseCase
	matcher *reconciliation.MatcherUseCase
}

// NewReconciliationHandler builds the handler.
func NewReconciliationHandler(sync *reconciliation.SyncUseCase, matcher *reconciliation.MatcherUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{sync: sync, matcher: matcher}
}

// Sync pulls the bank feed for the trailing window.
// POST /api/bank/sync
func (h *ReconciliationHandler) Sync(c *fiber.Ctx) error {
	var in dto.SyncRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	result, err := h.sync.Sync(c.Context(), in.DaysBack)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(result)
}

// ListUnassociated returns the reconciliation work queue.
// GET /api/bank/transactions
func (h *ReconciliationHandler) ListUnassociated(c *fiber.Ctx) error {
	txs, err := h.sync.ListUnassociated(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(txs)
}

// Suggest lists open invoices matching a transaction's amount.
// GET /api/bank/transactions/:id/suggestions
func (h *ReconciliationHandler) Suggest(c *fiber.Ctx) error {
	candidates, err := h.matcher.Suggest(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(candidates)
}

// Associate links a transaction to an open invoice and marks it paid.
// POST /api/bank/transactions/:id/associate
func (h *ReconciliationHandler) Associate(c *fiber.Ctx) error {
	var in dto.AssociateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	if in.DocumentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "documentId is required"})
	}
	if err := h.matcher.Associate(c.Context(), c.Params("id"), in.DocumentID); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
