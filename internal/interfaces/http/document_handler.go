package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lumora-agency/lumora-api/internal/application/billing"
	"github.com/lumora-agency/lumora-api/internal/application/dto"
	"github.com/lumora-agency/lumora-api/internal/domain"
)

// DocumentHandler serves the ledger operations.
type DocumentHandler struct {
	ledger *billing.LedgerUseCase
	pdf    *billing.PDFUseCase
}

// NewDocumentHandler builds the handler.
func NewDocumentHandler(ledger *billing.LedgerUseCase, pdf *billing.PDFUseCase) *DocumentHandler {
	return &DocumentHandler{ledger: ledger, pdf: pdf}
}

// Create creates a draft document.
// POST /api/documents
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	doc, err := h.ledger.CreateDraft(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// GetByID returns a document with its lines.
// GET /api/documents/:id
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.ledger.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(doc)
}

// UpdateLines replaces a draft's line set.
// PUT /api/documents/:id/lines
func (h *DocumentHandler) UpdateLines(c *fiber.Ctx) error {
	var in dto.UpdateLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	doc, err := h.ledger.UpdateDraftLines(c.Context(), c.Params("id"), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(doc)
}

// Issue allocates the reference and freezes the document.
// POST /api/documents/:id/issue
func (h *DocumentHandler) Issue(c *fiber.Ctx) error {
	doc, err := h.ledger.Issue(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(doc)
}

// MarkPaid records a payment.
// POST /api/documents/:id/pay
func (h *DocumentHandler) MarkPaid(c *fiber.Ctx) error {
	var in dto.MarkPaidRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid request body"})
	}
	paidAt := time.Now()
	if in.PaidAt != "" {
		t, err := time.Parse(time.RFC3339, in.PaidAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paidAt must be RFC 3339"})
		}
		paidAt = t
	}
	doc, err := h.ledger.MarkPaid(c.Context(), c.Params("id"), paidAt)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(doc)
}

// Validate records a quote acceptance.
// POST /api/documents/:id/validate
func (h *DocumentHandler) Validate(c *fiber.Ctx) error {
	doc, err := h.ledger.Validate(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(doc)
}

// Refuse records a quote refusal.
// POST /api/documents/:id/refuse
func (h *DocumentHandler) Refuse(c *fiber.Ctx) error {
	doc, err := h.ledger.Refuse(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(doc)
}

// Cancel cancels a non-terminal document.
// POST /api/documents/:id/cancel
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	doc, err := h.ledger.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(doc)
}

// RenderPDF streams the printable rendition of an issued document.
// GET /api/documents/:id/pdf
func (h *DocumentHandler) RenderPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.pdf.Render(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdfBytes)
}

// mapDomainError translates domain sentinels to HTTP responses.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyLineSet),
		errors.Is(err, domain.ErrInvalidQuantityOrPrice):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrDocumentNotPayable),
		errors.Is(err, domain.ErrAlreadyAssociated),
		errors.Is(err, domain.ErrNotIssued),
		errors.Is(err, domain.ErrSyncInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrAllocatorUnavailable),
		errors.Is(err, domain.ErrFeedUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
