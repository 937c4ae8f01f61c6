// Package billing hosts the document ledger use cases: draft creation,
// issuance (VAT regime + frozen totals + reference allocation in one
// transaction) and lifecycle transitions.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/lumora-agency/lumora-api/internal/application/dto"
	"github.com/lumora-agency/lumora-api/internal/domain"
	domainbilling "github.com/lumora-agency/lumora-api/internal/domain/billing"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

// defaultPaymentTermDays applies when a draft carries no due date.
const defaultPaymentTermDays = 30

// LedgerUseCase owns the document lifecycle.
type LedgerUseCase struct {
	txRunner TxRunner
	docRepo  repository.DocumentRepository
}

// NewLedgerUseCase builds the use case. docRepo is the pool-bound
// repository used for reads outside transactions.
func NewLedgerUseCase(txRunner TxRunner, docRepo repository.DocumentRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, docRepo: docRepo}
}

// CreateDraft creates a DRAFT document with provisional amounts. No
// reference is allocated; everything stays mutable until issuance.
func (uc *LedgerUseCase) CreateDraft(ctx context.Context, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	docType, err := entity.ParseDocumentType(in.Type)
	if err != nil {
		return nil, err
	}
	if in.ClientName == "" {
		return nil, domain.ErrInvalidInput
	}
	lines := toEntityLines(in.Lines)

	now := time.Now()
	doc := &entity.Document{
		Type:            docType,
		Status:          entity.StatusDraft,
		ClientName:      in.ClientName,
		ClientCountry:   in.ClientCountry,
		ClientVatNumber: in.ClientVatNumber,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.DueDate != "" {
		due, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		doc.DueDate = due
	}
	if err := applyAmounts(doc, lines); err != nil {
		return nil, err
	}

	err = uc.txRunner.RunLedger(ctx, func(docs repository.DocumentRepository, _ repository.CounterRepository) error {
		return docs.Create(ctx, doc, lines)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, lines), nil
}

// UpdateDraftLines replaces the line set of a DRAFT document and recomputes
// its provisional amounts. Issued documents are immutable.
func (uc *LedgerUseCase) UpdateDraftLines(ctx context.Context, id string, in dto.UpdateLinesRequest) (*dto.DocumentResponse, error) {
	lines := toEntityLines(in.Lines)
	var doc *entity.Document

	err := uc.txRunner.RunLedger(ctx, func(docs repository.DocumentRepository, _ repository.CounterRepository) error {
		var err error
		doc, err = docs.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != entity.StatusDraft {
			return domain.ErrInvalidTransition
		}
		if err := applyAmounts(doc, lines); err != nil {
			return err
		}
		doc.UpdatedAt = time.Now()
		if err := docs.ReplaceLines(ctx, id, lines); err != nil {
			return err
		}
		return docs.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, lines), nil
}

// Issue allocates the legal reference and freezes the document. VAT regime
// resolution, totals computation and reference allocation run inside one
// transaction: if allocation fails the document stays DRAFT with no
// reference stored. The result transitions to SENT.
func (uc *LedgerUseCase) Issue(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	var doc *entity.Document
	var lines []entity.DocumentLine

	err := uc.txRunner.RunLedger(ctx, func(docs repository.DocumentRepository, counters repository.CounterRepository) error {
		var err error
		doc, err = docs.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != entity.StatusDraft {
			return domain.ErrInvalidTransition
		}
		lines, err = docs.GetLines(ctx, id)
		if err != nil {
			return err
		}
		if err := applyAmounts(doc, lines); err != nil {
			return err
		}

		now := time.Now()
		number, err := counters.NextNumber(ctx, doc.Type, now.Year())
		if err != nil {
			return fmt.Errorf("allocate reference: %w", err)
		}
		doc.Reference = domainbilling.FormatReference(doc.Type, now.Year(), number)
		doc.Status = entity.StatusSent
		doc.IssueDate = now
		if doc.DueDate.IsZero() {
			doc.DueDate = now.AddDate(0, 0, defaultPaymentTermDays)
		}
		doc.UpdatedAt = now
		return docs.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, lines), nil
}

// MarkPaid transitions SENT/VALIDATED → PAID and records the payment date.
// Idempotent: marking an already PAID document again is a no-op.
func (uc *LedgerUseCase) MarkPaid(ctx context.Context, id string, paidAt time.Time) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, id, func(doc *entity.Document) error {
		return doc.MarkPaid(paidAt)
	})
}

// Validate records a client's acceptance of a SENT quote.
func (uc *LedgerUseCase) Validate(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, id, (*entity.Document).Validate)
}

// Refuse records a client's refusal of a SENT quote. Terminal.
func (uc *LedgerUseCase) Refuse(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, id, (*entity.Document).Refuse)
}

// Cancel cancels any non-terminal document. Irreversible.
func (uc *LedgerUseCase) Cancel(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, id, (*entity.Document).Cancel)
}

// Get returns a document with its lines.
func (uc *LedgerUseCase) Get(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.docRepo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, lines), nil
}

// transition locks the document, applies an entity transition and persists
// the row in one transaction.
func (uc *LedgerUseCase) transition(ctx context.Context, id string, fn func(*entity.Document) error) (*dto.DocumentResponse, error) {
	var doc *entity.Document
	err := uc.txRunner.RunLedger(ctx, func(docs repository.DocumentRepository, _ repository.CounterRepository) error {
		var err error
		doc, err = docs.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if err := fn(doc); err != nil {
			return err
		}
		doc.UpdatedAt = time.Now()
		return docs.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// applyAmounts resolves the VAT regime for the document's client, applies
// the effective rate to each line (zero-rated regimes override the line
// rate) and stores the computed totals on the document.
func applyAmounts(doc *entity.Document, lines []entity.DocumentLine) error {
	regime := domainbilling.ResolveVatRegime(doc.ClientCountry, doc.ClientVatNumber)
	if regime.Rate.IsZero() {
		for i := range lines {
			lines[i].VatRate = regime.Rate
		}
	}
	totals, err := domainbilling.ComputeTotals(lines)
	if err != nil {
		return err
	}
	doc.AmountExVat = totals.ExVat
	doc.AmountVat = totals.Vat
	doc.AmountIncVat = totals.IncVat
	doc.VatRate = regime.Rate
	doc.VatMention = regime.Mention
	return nil
}

func toEntityLines(in []dto.DocumentLineRequest) []entity.DocumentLine {
	lines := make([]entity.DocumentLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, entity.DocumentLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VatRate:     l.VatRate,
		})
	}
	return lines
}

func toDocumentResponse(doc *entity.Document, lines []entity.DocumentLine) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:              doc.ID,
		Type:            string(doc.Type),
		Reference:       doc.Reference,
		Status:          string(doc.Status),
		ClientName:      doc.ClientName,
		ClientCountry:   doc.ClientCountry,
		ClientVatNumber: doc.ClientVatNumber,
		AmountExVat:     doc.AmountExVat,
		AmountVat:       doc.AmountVat,
		AmountIncVat:    doc.AmountIncVat,
		VatRate:         doc.VatRate,
		VatMention:      doc.VatMention,
	}
	if !doc.IssueDate.IsZero() {
		resp.IssueDate = doc.IssueDate.Format("2006-01-02")
	}
	if !doc.DueDate.IsZero() {
		resp.DueDate = doc.DueDate.Format("2006-01-02")
	}
	if doc.PaidAt != nil {
		resp.PaidAt = doc.PaidAt.Format(time.RFC3339)
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.DocumentLineResponse{
			ID:          l.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VatRate:     l.VatRate,
		})
	}
	return resp
}
