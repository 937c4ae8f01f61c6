package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumora-agency/lumora-api/internal/domain"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

// DocumentSnapshot is the frozen view handed to the PDF renderer. It only
// ever carries issued data: a DRAFT's provisional totals never reach it.
type DocumentSnapshot struct {
	Reference    string
	Type         entity.DocumentType
	ClientName   string
	Lines        []entity.DocumentLine
	AmountExVat  decimal.Decimal
	AmountVat    decimal.Decimal
	AmountIncVat decimal.Decimal
	VatRate      decimal.Decimal
	VatMention   string
	IssueDate    time.Time
	DueDate      time.Time
}

// DocumentPDFGenerator renders a snapshot. Implemented by the maroto
// adapter; it consumes the ledger's computed data and owns no invariant.
type DocumentPDFGenerator interface {
	Generate(ctx context.Context, snap *DocumentSnapshot) ([]byte, error)
}

// PDFUseCase produces the printable rendition of issued documents.
type PDFUseCase struct {
	docRepo   repository.DocumentRepository
	generator DocumentPDFGenerator
}

// NewPDFUseCase builds the use case.
func NewPDFUseCase(docRepo repository.DocumentRepository, generator DocumentPDFGenerator) *PDFUseCase {
	return &PDFUseCase{docRepo: docRepo, generator: generator}
}

// Render returns the PDF bytes for an issued document. Drafts are refused:
// their amounts are provisional and carry no reference.
func (uc *PDFUseCase) Render(ctx context.Context, id string) ([]byte, error) {
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.Status == entity.StatusDraft {
		return nil, domain.ErrNotIssued
	}
	lines, err := uc.docRepo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.generator.Generate(ctx, &DocumentSnapshot{
		Reference:    doc.Reference,
		Type:         doc.Type,
		ClientName:   doc.ClientName,
		Lines:        lines,
		AmountExVat:  doc.AmountExVat,
		AmountVat:    doc.AmountVat,
		AmountIncVat: doc.AmountIncVat,
		VatRate:      doc.VatRate,
		VatMention:   doc.VatMention,
		IssueDate:    doc.IssueDate,
		DueDate:      doc.DueDate,
	})
}
