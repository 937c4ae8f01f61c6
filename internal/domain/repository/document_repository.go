package repository

import (
	"context"

	"github.com/lumora-agency/lumora-api/internal/domain/entity"
)

// DocumentRepository is the persistence port for documents and their lines.
// GetByID returns nil, nil when the document does not exist; usecases map
// that to domain.ErrNotFound.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document, lines []entity.DocumentLine) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetByIDForUpdate locks the document row for the lifetime of the
	// enclosing transaction (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Document, error)
	GetLines(ctx context.Context, documentID string) ([]entity.DocumentLine, error)
	// ReplaceLines swaps the full line set of a DRAFT document.
	ReplaceLines(ctx context.Context, documentID string, lines []entity.DocumentLine) error
	// Update persists status, reference, frozen amounts, VAT fields, dates
	// and paid_at. Issuance and payment writes go through here so readers
	// always observe the document row atomically.
	Update(ctx context.Context, doc *entity.Document) error
	// ListOpenInvoices returns invoices in SENT or VALIDATED status, the
	// candidate pool for reconciliation.
	ListOpenInvoices(ctx context.Context) ([]*entity.Document, error)
}
