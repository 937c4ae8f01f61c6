package reconciliation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumora-agency/lumora-api/internal/application/dto"
	"github.com/lumora-agency/lumora-api/internal/domain"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

// matchTolerance is the maximum absolute gap between a transaction amount
// and an invoice total for the invoice to be suggested. The bound is
// inclusive: a gap of exactly one currency unit still matches, anything
// beyond it does not. Kept as a var only because decimal.Decimal cannot be
// a constant; it never changes at runtime.
var matchTolerance = decimal.NewFromInt(1)

// MatcherUseCase proposes and records associations between bank
// transactions and open invoices.
type MatcherUseCase struct {
	txRunner TxRunner
	txRepo   repository.BankTransactionRepository
	docRepo  repository.DocumentRepository
}

// NewMatcherUseCase builds the use case. The repositories are pool-bound
// and serve reads; Associate runs through the TxRunner.
func NewMatcherUseCase(txRunner TxRunner, txRepo repository.BankTransactionRepository, docRepo repository.DocumentRepository) *MatcherUseCase {
	return &MatcherUseCase{txRunner: txRunner, txRepo: txRepo, docRepo: docRepo}
}

// Suggest returns every open invoice whose total is within the tolerance of
// the transaction amount. Ties are expected and all surfaced: ambiguity is
// for a human to resolve, never auto-picked.
func (uc *MatcherUseCase) Suggest(ctx context.Context, transactionID string) ([]dto.DocumentResponse, error) {
	tx, err := uc.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	open, err := uc.docRepo.ListOpenInvoices(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]dto.DocumentResponse, 0)
	for _, doc := range open {
		if doc.AmountIncVat.Sub(tx.Amount).Abs().LessThanOrEqual(matchTolerance) {
			candidates = append(candidates, toSuggestionResponse(doc))
		}
	}
	return candidates, nil
}

// Associate links a transaction to an open invoice and marks the invoice
// paid with the transaction date, both writes in one transaction or
// neither. Re-invoking with the identical pair is a no-op; any other target
// for an associated transaction fails with ErrAlreadyAssociated.
func (uc *MatcherUseCase) Associate(ctx context.Context, transactionID, documentID string) error {
	return uc.txRunner.RunReconciliation(ctx, func(
		txs repository.BankTransactionRepository,
		docs repository.DocumentRepository,
	) error {
		tx, err := txs.GetByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		if tx.IsAssociated() {
			if *tx.AssociatedDocumentID == documentID {
				return nil // idempotent for the identical pair
			}
			return domain.ErrAlreadyAssociated
		}

		doc, err := docs.GetByIDForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if !doc.IsPayable() {
			return domain.ErrDocumentNotPayable
		}

		if err := txs.SetAssociatedDocument(ctx, transactionID, documentID); err != nil {
			return err
		}
		if err := doc.MarkPaid(tx.OccurredAt); err != nil {
			return err
		}
		doc.UpdatedAt = time.Now()
		return docs.Update(ctx, doc)
	})
}

func toSuggestionResponse(doc *entity.Document) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:           doc.ID,
		Type:         string(doc.Type),
		Reference:    doc.Reference,
		Status:       string(doc.Status),
		ClientName:   doc.ClientName,
		AmountExVat:  doc.AmountExVat,
		AmountVat:    doc.AmountVat,
		AmountIncVat: doc.AmountIncVat,
		VatRate:      doc.VatRate,
	}
	if !doc.IssueDate.IsZero() {
		resp.IssueDate = doc.IssueDate.Format("2006-01-02")
	}
	if !doc.DueDate.IsZero() {
		resp.DueDate = doc.DueDate.Format("2006-01-02")
	}
	return resp
}
