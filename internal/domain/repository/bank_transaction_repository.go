package repository

import (
	"context"

	"github.com/lumora-agency/lumora-api/internal/domain/entity"
)

// BankTransactionRepository is the persistence port for feed transactions.
type BankTransactionRepository interface {
	// Insert persists a transaction, relying on the external_id unique
	// constraint for dedup. Returns false when the row already existed
	// (ON CONFLICT DO NOTHING), which sync counts as skipped.
	Insert(ctx context.Context, tx *entity.BankTransaction) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.BankTransaction, error)
	// GetByIDForUpdate locks the row for the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.BankTransaction, error)
	ListUnassociated(ctx context.Context) ([]*entity.BankTransaction, error)
	SetAssociatedDocument(ctx context.Context, transactionID, documentID string) error
}
