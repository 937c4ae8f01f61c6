package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lumora-agency/lumora-api/internal/domain/entity"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

var _ repository.BankTransactionRepository = (*BankTransactionRepo)(nil)

// BankTransactionRepo implements BankTransactionRepository on PostgreSQL
// (pool or tx).
type BankTransactionRepo struct {
	q Querier
}

// NewBankTransactionRepository builds the adapter. Pass a pool or a tx.
func NewBankTransactionRepository(q Querier) *BankTransactionRepo {
	return &BankTransactionRepo{q: q}
}

const bankTransactionColumns = `
	id, external_id, amount, label, counterparty_name, occurred_at, associated_document_id, created_at`

// Insert persists a feed transaction. Dedup happens here, in the statement:
// ON CONFLICT (external_id) DO NOTHING makes re-ingesting the same feed
// event a no-op, with no prior existence check that could race. Returns
// false when the row already existed.
func (r *BankTransactionRepo) Insert(ctx context.Context, tx *entity.BankTransaction) (bool, error) {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO bank_transactions (id, external_id, amount, label, counterparty_name, occurred_at, associated_document_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, q,
		tx.ID, tx.ExternalID, tx.Amount, tx.Label, tx.CounterpartyName,
		tx.OccurredAt, tx.AssociatedDocumentID, tx.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert bank transaction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID fetches a transaction. Returns nil, nil when it does not exist.
func (r *BankTransactionRepo) GetByID(ctx context.Context, id string) (*entity.BankTransaction, error) {
	q := `SELECT ` + bankTransactionColumns + ` FROM bank_transactions WHERE id = $1`
	tx, err := scanBankTransaction(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank transaction: %w", err)
	}
	return tx, nil
}

// GetByIDForUpdate fetches and locks the row (SELECT FOR UPDATE).
func (r *BankTransactionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.BankTransaction, error) {
	q := `SELECT ` + bankTransactionColumns + ` FROM bank_transactions WHERE id = $1 FOR UPDATE`
	tx, err := scanBankTransaction(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank transaction for update: %w", err)
	}
	return tx, nil
}

// ListUnassociated returns transactions not yet linked to a document,
// oldest first, the reconciliation work queue.
func (r *BankTransactionRepo) ListUnassociated(ctx context.Context) ([]*entity.BankTransaction, error) {
	q := `SELECT ` + bankTransactionColumns + `
		FROM bank_transactions
		WHERE associated_document_id IS NULL
		ORDER BY occurred_at`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list unassociated transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.BankTransaction
	for rows.Next() {
		tx, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

// SetAssociatedDocument records the association link.
func (r *BankTransactionRepo) SetAssociatedDocument(ctx context.Context, transactionID, documentID string) error {
	const q = `UPDATE bank_transactions SET associated_document_id = $2 WHERE id = $1`
	_, err := r.q.Exec(ctx, q, transactionID, documentID)
	if err != nil {
		return fmt.Errorf("set associated document: %w", err)
	}
	return nil
}

func scanBankTransaction(row pgxScanner) (*entity.BankTransaction, error) {
	var tx entity.BankTransaction
	err := row.Scan(
		&tx.ID, &tx.ExternalID, &tx.Amount, &tx.Label, &tx.CounterpartyName,
		&tx.OccurredAt, &tx.AssociatedDocumentID, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
