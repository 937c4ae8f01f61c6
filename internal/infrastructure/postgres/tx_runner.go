package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumora-agency/lumora-api/internal/application/billing"
	"github.com/lumora-agency/lumora-api/internal/application/reconciliation"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

// Ensure TxRunner implements both usecase runner ports.
var _ billing.TxRunner = (*TxRunner)(nil)
var _ reconciliation.TxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside a PostgreSQL transaction. If the
// caller's context is cancelled mid-flight the deferred Rollback undoes
// every write: there is no half-issued or half-associated state.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner from the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLedger starts a transaction and runs fn with document and counter
// repositories bound to it. Issuance uses this so VAT resolution, totals
// freeze and reference allocation commit or roll back as one unit.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	docs repository.DocumentRepository,
	counters repository.CounterRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewDocumentRepository(tx), NewCounterRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReconciliation starts a transaction with bank transaction and document
// repositories bound to it (for Associate: link + mark paid atomically).
func (r *TxRunner) RunReconciliation(ctx context.Context, fn func(
	txs repository.BankTransactionRepository,
	docs repository.DocumentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBankTransactionRepository(tx), NewDocumentRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
