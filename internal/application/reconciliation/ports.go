package reconciliation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

// TxRunner runs a callback with reconciliation repositories bound to one
// storage transaction. Implemented by postgres.TxRunner.
type TxRunner interface {
	RunReconciliation(ctx context.Context, fn func(
		txs repository.BankTransactionRepository,
		docs repository.DocumentRepository,
	) error) error
}

// FeedTransaction is one item as reported by the external bank feed.
type FeedTransaction struct {
	ExternalID       string
	Amount           decimal.Decimal
	Label            string
	CounterpartyName string
	OccurredAt       time.Time
}

// FeedClient pulls transactions from the external bank feed. Read-only:
// nothing is ever written back to the feed. Implementations carry their own
// timeout and bounded retry; a failed call wraps domain.ErrFeedUnavailable
// when retryable.
type FeedClient interface {
	FetchTransactions(ctx context.Context, since time.Time) ([]FeedTransaction, error)
}
