package billing

import (
	"context"

	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

// TxRunner runs a callback with ledger repositories bound to one storage
// transaction. Implemented by postgres.TxRunner.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		docs repository.DocumentRepository,
		counters repository.CounterRepository,
	) error) error
}
