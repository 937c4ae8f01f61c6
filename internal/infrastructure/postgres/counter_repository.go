package postgres

import (
	"context"
	"fmt"

	"github.com/lumora-agency/lumora-api/internal/domain"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo implements CounterRepository on PostgreSQL (pool or tx).
type CounterRepo struct {
	q Querier
}

// NewCounterRepository builds the adapter. Pass a pool or a tx (Querier).
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// NextNumber increments and returns the (doc_type, year) sequence in one
// atomic statement. The upsert creates the row at 1 on first allocation;
// the ON CONFLICT branch increments the stored value. Both paths return
// the post-increment number via RETURNING, so no read-then-write window
// exists and concurrent allocations for the same key serialize on the row.
func (r *CounterRepo) NextNumber(ctx context.Context, docType entity.DocumentType, year int) (int, error) {
	const q = `
		INSERT INTO document_counters (doc_type, year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, year)
		DO UPDATE SET last_number = document_counters.last_number + 1
		RETURNING last_number`
	var n int
	if err := r.q.QueryRow(ctx, q, string(docType), year).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: next number for %s/%d: %v", domain.ErrAllocatorUnavailable, docType, year, err)
	}
	return n, nil
}
