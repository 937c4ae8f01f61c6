package repository

import (
	"context"

	"github.com/lumora-agency/lumora-api/internal/domain/entity"
)

// CounterRepository is the reference allocation port.
type CounterRepository interface {
	// NextNumber atomically increments and returns the sequence for
	// (docType, year), creating the counter row at 1 on first use. The
	// increment must be a single atomic storage operation: two concurrent
	// calls for the same key never observe the same value. Storage failure
	// wraps domain.ErrAllocatorUnavailable.
	NextNumber(ctx context.Context, docType entity.DocumentType, year int) (int, error)
}
