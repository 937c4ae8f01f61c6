package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is one line pulled from the external bank feed.
// ExternalID is the feed-assigned identity; the unique constraint on it is
// what makes sync retryable. A transaction holds at most one association.
type BankTransaction struct {
	ID                   string
	ExternalID           string
	Amount               decimal.Decimal
	Label                string
	CounterpartyName     string
	OccurredAt           time.Time
	AssociatedDocumentID *string
	CreatedAt            time.Time
}

// IsAssociated reports whether the transaction is already linked to a document.
func (t *BankTransaction) IsAssociated() bool {
	return t.AssociatedDocumentID != nil && *t.AssociatedDocumentID != ""
}
