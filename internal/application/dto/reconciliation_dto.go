package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncRequest triggers a bank feed pull for the trailing window.
type SyncRequest struct {
	DaysBack int `json:"daysBack"`
}

// SyncResult reports what a sync run did. Imported + Skipped == Fetched
// when the run completed; on partial failure the counts cover the items
// processed before the error.
type SyncResult struct {
	Fetched  int `json:"fetched"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// BankTransactionResponse is one feed transaction.
type BankTransactionResponse struct {
	ID                   string          `json:"id"`
	ExternalID           string          `json:"externalId"`
	Amount               decimal.Decimal `json:"amount"`
	Label                string          `json:"label"`
	CounterpartyName     string          `json:"counterpartyName"`
	OccurredAt           time.Time       `json:"occurredAt"`
	AssociatedDocumentID string          `json:"associatedDocumentId,omitempty"`
}

// AssociateRequest links a transaction to an open invoice.
type AssociateRequest struct {
	DocumentID string `json:"documentId"`
}
