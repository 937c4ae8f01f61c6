package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-agency/lumora-api/internal/domain"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
)

func TestParseDocumentType_RejectsUnknown(t *testing.T) {
	for _, valid := range []string{"QUOTE", "INVOICE", "CREDIT_NOTE", "PURCHASE_ORDER"} {
		_, err := entity.ParseDocumentType(valid)
		assert.NoError(t, err, valid)
	}
	for _, invalid := range []string{"", "invoice", "RECEIPT", "Quote"} {
		_, err := entity.ParseDocumentType(invalid)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, invalid)
	}
}

func TestParseDocumentStatus_RejectsUnknown(t *testing.T) {
	_, err := entity.ParseDocumentStatus("SENT")
	assert.NoError(t, err)
	_, err = entity.ParseDocumentStatus("OPEN")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarkPaid_FromSentAndValidated(t *testing.T) {
	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, status := range []entity.DocumentStatus{entity.StatusSent, entity.StatusValidated} {
		doc := &entity.Document{Type: entity.DocumentTypeInvoice, Status: status}
		require.NoError(t, doc.MarkPaid(at))
		assert.Equal(t, entity.StatusPaid, doc.Status)
		require.NotNil(t, doc.PaidAt)
		assert.True(t, doc.PaidAt.Equal(at))
	}
}

// Marking an already-paid document paid again is a no-op and must not
// overwrite the original payment date.
func TestMarkPaid_IdempotentKeepsOriginalDate(t *testing.T) {
	first := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	doc := &entity.Document{Type: entity.DocumentTypeInvoice, Status: entity.StatusSent}
	require.NoError(t, doc.MarkPaid(first))

	require.NoError(t, doc.MarkPaid(first.AddDate(0, 0, 5)))
	assert.True(t, doc.PaidAt.Equal(first))
}

func TestMarkPaid_InvalidFromOtherStatuses(t *testing.T) {
	for _, status := range []entity.DocumentStatus{entity.StatusDraft, entity.StatusRefused, entity.StatusCancelled} {
		doc := &entity.Document{Type: entity.DocumentTypeInvoice, Status: status}
		assert.ErrorIs(t, doc.MarkPaid(time.Now()), domain.ErrInvalidTransition, string(status))
	}
}

func TestQuoteOutcomes(t *testing.T) {
	quote := &entity.Document{Type: entity.DocumentTypeQuote, Status: entity.StatusSent}
	require.NoError(t, quote.Validate())
	assert.Equal(t, entity.StatusValidated, quote.Status)

	refused := &entity.Document{Type: entity.DocumentTypeQuote, Status: entity.StatusSent}
	require.NoError(t, refused.Refuse())
	assert.Equal(t, entity.StatusRefused, refused.Status)

	// Only SENT quotes have an outcome.
	invoice := &entity.Document{Type: entity.DocumentTypeInvoice, Status: entity.StatusSent}
	assert.ErrorIs(t, invoice.Validate(), domain.ErrInvalidTransition)
	draft := &entity.Document{Type: entity.DocumentTypeQuote, Status: entity.StatusDraft}
	assert.ErrorIs(t, draft.Refuse(), domain.ErrInvalidTransition)
}

func TestCancel_OnlyFromNonTerminal(t *testing.T) {
	for _, status := range []entity.DocumentStatus{entity.StatusDraft, entity.StatusSent, entity.StatusValidated} {
		doc := &entity.Document{Type: entity.DocumentTypeInvoice, Status: status}
		require.NoError(t, doc.Cancel(), string(status))
		assert.Equal(t, entity.StatusCancelled, doc.Status)
	}
	for _, status := range []entity.DocumentStatus{entity.StatusPaid, entity.StatusCancelled, entity.StatusRefused} {
		doc := &entity.Document{Type: entity.DocumentTypeInvoice, Status: status}
		assert.ErrorIs(t, doc.Cancel(), domain.ErrInvalidTransition, string(status))
	}
}

func TestIsPayable(t *testing.T) {
	assert.True(t, (&entity.Document{Type: entity.DocumentTypeInvoice, Status: entity.StatusSent}).IsPayable())
	assert.True(t, (&entity.Document{Type: entity.DocumentTypeInvoice, Status: entity.StatusValidated}).IsPayable())
	assert.False(t, (&entity.Document{Type: entity.DocumentTypeInvoice, Status: entity.StatusPaid}).IsPayable())
	assert.False(t, (&entity.Document{Type: entity.DocumentTypeQuote, Status: entity.StatusSent}).IsPayable())
}
