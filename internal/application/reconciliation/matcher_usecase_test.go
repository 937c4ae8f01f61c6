package reconciliation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-agency/lumora-api/internal/application/reconciliation"
	"github.com/lumora-agency/lumora-api/internal/domain"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
)

func newMatcher() (*reconciliation.MatcherUseCase, *memBankStore) {
	s := newMemBankStore()
	uc := reconciliation.NewMatcherUseCase(&fakeRecTxRunner{s: s}, &memBankTxRepo{s: s}, &memDocRepo{s: s})
	return uc, s
}

func seedTx(s *memBankStore, id, amount string, occurredAt time.Time) {
	s.txs[id] = &entity.BankTransaction{
		ID:         id,
		ExternalID: "ext-" + id,
		Amount:     decimal.RequireFromString(amount),
		OccurredAt: occurredAt,
	}
	s.byExternal["ext-"+id] = id
}

func seedInvoice(s *memBankStore, id, reference, amountIncVat string, status entity.DocumentStatus) {
	s.docs[id] = &entity.Document{
		ID:           id,
		Type:         entity.DocumentTypeInvoice,
		Reference:    reference,
		Status:       status,
		ClientName:   "Acme SARL",
		AmountIncVat: decimal.RequireFromString(amountIncVat),
	}
}

// ── Suggest ───────────────────────────────────────────────────────────────────

// The tolerance is inclusive: a gap of exactly 1.00 still matches, 1.01
// does not.
func TestSuggest_ToleranceBoundary(t *testing.T) {
	uc, s := newMatcher()
	seedTx(s, "tx-1", "240.50", time.Now())
	seedInvoice(s, "doc-exact", "F-2026-0001", "240.50", entity.StatusSent)
	seedInvoice(s, "doc-near", "F-2026-0002", "241.49", entity.StatusSent)
	seedInvoice(s, "doc-edge", "F-2026-0003", "241.50", entity.StatusSent)
	seedInvoice(s, "doc-beyond", "F-2026-0004", "241.51", entity.StatusSent)
	seedInvoice(s, "doc-far", "F-2026-0005", "500.00", entity.StatusSent)

	candidates, err := uc.Suggest(context.Background(), "tx-1")
	require.NoError(t, err)

	got := make(map[string]bool)
	for _, c := range candidates {
		got[c.ID] = true
	}
	assert.True(t, got["doc-exact"])
	assert.True(t, got["doc-near"], "gap of 0.99 is within tolerance")
	assert.True(t, got["doc-edge"], "gap of exactly 1.00 still matches")
	assert.False(t, got["doc-beyond"], "gap of 1.01 is out")
	assert.False(t, got["doc-far"])
}

// A 241.00 transaction against open invoices at 240.00 and 500.00 suggests
// exactly the 240.00 one.
func TestSuggest_NearMissAgainstDistantInvoice(t *testing.T) {
	uc, s := newMatcher()
	seedTx(s, "tx-1", "241.00", time.Now())
	seedInvoice(s, "doc-close", "F-2026-0001", "240.00", entity.StatusSent)
	seedInvoice(s, "doc-far", "F-2026-0002", "500.00", entity.StatusSent)

	candidates, err := uc.Suggest(context.Background(), "tx-1")
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "doc-close", candidates[0].ID)
}

// Ambiguity is surfaced, never auto-resolved: two invoices at the same
// amount are both suggested.
func TestSuggest_SurfacesTies(t *testing.T) {
	uc, s := newMatcher()
	seedTx(s, "tx-1", "240.00", time.Now())
	seedInvoice(s, "doc-a", "F-2026-0001", "240.00", entity.StatusSent)
	seedInvoice(s, "doc-b", "F-2026-0002", "240.00", entity.StatusValidated)

	candidates, err := uc.Suggest(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

// Only open invoices are candidates: quotes, drafts and paid invoices never
// show up regardless of amount.
func TestSuggest_OnlyOpenInvoices(t *testing.T) {
	uc, s := newMatcher()
	seedTx(s, "tx-1", "240.00", time.Now())
	seedInvoice(s, "doc-paid", "F-2026-0001", "240.00", entity.StatusPaid)
	seedInvoice(s, "doc-draft", "", "240.00", entity.StatusDraft)
	s.docs["doc-quote"] = &entity.Document{
		ID:           "doc-quote",
		Type:         entity.DocumentTypeQuote,
		Status:       entity.StatusSent,
		AmountIncVat: decimal.RequireFromString("240.00"),
	}

	candidates, err := uc.Suggest(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSuggest_UnknownTransaction(t *testing.T) {
	uc, _ := newMatcher()
	_, err := uc.Suggest(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Associate ─────────────────────────────────────────────────────────────────

func TestAssociate_MarksPaidWithTransactionDate(t *testing.T) {
	uc, s := newMatcher()
	occurredAt := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedTx(s, "tx-1", "240.00", occurredAt)
	seedInvoice(s, "doc-1", "F-2026-0001", "240.00", entity.StatusSent)

	require.NoError(t, uc.Associate(context.Background(), "tx-1", "doc-1"))

	tx := s.txs["tx-1"]
	require.NotNil(t, tx.AssociatedDocumentID)
	assert.Equal(t, "doc-1", *tx.AssociatedDocumentID)

	doc := s.docs["doc-1"]
	assert.Equal(t, entity.StatusPaid, doc.Status)
	require.NotNil(t, doc.PaidAt)
	assert.True(t, doc.PaidAt.Equal(occurredAt), "payment date is the transaction date")
}

func TestAssociate_IdempotentForSamePair(t *testing.T) {
	uc, s := newMatcher()
	occurredAt := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedTx(s, "tx-1", "240.00", occurredAt)
	seedInvoice(s, "doc-1", "F-2026-0001", "240.00", entity.StatusSent)
	ctx := context.Background()

	require.NoError(t, uc.Associate(ctx, "tx-1", "doc-1"))
	require.NoError(t, uc.Associate(ctx, "tx-1", "doc-1"))

	doc := s.docs["doc-1"]
	assert.Equal(t, entity.StatusPaid, doc.Status)
	assert.True(t, doc.PaidAt.Equal(occurredAt))
}

func TestAssociate_RejectsSecondTarget(t *testing.T) {
	uc, s := newMatcher()
	seedTx(s, "tx-1", "240.00", time.Now())
	seedInvoice(s, "doc-1", "F-2026-0001", "240.00", entity.StatusSent)
	seedInvoice(s, "doc-2", "F-2026-0002", "240.00", entity.StatusSent)
	ctx := context.Background()

	require.NoError(t, uc.Associate(ctx, "tx-1", "doc-1"))
	err := uc.Associate(ctx, "tx-1", "doc-2")
	assert.ErrorIs(t, err, domain.ErrAlreadyAssociated)

	// The second invoice is untouched.
	assert.Equal(t, entity.StatusSent, s.docs["doc-2"].Status)
}

func TestAssociate_RequiresPayableDocument(t *testing.T) {
	uc, s := newMatcher()
	seedTx(s, "tx-1", "240.00", time.Now())
	ctx := context.Background()

	seedInvoice(s, "doc-draft", "", "240.00", entity.StatusDraft)
	assert.ErrorIs(t, uc.Associate(ctx, "tx-1", "doc-draft"), domain.ErrDocumentNotPayable)

	seedInvoice(s, "doc-paid", "F-2026-0001", "240.00", entity.StatusPaid)
	assert.ErrorIs(t, uc.Associate(ctx, "tx-1", "doc-paid"), domain.ErrDocumentNotPayable)

	s.docs["doc-quote"] = &entity.Document{
		ID:           "doc-quote",
		Type:         entity.DocumentTypeQuote,
		Status:       entity.StatusSent,
		AmountIncVat: decimal.RequireFromString("240.00"),
	}
	assert.ErrorIs(t, uc.Associate(ctx, "tx-1", "doc-quote"), domain.ErrDocumentNotPayable)

	// No failed attempt left a link behind.
	assert.Nil(t, s.txs["tx-1"].AssociatedDocumentID)
}

func TestAssociate_NotFound(t *testing.T) {
	uc, s := newMatcher()
	seedTx(s, "tx-1", "240.00", time.Now())
	ctx := context.Background()

	assert.ErrorIs(t, uc.Associate(ctx, "missing", "doc-1"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Associate(ctx, "tx-1", "missing"), domain.ErrNotFound)
}
