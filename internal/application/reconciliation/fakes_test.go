package reconciliation_test

import (
	"context"
	"sync"
	"time"

	"github.com/lumora-agency/lumora-api/internal/application/reconciliation"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

// memBankStore backs the reconciliation fakes: bank transactions keyed by id
// with an external_id uniqueness index, plus the documents the matcher reads.
type memBankStore struct {
	mu         sync.Mutex
	txs        map[string]*entity.BankTransaction
	byExternal map[string]string // external_id → id
	docs       map[string]*entity.Document

	insertFailOn string // external_id whose insert fails
	insertErr    error
}

func newMemBankStore() *memBankStore {
	return &memBankStore{
		txs:        make(map[string]*entity.BankTransaction),
		byExternal: make(map[string]string),
		docs:       make(map[string]*entity.Document),
	}
}

func cloneTx(tx *entity.BankTransaction) *entity.BankTransaction {
	c := *tx
	if tx.AssociatedDocumentID != nil {
		id := *tx.AssociatedDocumentID
		c.AssociatedDocumentID = &id
	}
	return &c
}

func cloneDoc(d *entity.Document) *entity.Document {
	c := *d
	if d.PaidAt != nil {
		at := *d.PaidAt
		c.PaidAt = &at
	}
	return &c
}

// ── BankTransactionRepository fake ────────────────────────────────────────────

type memBankTxRepo struct{ s *memBankStore }

var _ repository.BankTransactionRepository = (*memBankTxRepo)(nil)

func (r *memBankTxRepo) Insert(_ context.Context, tx *entity.BankTransaction) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.insertErr != nil && tx.ExternalID == r.s.insertFailOn {
		return false, r.s.insertErr
	}
	if _, exists := r.s.byExternal[tx.ExternalID]; exists {
		return false, nil
	}
	r.s.txs[tx.ID] = cloneTx(tx)
	r.s.byExternal[tx.ExternalID] = tx.ID
	return true, nil
}

func (r *memBankTxRepo) GetByID(_ context.Context, id string) (*entity.BankTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.txs[id]
	if !ok {
		return nil, nil
	}
	return cloneTx(tx), nil
}

func (r *memBankTxRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.BankTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r *memBankTxRepo) ListUnassociated(_ context.Context) ([]*entity.BankTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BankTransaction
	for _, tx := range r.s.txs {
		if !tx.IsAssociated() {
			out = append(out, cloneTx(tx))
		}
	}
	return out, nil
}

func (r *memBankTxRepo) SetAssociatedDocument(_ context.Context, transactionID, documentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.txs[transactionID].AssociatedDocumentID = &documentID
	return nil
}

// ── DocumentRepository fake (matcher reads and the paid-transition write) ─────

type memDocRepo struct{ s *memBankStore }

var _ repository.DocumentRepository = (*memDocRepo)(nil)

func (r *memDocRepo) Create(_ context.Context, doc *entity.Document, _ []entity.DocumentLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.docs[doc.ID] = cloneDoc(doc)
	return nil
}

func (r *memDocRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.docs[id]
	if !ok {
		return nil, nil
	}
	return cloneDoc(doc), nil
}

func (r *memDocRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *memDocRepo) GetLines(_ context.Context, _ string) ([]entity.DocumentLine, error) {
	return nil, nil
}

func (r *memDocRepo) ReplaceLines(_ context.Context, _ string, _ []entity.DocumentLine) error {
	return nil
}

func (r *memDocRepo) Update(_ context.Context, doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.docs[doc.ID] = cloneDoc(doc)
	return nil
}

func (r *memDocRepo) ListOpenInvoices(_ context.Context) ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Document
	for _, doc := range r.s.docs {
		if doc.Type == entity.DocumentTypeInvoice &&
			(doc.Status == entity.StatusSent || doc.Status == entity.StatusValidated) {
			out = append(out, cloneDoc(doc))
		}
	}
	return out, nil
}

// ── TxRunner fake ─────────────────────────────────────────────────────────────

type fakeRecTxRunner struct{ s *memBankStore }

func (r *fakeRecTxRunner) RunReconciliation(_ context.Context, fn func(
	txs repository.BankTransactionRepository,
	docs repository.DocumentRepository,
) error) error {
	return fn(&memBankTxRepo{s: r.s}, &memDocRepo{s: r.s})
}

// ── FeedClient fake ───────────────────────────────────────────────────────────

type fakeFeed struct {
	items []reconciliation.FeedTransaction
	err   error

	// when set, FetchTransactions signals entered and blocks until release
	// is closed, used to exercise the single-flight guard.
	entered chan struct{}
	release chan struct{}

	lastSince time.Time
}

var _ reconciliation.FeedClient = (*fakeFeed)(nil)

func (f *fakeFeed) FetchTransactions(_ context.Context, since time.Time) ([]reconciliation.FeedTransaction, error) {
	f.lastSince = since
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}
