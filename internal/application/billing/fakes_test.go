package billing_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lumora-agency/lumora-api/internal/domain/entity"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

// memStore backs the in-memory fakes shared by the ledger tests. A single
// mutex serializes every operation, mirroring the row-level serialization
// the real store provides.
type memStore struct {
	mu         sync.Mutex
	docs       map[string]*entity.Document
	lines      map[string][]entity.DocumentLine
	counters   map[string]int
	counterErr error // when set, NextNumber fails with it
}

func newMemStore() *memStore {
	return &memStore{
		docs:     make(map[string]*entity.Document),
		lines:    make(map[string][]entity.DocumentLine),
		counters: make(map[string]int),
	}
}

func cloneDoc(d *entity.Document) *entity.Document {
	c := *d
	if d.PaidAt != nil {
		at := *d.PaidAt
		c.PaidAt = &at
	}
	return &c
}

// ── DocumentRepository fake ───────────────────────────────────────────────────

type memDocumentRepo struct{ s *memStore }

var _ repository.DocumentRepository = (*memDocumentRepo)(nil)

func (r *memDocumentRepo) Create(_ context.Context, doc *entity.Document, lines []entity.DocumentLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	r.s.docs[doc.ID] = cloneDoc(doc)
	r.s.lines[doc.ID] = storeLines(doc.ID, lines)
	return nil
}

func (r *memDocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.docs[id]
	if !ok {
		return nil, nil
	}
	return cloneDoc(doc), nil
}

func (r *memDocumentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *memDocumentRepo) GetLines(_ context.Context, documentID string) ([]entity.DocumentLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.DocumentLine(nil), r.s.lines[documentID]...), nil
}

func (r *memDocumentRepo) ReplaceLines(_ context.Context, documentID string, lines []entity.DocumentLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lines[documentID] = storeLines(documentID, lines)
	return nil
}

func (r *memDocumentRepo) Update(_ context.Context, doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.docs[doc.ID]; !ok {
		return fmt.Errorf("update document: %s not found", doc.ID)
	}
	r.s.docs[doc.ID] = cloneDoc(doc)
	return nil
}

func (r *memDocumentRepo) ListOpenInvoices(_ context.Context) ([]*entity.Document, error) {
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

func storeLines(documentID string, lines []entity.DocumentLine) []entity.DocumentLine {
	stored := make([]entity.DocumentLine, len(lines))
	for i, l := range lines {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.DocumentID = documentID
		l.Position = i
		stored[i] = l
	}
	return stored
}

// ── CounterRepository fake ────────────────────────────────────────────────────

// memCounterRepo increments under the store mutex, honoring the allocation
// contract: every call observes a distinct post-increment value.
type memCounterRepo struct{ s *memStore }

var _ repository.CounterRepository = (*memCounterRepo)(nil)

func (r *memCounterRepo) NextNumber(_ context.Context, docType entity.DocumentType, year int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.counterErr != nil {
		return 0, r.s.counterErr
	}
	key := fmt.Sprintf("%s/%d", docType, year)
	r.s.counters[key]++
	return r.s.counters[key], nil
}

// ── TxRunner fake ─────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *memStore }

func (r *fakeTxRunner) RunLedger(_ context.Context, fn func(
	docs repository.DocumentRepository,
	counters repository.CounterRepository,
) error) error {
	return fn(&memDocumentRepo{s: r.s}, &memCounterRepo{s: r.s})
}
