package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lumora-agency/lumora-api/internal/domain"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implements DocumentRepository on PostgreSQL (pool or tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository builds the adapter. Pass a pool or a tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `
	id, doc_type, reference, status, client_name, client_country, client_vat_number,
	amount_ex_vat, amount_vat, amount_inc_vat, vat_rate, vat_mention,
	issue_date, due_date, paid_at, created_at, updated_at`

// Create persists the document header and its lines.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document, lines []entity.DocumentLine) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO documents (id, doc_type, reference, status, client_name, client_country, client_vat_number,
			amount_ex_vat, amount_vat, amount_inc_vat, vat_rate, vat_mention,
			issue_date, due_date, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, q,
		doc.ID, string(doc.Type), nullIfEmpty(doc.Reference), string(doc.Status),
		doc.ClientName, doc.ClientCountry, doc.ClientVatNumber,
		doc.AmountExVat, doc.AmountVat, doc.AmountIncVat, doc.VatRate, nullIfEmpty(doc.VatMention),
		nullTime(doc.IssueDate), nullTime(doc.DueDate), doc.PaidAt,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return r.insertLines(ctx, doc.ID, lines)
}

// GetByID fetches a document. Returns nil, nil when it does not exist.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// GetByIDForUpdate fetches and locks the document row (SELECT FOR UPDATE).
func (r *DocumentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 FOR UPDATE`
	doc, err := scanDocument(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document for update: %w", err)
	}
	return doc, nil
}

// GetLines fetches the line set in display order.
func (r *DocumentRepo) GetLines(ctx context.Context, documentID string) ([]entity.DocumentLine, error) {
	const q = `
		SELECT id, document_id, description, quantity, unit_price, vat_rate, position
		FROM document_lines WHERE document_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, q, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.Description, &l.Quantity, &l.UnitPrice, &l.VatRate, &l.Position); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ReplaceLines swaps the full line set of a draft.
func (r *DocumentRepo) ReplaceLines(ctx context.Context, documentID string, lines []entity.DocumentLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete document lines: %w", err)
	}
	return r.insertLines(ctx, documentID, lines)
}

// Update persists every mutable header field in one statement, so issuance
// and payment are single-row atomic writes: a reader never sees a reference
// without its frozen totals, or PAID without paid_at.
func (r *DocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	const q = `
		UPDATE documents
		SET reference = $2, status = $3,
		    amount_ex_vat = $4, amount_vat = $5, amount_inc_vat = $6,
		    vat_rate = $7, vat_mention = $8,
		    issue_date = $9, due_date = $10, paid_at = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, q,
		doc.ID, nullIfEmpty(doc.Reference), string(doc.Status),
		doc.AmountExVat, doc.AmountVat, doc.AmountIncVat,
		doc.VatRate, nullIfEmpty(doc.VatMention),
		nullTime(doc.IssueDate), nullTime(doc.DueDate), doc.PaidAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, doc.Reference)
		}
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// ListOpenInvoices returns invoices awaiting payment (SENT or VALIDATED).
func (r *DocumentRepo) ListOpenInvoices(ctx context.Context) ([]*entity.Document, error) {
	q := `SELECT ` + documentColumns + `
		FROM documents
		WHERE doc_type = $1 AND status IN ($2, $3)
		ORDER BY issue_date`
	rows, err := r.q.Query(ctx, q,
		string(entity.DocumentTypeInvoice), string(entity.StatusSent), string(entity.StatusValidated))
	if err != nil {
		return nil, fmt.Errorf("list open invoices: %w", err)
	}
	defer rows.Close()
	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan open invoice: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (r *DocumentRepo) insertLines(ctx context.Context, documentID string, lines []entity.DocumentLine) error {
	const q = `
		INSERT INTO document_lines (id, document_id, description, quantity, unit_price, vat_rate, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range lines {
		l := &lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.DocumentID = documentID
		l.Position = i
		if _, err := r.q.Exec(ctx, q, l.ID, l.DocumentID, l.Description, l.Quantity, l.UnitPrice, l.VatRate, l.Position); err != nil {
			return fmt.Errorf("insert document line: %w", err)
		}
	}
	return nil
}

func scanDocument(row pgxScanner) (*entity.Document, error) {
	var doc entity.Document
	var docType, status string
	var reference, vatMention *string
	var issueDate, dueDate *time.Time
	err := row.Scan(
		&doc.ID, &docType, &reference, &status,
		&doc.ClientName, &doc.ClientCountry, &doc.ClientVatNumber,
		&doc.AmountExVat, &doc.AmountVat, &doc.AmountIncVat, &doc.VatRate, &vatMention,
		&issueDate, &dueDate, &doc.PaidAt,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Type = entity.DocumentType(docType)
	doc.Status = entity.DocumentStatus(status)
	doc.Reference = derefOrEmpty(reference)
	doc.VatMention = derefOrEmpty(vatMention)
	if issueDate != nil {
		doc.IssueDate = *issueDate
	}
	if dueDate != nil {
		doc.DueDate = *dueDate
	}
	return &doc, nil
}
