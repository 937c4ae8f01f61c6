package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumora-agency/lumora-api/internal/domain"
)

// DocumentType is the closed set of legal document kinds the ledger issues.
type DocumentType string

const (
	DocumentTypeQuote         DocumentType = "QUOTE"
	DocumentTypeInvoice       DocumentType = "INVOICE"
	DocumentTypeCreditNote    DocumentType = "CREDIT_NOTE"
	DocumentTypePurchaseOrder DocumentType = "PURCHASE_ORDER"
)

// ParseDocumentType rejects unknown types at the boundary.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocumentTypeQuote, DocumentTypeInvoice, DocumentTypeCreditNote, DocumentTypePurchaseOrder:
		return DocumentType(s), nil
	}
	return "", domain.ErrInvalidInput
}

// DocumentStatus is the document lifecycle state.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"     // mutable, no reference yet
	StatusSent      DocumentStatus = "SENT"      // issued: reference allocated, totals frozen
	StatusValidated DocumentStatus = "VALIDATED" // quote accepted by the client
	StatusRefused   DocumentStatus = "REFUSED"   // quote refused (terminal)
	StatusPaid      DocumentStatus = "PAID"      // invoice settled (terminal)
	StatusCancelled DocumentStatus = "CANCELLED" // terminal
)

// ParseDocumentStatus rejects unknown statuses at the boundary.
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch DocumentStatus(s) {
	case StatusDraft, StatusSent, StatusValidated, StatusRefused, StatusPaid, StatusCancelled:
		return DocumentStatus(s), nil
	}
	return "", domain.ErrInvalidInput
}

// IsTerminal reports whether no further transition is allowed from s.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusRefused || s == StatusPaid || s == StatusCancelled
}

// Document is a quote, invoice, credit note or purchase order.
// Reference and the monetary fields are frozen at issuance and never
// mutated afterwards.
type Document struct {
	ID              string
	Type            DocumentType
	Reference       string // empty until issued; immutable once set
	Status          DocumentStatus
	ClientName      string
	ClientCountry   string
	ClientVatNumber string
	AmountExVat     decimal.Decimal
	AmountVat       decimal.Decimal
	AmountIncVat    decimal.Decimal
	VatRate         decimal.Decimal
	VatMention      string // legal mention; empty when the standard regime applies
	IssueDate       time.Time
	DueDate         time.Time
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DocumentLine is one billed line. Quantity, unit price and VAT rate are
// decimals; totals are always recomputed from lines, never stored per line.
type DocumentLine struct {
	ID          string
	DocumentID  string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VatRate     decimal.Decimal
	Position    int
}

// IsPayable reports whether the document can receive a payment.
func (d *Document) IsPayable() bool {
	return d.Type == DocumentTypeInvoice && (d.Status == StatusSent || d.Status == StatusValidated)
}

// MarkPaid transitions to PAID. Calling it on a document already PAID is a
// no-op, not an error. Any other status outside SENT/VALIDATED fails.
func (d *Document) MarkPaid(at time.Time) error {
	if d.Status == StatusPaid {
		return nil
	}
	if d.Status != StatusSent && d.Status != StatusValidated {
		return domain.ErrInvalidTransition
	}
	d.Status = StatusPaid
	d.PaidAt = &at
	return nil
}

// Validate records a quote acceptance (SENT → VALIDATED).
func (d *Document) Validate() error {
	if d.Type != DocumentTypeQuote || d.Status != StatusSent {
		return domain.ErrInvalidTransition
	}
	d.Status = StatusValidated
	return nil
}

// Refuse records a quote refusal (SENT → REFUSED, terminal).
func (d *Document) Refuse() error {
	if d.Type != DocumentTypeQuote || d.Status != StatusSent {
		return domain.ErrInvalidTransition
	}
	d.Status = StatusRefused
	return nil
}

// Cancel is allowed from any non-terminal status and is irreversible.
func (d *Document) Cancel() error {
	if d.Status.IsTerminal() {
		return domain.ErrInvalidTransition
	}
	d.Status = StatusCancelled
	return nil
}
