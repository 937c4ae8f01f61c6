package dto

import (
	"github.com/shopspring/decimal"
)

// DocumentLineRequest is one billed line as submitted by the caller.
type DocumentLineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	VatRate     decimal.Decimal `json:"vatRate"`
}

// CreateDocumentRequest creates a draft.
type CreateDocumentRequest struct {
	Type            string                `json:"type"`
	ClientName      string                `json:"clientName"`
	ClientCountry   string                `json:"clientCountry"`
	ClientVatNumber string                `json:"clientVatNumber"`
	DueDate         string                `json:"dueDate"` // RFC 3339 date, optional
	Lines           []DocumentLineRequest `json:"lines"`
}

// UpdateLinesRequest replaces a draft's line set.
type UpdateLinesRequest struct {
	Lines []DocumentLineRequest `json:"lines"`
}

// MarkPaidRequest records a payment date.
type MarkPaidRequest struct {
	PaidAt string `json:"paidAt"` // RFC 3339, optional (defaults to now)
}

// DocumentLineResponse is one line in a document response.
type DocumentLineResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	VatRate     decimal.Decimal `json:"vatRate"`
}

// DocumentResponse is the full document view. Amounts are provisional while
// the document is DRAFT and frozen from issuance on.
type DocumentResponse struct {
	ID              string                 `json:"id"`
	Type            string                 `json:"type"`
	Reference       string                 `json:"reference,omitempty"`
	Status          string                 `json:"status"`
	ClientName      string                 `json:"clientName"`
	ClientCountry   string                 `json:"clientCountry"`
	ClientVatNumber string                 `json:"clientVatNumber,omitempty"`
	AmountExVat     decimal.Decimal        `json:"amountExVat"`
	AmountVat       decimal.Decimal        `json:"amountVat"`
	AmountIncVat    decimal.Decimal        `json:"amountIncVat"`
	VatRate         decimal.Decimal        `json:"vatRate"`
	VatMention      string                 `json:"vatMention,omitempty"`
	IssueDate       string                 `json:"issueDate,omitempty"`
	DueDate         string                 `json:"dueDate,omitempty"`
	PaidAt          string                 `json:"paidAt,omitempty"`
	Lines           []DocumentLineResponse `json:"lines,omitempty"`
}
