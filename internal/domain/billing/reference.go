package billing

import (
	"fmt"

	"github.com/lumora-agency/lumora-api/internal/domain/entity"
)

// Reference prefixes per document type. These appear on legal documents and
// never change.
const (
	prefixQuote         = "D"   // devis
	prefixInvoice       = "F"   // facture
	prefixCreditNote    = "A"   // avoir
	prefixPurchaseOrder = "BDC" // bon de commande
)

// ReferencePrefix returns the legal prefix for a document type.
func ReferencePrefix(t entity.DocumentType) string {
	switch t {
	case entity.DocumentTypeQuote:
		return prefixQuote
	case entity.DocumentTypeInvoice:
		return prefixInvoice
	case entity.DocumentTypeCreditNote:
		return prefixCreditNote
	case entity.DocumentTypePurchaseOrder:
		return prefixPurchaseOrder
	}
	return ""
}

// FormatReference builds the legal reference "{PREFIX}-{YYYY}-{NNNN}".
// The sequence restarts at 1 each calendar year per type; the allocator
// guarantees number is unique for (t, year).
func FormatReference(t entity.DocumentType, year, number int) string {
	return fmt.Sprintf("%s-%04d-%04d", ReferencePrefix(t), year, number)
}
