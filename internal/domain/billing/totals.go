package billing

import (
	"github.com/shopspring/decimal"

	"github.com/lumora-agency/lumora-api/internal/domain"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
)

// Totals is a frozen monetary summary. IncVat is always ExVat + Vat to the
// cent, by construction.
type Totals struct {
	ExVat  decimal.Decimal
	Vat    decimal.Decimal
	IncVat decimal.Decimal
}

// ComputeTotals derives HT/VAT/TTC totals from a non-empty line set.
//
// Rounding policy: round half up (decimal.Round, half away from zero) to
// the cent, applied per line to the ex-VAT subtotal and again to the VAT
// amount before summing. Rounding each line independently keeps the stored
// totals equal to the sum of the printed line amounts.
func ComputeTotals(lines []entity.DocumentLine) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, domain.ErrEmptyLineSet
	}
	exVat := decimal.Zero
	vat := decimal.Zero
	for _, l := range lines {
		if !l.Quantity.IsPositive() || l.UnitPrice.IsNegative() {
			return Totals{}, domain.ErrInvalidQuantityOrPrice
		}
		lineExVat := l.Quantity.Mul(l.UnitPrice).Round(2)
		lineVat := lineExVat.Mul(l.VatRate).Div(decimal.NewFromInt(100)).Round(2)
		exVat = exVat.Add(lineExVat)
		vat = vat.Add(lineVat)
	}
	return Totals{ExVat: exVat, Vat: vat, IncVat: exVat.Add(vat)}, nil
}
