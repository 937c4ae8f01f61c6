// Package billing holds the pure financial services of the ledger: VAT
// regime resolution, document totals and reference formatting. No I/O.
package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Legal mention texts. The exact wording is a legal constant printed on the
// document; it must stay stable across calls and releases.
const (
	MentionReverseCharge   = "VAT self-assessed by the customer (reverse charge, art. 196 of Directive 2006/112/EC)"
	MentionExportExemption = "VAT exempt — supply of services outside the European Union (art. 262 I of the French Tax Code)"
)

// homeCountry is the seller's country. Sales at home always carry the
// standard rate, VAT number or not.
const homeCountry = "france"

// StandardVatRate is the French standard rate, in percent.
var StandardVatRate = decimal.NewFromInt(20)

// euCountries enumerates EU member states other than the home country,
// keyed by lower-cased English name.
var euCountries = map[string]struct{}{
	"austria": {}, "belgium": {}, "bulgaria": {}, "croatia": {},
	"cyprus": {}, "czech republic": {}, "denmark": {}, "estonia": {},
	"finland": {}, "germany": {}, "greece": {}, "hungary": {},
	"ireland": {}, "italy": {}, "latvia": {}, "lithuania": {},
	"luxembourg": {}, "malta": {}, "netherlands": {}, "poland": {},
	"portugal": {}, "romania": {}, "slovakia": {}, "slovenia": {},
	"spain": {}, "sweden": {},
}

// VatRegime is the outcome of the regime resolution: the applicable rate in
// percent and the legal mention to print (empty when none applies).
type VatRegime struct {
	Rate    decimal.Decimal
	Mention string
}

// ResolveVatRegime determines the VAT regime for a client country and VAT
// number. Total function: a blank country falls back to the domestic
// regime, a country outside the enumerated EU set counts as non-EU.
// Rules, in order:
//
//  1. home country (or blank) → standard rate, no mention
//  2. EU country with a VAT number → 0%, reverse-charge mention
//  3. EU country without a VAT number → standard rate, no mention
//  4. outside the EU → 0%, export-exemption mention
func ResolveVatRegime(country, vatNumber string) VatRegime {
	c := strings.ToLower(strings.TrimSpace(country))
	if c == "" || c == homeCountry {
		return VatRegime{Rate: StandardVatRate}
	}
	if _, eu := euCountries[c]; eu {
		if strings.TrimSpace(vatNumber) != "" {
			return VatRegime{Rate: decimal.Zero, Mention: MentionReverseCharge}
		}
		return VatRegime{Rate: StandardVatRate}
	}
	return VatRegime{Rate: decimal.Zero, Mention: MentionExportExemption}
}
