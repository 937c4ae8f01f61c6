// Package pdf renders the printable rendition of an issued document from
// the ledger's frozen snapshot. Layout only: every amount on the page comes
// from the snapshot, nothing is recomputed here.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/lumora-agency/lumora-api/internal/application/billing"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 40, Blue: 80}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var documentTitles = map[entity.DocumentType]string{
	entity.DocumentTypeQuote:         "DEVIS",
	entity.DocumentTypeInvoice:       "FACTURE",
	entity.DocumentTypeCreditNote:    "AVOIR",
	entity.DocumentTypePurchaseOrder: "BON DE COMMANDE",
}

var _ billing.DocumentPDFGenerator = (*MarotoRenderer)(nil)

// MarotoRenderer implements billing.DocumentPDFGenerator using Maroto v2.
type MarotoRenderer struct {
	agencyName string
}

// NewMarotoRenderer builds the renderer. agencyName is printed as issuer.
func NewMarotoRenderer(agencyName string) *MarotoRenderer {
	return &MarotoRenderer{agencyName: agencyName}
}

// Generate renders the snapshot and returns the PDF bytes.
func (r *MarotoRenderer) Generate(_ context.Context, snap *billing.DocumentSnapshot) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(snap.Reference, true).
		WithAuthor(r.agencyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(snap))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(snap))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, l := range snap.Lines {
		m.AddRows(lineRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(snap)...)

	if snap.VatMention != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(row.New(6).Add(
			col.New(12).Add(text.New(snap.VatMention, props.Text{Size: 8, Style: fontstyle.Italic, Color: colorGray})),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *MarotoRenderer) headerRow(snap *billing.DocumentSnapshot) core.Row {
	title := documentTitles[snap.Type]
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.agencyName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(title, props.Text{Size: 10, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(snap.Reference, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1}),
			text.New("Date : "+snap.IssueDate.Format("02/01/2006"), props.Text{Size: 9, Align: align.Right, Top: 9}),
			text.New("Echeance : "+snap.DueDate.Format("02/01/2006"), props.Text{Size: 9, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func clientRow(snap *billing.DocumentSnapshot) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("Client : "+snap.ClientName, props.Text{Size: 9, Top: 2}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}
	headerRight := header
	headerRight.Align = align.Right
	return row.New(7).Add(
		col.New(6).Add(text.New("Description", header)),
		col.New(2).Add(text.New("Qte", headerRight)),
		col.New(2).Add(text.New("P.U. HT", headerRight)),
		col.New(2).Add(text.New("Total HT", headerRight)),
	)
}

func lineRow(l entity.DocumentLine) core.Row {
	cell := props.Text{Size: 8, Top: 1}
	cellRight := cell
	cellRight.Align = align.Right
	return row.New(6).Add(
		col.New(6).Add(text.New(l.Description, cell)),
		col.New(2).Add(text.New(l.Quantity.String(), cellRight)),
		col.New(2).Add(text.New(l.UnitPrice.StringFixed(2), cellRight)),
		col.New(2).Add(text.New(l.Quantity.Mul(l.UnitPrice).Round(2).StringFixed(2), cellRight)),
	)
}

func totalsRows(snap *billing.DocumentSnapshot) []core.Row {
	label := props.Text{Size: 9, Align: align.Right, Top: 1}
	value := props.Text{Size: 9, Align: align.Right, Top: 1}
	bold := props.Text{Size: 10, Align: align.Right, Top: 1, Style: fontstyle.Bold, Color: colorPrimary}
	return []core.Row{
		row.New(6).Add(
			col.New(8),
			col.New(2).Add(text.New("Total HT", label)),
			col.New(2).Add(text.New(snap.AmountExVat.StringFixed(2)+" EUR", value)),
		),
		row.New(6).Add(
			col.New(8),
			col.New(2).Add(text.New(fmt.Sprintf("TVA %s%%", snap.VatRate.String()), label)),
			col.New(2).Add(text.New(snap.AmountVat.StringFixed(2)+" EUR", value)),
		),
		row.New(7).Add(
			col.New(8),
			col.New(2).Add(text.New("Total TTC", bold)),
			col.New(2).Add(text.New(snap.AmountIncVat.StringFixed(2)+" EUR", bold)),
		),
	}
}
