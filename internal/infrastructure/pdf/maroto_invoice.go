// Package pdf génère les représentations imprimables des documents avec
// Maroto v2.
//
// Layout A4 d'une facture :
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Entreprise + matricule  │  N° Facture + Dates      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ÉMETTEUR: Adresse / Tél / Email                            │
//	│  CLIENT: Nom + matricule + contact (snapshot de la facture) │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Qté | Désignation | P.U. HT | Total HT              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAUX: Total HT / TVA / TOTAL TTC                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIED: Conditions de paiement + notes + réf. devis          │
//	└─────────────────────────────────────────────────────────────┘
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

	"github.com/KhaledEssghaier/DeviSmart/internal/application/billing"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ billing.InvoicePDFGenerator = (*MarotoInvoiceGenerator)(nil)

// MarotoInvoiceGenerator implémente billing.InvoicePDFGenerator avec Maroto v2.
// Tout ce qui figure sur le document vient des snapshots de la facture, jamais
// des fiches vivantes.
type MarotoInvoiceGenerator struct{}

// NewMarotoInvoiceGenerator construit le générateur.
func NewMarotoInvoiceGenerator() *MarotoInvoiceGenerator { return &MarotoInvoiceGenerator{} }

// GenerateInvoicePDF génère le PDF et retourne ses bytes.
func (g *MarotoInvoiceGenerator) GenerateInvoicePDF(_ context.Context, invoice *entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Facture "+invoice.Number, true).
		WithAuthor(invoice.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(invoiceHeaderRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(invoice))
	m.AddRows(invoiceClientRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, l := range invoice.Lines {
		m.AddRows(lineRow(l.Designation, formatQuantity(l.Quantity), l.UnitPrice, l.TotalExclTax))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(
		invoice.TotalExclTax, invoice.TaxAmount, invoice.TotalInclTax,
		formatRate(invoice.TaxRatePercent()),
	))

	m.AddRows(invoiceFooterRows(invoice)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: génération du document: %w", err)
	}
	return doc.GetBytes(), nil
}

// invoiceHeaderRow : entreprise + matricule (gauche), numéro + dates (droite).
func invoiceHeaderRow(invoice *entity.Invoice) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(invoice.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Matricule fiscale : "+nonEmpty(invoice.CompanyTaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Émise le : "+formatDate(invoice.IssueDate), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Échéance : "+formatDate(invoice.DueDate), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// issuerRow : coordonnées de l'émetteur, depuis le snapshot.
func issuerRow(invoice *entity.Invoice) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ÉMETTEUR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Adresse : %s   |   Tél : %s   |   Email : %s",
				nonEmpty(invoice.CompanyAddress, "—"),
				nonEmpty(invoice.CompanyPhone, "—"),
				nonEmpty(invoice.CompanyEmail, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// invoiceClientRow : données client figées sur la facture.
func invoiceClientRow(invoice *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(invoice.ClientName, "Client"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Matricule : %s   |   Email : %s   |   Tél : %s",
				nonEmpty(invoice.ClientTaxID, "—"),
				nonEmpty(invoice.ClientEmail, "—"),
				nonEmpty(invoice.ClientPhone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// invoiceFooterRows : conditions, notes et référence du devis d'origine.
func invoiceFooterRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{line.NewRow(3)}
	if invoice.QuoteRef != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Établie d'après le devis "+invoice.QuoteRef, props.Text{
				Size: 7.5, Color: colorGray, Top: 1,
			}),
		)))
	}
	if invoice.PaymentTerms != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Conditions de paiement : "+invoice.PaymentTerms, props.Text{
				Size: 8, Top: 1,
			}),
		)))
	}
	if invoice.Notes != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(invoice.Notes, props.Text{Size: 7.5, Color: colorGray, Top: 1}),
		)))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
