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
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/workflow"
)

var _ billing.QuotePDFGenerator = (*MarotoQuoteGenerator)(nil)

// MarotoQuoteGenerator implémente billing.QuotePDFGenerator avec Maroto v2.
// Les totaux d'un devis ne sont pas stockés : ils sont dérivés des lignes au
// moment de la génération.
type MarotoQuoteGenerator struct{}

// NewMarotoQuoteGenerator construit le générateur.
func NewMarotoQuoteGenerator() *MarotoQuoteGenerator { return &MarotoQuoteGenerator{} }

// GenerateQuotePDF génère le PDF et retourne ses bytes.
func (g *MarotoQuoteGenerator) GenerateQuotePDF(_ context.Context, quote *entity.Quote) ([]byte, error) {
	doc, err := quote.Totals()
	if err != nil {
		return nil, fmt.Errorf("pdf: totaux du devis %s: %w", quote.Number, err)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Devis "+quote.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(quoteHeaderRow(quote))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, l := range quote.Lines {
		m.AddRows(lineRow(l.Designation, fmt.Sprintf("%d", l.Quantity), l.UnitPrice, l.Total()))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.TotalExclTax, doc.TaxAmount, doc.TotalInclTax, formatRate(quote.TaxRate)))

	m.AddRows(quoteFooterRows(quote)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: génération du document: %w", err)
	}
	return out.GetBytes(), nil
}

// quoteHeaderRow : numéro + statut (gauche), dates (droite).
func quoteHeaderRow(quote *entity.Quote) core.Row {
	right := col.New(5).Add(
		text.New("Créé le : "+formatDate(quote.CreatedOn), props.Text{
			Size: 8, Align: align.Right, Top: 7, Color: colorGray,
		}),
	)
	if quote.ValidUntil != nil {
		right.Add(text.New("Valable jusqu'au : "+formatDate(*quote.ValidUntil), props.Text{
			Size: 8, Align: align.Right, Top: 11, Color: colorGray,
		}))
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("DEVIS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(quote.Number, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
			text.New("Statut : "+quote.Status, props.Text{
				Size: 8, Top: 13, Color: statusColor(quote.Status),
			}),
		),
		right,
	)
}

// quoteFooterRows : mention de validité commerciale.
func quoteFooterRows(quote *entity.Quote) []core.Row {
	rows := []core.Row{line.NewRow(3)}
	if quote.Status == workflow.QuoteStatusDraft {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(
				"Ce devis ne vaut pas facture. Il devient contractuel après validation.",
				props.Text{Size: 7.5, Color: colorGray, Top: 1},
			),
		)))
	}
	return rows
}

func statusColor(status string) *props.Color {
	switch status {
	case workflow.QuoteStatusValidated:
		return &props.Color{Red: 0, Green: 128, Blue: 0}
	case workflow.QuoteStatusRejected:
		return &props.Color{Red: 180, Green: 0, Blue: 0}
	default:
		return colorGray
	}
}
