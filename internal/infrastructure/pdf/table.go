package pdf

import (
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// Table des lignes et bloc de totaux, partagés entre devis et factures.

// tableHeaderRow : en-tête de la table des lignes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qté", 2, align.Center),
		h("Désignation", 5, align.Left),
		h("P.U. HT", 2, align.Right),
		h("Total HT", 3, align.Right),
	)
}

// lineRow : une ligne de document.
func lineRow(designation, quantity string, unitPrice, total decimal.Decimal) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(quantity, props.Text{
			Size: 8, Align: align.Center, Top: 1,
		})),
		col.New(5).Add(text.New(designation, props.Text{
			Size: 8, Align: align.Left, Top: 1, Left: 1,
		})),
		col.New(2).Add(text.New(formatAmount(unitPrice), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
		col.New(3).Add(text.New(formatAmount(total), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

// totalsRow : bloc de totaux aligné à droite, taux affiché sur la ligne TVA.
func totalsRow(totalExclTax, taxAmount, totalInclTax decimal.Decimal, rate string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(2),
		col.New(4).Add(
			label("Total HT :"),
			label("TVA ("+rate+") :"),
			grandLabel("TOTAL TTC :"),
		),
		col.New(4).Add(
			value(formatAmount(totalExclTax)),
			value(formatAmount(taxAmount)),
			grandValue(formatAmount(totalInclTax)),
		),
		col.New(2),
	)
}
