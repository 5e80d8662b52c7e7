package pdf

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain/totals"
)

// Impression des montants au format français : espace comme séparateur de
// milliers, virgule décimale. Affichage seulement, le calcul reste en decimal.
var frPrinter = message.NewPrinter(language.French)

// formatAmount rend un montant sur trois décimales, devise TND.
// Ex: 1234.5 -> "1 234,500 TND". La partie entière et la partie décimale
// sont formatées depuis le decimal, sans passage par float64 : les montants
// au-delà de la précision d'un float64 impriment leurs chiffres exacts.
func formatAmount(d decimal.Decimal) string {
	d = d.Round(totals.Scale)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	units := d.IntPart()
	frac := d.Sub(decimal.NewFromInt(units)).Shift(totals.Scale).IntPart()
	return sign + frPrinter.Sprintf("%d", units) + fmt.Sprintf(",%03d TND", frac)
}

// formatRate rend un taux en pourcentage sans zéros inutiles. Ex: "19%".
func formatRate(percent decimal.Decimal) string {
	return percent.String() + "%"
}

// formatQuantity rend une quantité, décimales seulement si nécessaires.
func formatQuantity(d decimal.Decimal) string {
	return d.String()
}

// formatDate rend une date au format français jj/MM/aaaa.
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
