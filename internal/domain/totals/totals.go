// Package totals centralise tous les calculs monétaires des devis et factures.
//
// Règles communes aux deux agrégats :
//   - arithmétique en décimal fixe, 3 décimales de précision finale ;
//   - arrondi "half-up" appliqué une seule fois sur chaque grandeur dérivée
//     (total de ligne, montant TVA, total TTC), jamais sur les produits
//     intermédiaires ;
//   - totalHT = somme des totaux de ligne déjà arrondis ;
//   - montantTVA = round(totalHT × taux, 3) ;
//   - totalTTC = round(totalHT + montantTVA, 3).
//
// Le taux de TVA existe sous deux conventions dans le système : en pourcentage
// (19.0) côté devis et en fraction (0.19) côté facture. Le moteur expose les
// deux formes explicitement ; il ne devine jamais la convention d'après la
// magnitude de la valeur.
package totals

import (
	"github.com/shopspring/decimal"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
)

// Scale précision finale des montants (millimes).
const Scale = 3

var hundred = decimal.NewFromInt(100)

// Line une ligne à totaliser : quantité × prix unitaire HT.
// La quantité est décimale pour supporter les unités fractionnaires des
// lignes de facture ; les lignes de devis passent par LineTotalInt.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// LineTotal calcule le total HT d'une ligne : round(quantité × prix, 3).
// Quantité ou prix négatif => ErrInvalidInput.
//
// decimal.Round arrondit "half away from zero", ce qui équivaut à "half-up"
// sur le domaine non négatif imposé ici.
func LineTotal(quantity, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() || unitPrice.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return quantity.Mul(unitPrice).Round(Scale), nil
}

// LineTotalInt variante pour les lignes de devis (quantité entière).
func LineTotalInt(quantity int, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	return LineTotal(decimal.NewFromInt(int64(quantity)), unitPrice)
}

// Document totaux d'un document : HT, TVA et TTC.
type Document struct {
	TotalExclTax decimal.Decimal // total HT
	TaxAmount    decimal.Decimal // montant TVA
	TotalInclTax decimal.Decimal // total TTC
}

// ComputeFraction calcule les totaux d'un document avec un taux exprimé en
// fraction (0.19 = 19 %). Convention des factures.
func ComputeFraction(lines []Line, taxRate decimal.Decimal) (Document, error) {
	if taxRate.IsNegative() {
		return Document{}, domain.ErrInvalidInput
	}
	totalHT := decimal.Zero
	for _, l := range lines {
		t, err := LineTotal(l.Quantity, l.UnitPrice)
		if err != nil {
			return Document{}, err
		}
		totalHT = totalHT.Add(t)
	}
	tva := totalHT.Mul(taxRate).Round(Scale)
	return Document{
		TotalExclTax: totalHT,
		TaxAmount:    tva,
		TotalInclTax: totalHT.Add(tva).Round(Scale),
	}, nil
}

// ComputePercent calcule les totaux avec un taux exprimé en pourcentage
// (19.0 = 19 %). Convention des devis.
func ComputePercent(lines []Line, taxRatePercent decimal.Decimal) (Document, error) {
	if taxRatePercent.IsNegative() {
		return Document{}, domain.ErrInvalidInput
	}
	return ComputeFraction(lines, taxRatePercent.Div(hundred))
}

// PercentToFraction convertit un taux pourcentage en fraction (19.0 -> 0.19).
// Utilisé une seule fois, au moment du snapshot entreprise sur la facture.
func PercentToFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// FractionToPercent conversion de présentation (0.19 -> 19.0).
func FractionToPercent(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(hundred)
}
