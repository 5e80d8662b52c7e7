package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain/totals"
)

// QuoteLine ligne de devis. Possédée exclusivement par son devis parent :
// supprimée avec lui, jamais partagée. Le total de ligne est toujours dérivé,
// jamais stocké.
type QuoteLine struct {
	ID          string
	QuoteID     string
	Designation string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Total total HT de la ligne, dérivé à la lecture.
func (l *QuoteLine) Total() decimal.Decimal {
	t, err := totals.LineTotalInt(l.Quantity, l.UnitPrice)
	if err != nil {
		return decimal.Zero
	}
	return t
}

// Quote un devis. Document de travail : le client est une référence, les
// totaux sont recalculés à chaque lecture depuis les lignes courantes et le
// taux de TVA (en pourcentage, copié de l'entreprise à la création).
type Quote struct {
	ID         string
	Number     string // ex: DEV-2026-0001
	CreatedOn  time.Time
	ValidUntil *time.Time
	Status     string          // BROUILLON, VALIDÉ, REFUSÉ
	TaxRate    decimal.Decimal // pourcentage, ex: 19.0
	ClientID   string          // référence, optionnelle
	Lines      []QuoteLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TotalsLines vue des lignes pour le moteur de calcul.
func (q *Quote) TotalsLines() []totals.Line {
	out := make([]totals.Line, 0, len(q.Lines))
	for _, l := range q.Lines {
		out = append(out, totals.Line{
			Quantity:  decimal.NewFromInt(int64(l.Quantity)),
			UnitPrice: l.UnitPrice,
		})
	}
	return out
}

// Totals totaux dérivés du devis (0 partout sans lignes).
func (q *Quote) Totals() (totals.Document, error) {
	return totals.ComputePercent(q.TotalsLines(), q.TaxRate)
}
