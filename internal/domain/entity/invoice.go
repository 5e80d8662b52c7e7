package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain/totals"
)

// DueDays délai de paiement par défaut (date d'échéance = émission + 30 j).
const DueDays = 30

// InvoiceLine ligne de facture. Quantité décimale (unités fractionnaires
// possibles) ; le total HT est stocké et recalculé à chaque modification de la
// quantité ou du prix.
type InvoiceLine struct {
	ID           string
	InvoiceID    string
	Designation  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal // prix unitaire HT
	TotalExclTax decimal.Decimal // total ligne HT, stocké
}

// ComputeTotal recalcule le total HT stocké de la ligne.
func (l *InvoiceLine) ComputeTotal() error {
	t, err := totals.LineTotal(l.Quantity, l.UnitPrice)
	if err != nil {
		return err
	}
	l.TotalExclTax = t
	return nil
}

// Invoice une facture. Document légal largement immutable : les données
// entreprise et client sont intégrées (dénormalisées) au moment de la
// création et ne sont jamais rafraîchies depuis les fiches vivantes, même si
// l'adresse du client change ensuite. Les totaux sont stockés et doivent
// rester cohérents avec les lignes après chaque mutation.
type Invoice struct {
	ID        string
	Number    string // ex: FAC-2026-0001, unique
	IssueDate time.Time
	DueDate   time.Time
	Status    string // NON_PAYEE, PAYEE, EN_RETARD, ANNULEE
	QuoteRef  string // numéro du devis d'origine (copie, pas une relation)

	// Snapshot entreprise, figé à la création.
	CompanyName          string
	CompanyAddress       string
	CompanyPhone         string
	CompanyEmail         string
	CompanyTaxID         string
	CompanyTradeRegister string

	// Snapshot client, figé à la création (ou saisi pour une facture
	// manuelle). ClientID ne sert qu'à l'historique.
	ClientID    string
	ClientName  string
	ClientAddr  string
	ClientPhone string
	ClientEmail string
	ClientTaxID string

	TaxRate      decimal.Decimal // fraction, ex: 0.19
	TotalExclTax decimal.Decimal
	TaxAmount    decimal.Decimal
	TotalInclTax decimal.Decimal

	PaymentTerms string
	Notes        string

	Lines     []InvoiceLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CopyCompany fige les données entreprise sur la facture, taux de TVA
// converti du pourcentage vers la fraction. Appelé une seule fois.
func (f *Invoice) CopyCompany(c *Company) {
	if c == nil {
		return
	}
	f.CompanyName = c.Name
	f.CompanyAddress = c.FullAddress()
	f.CompanyPhone = c.Phone
	f.CompanyEmail = c.Email
	f.CompanyTaxID = c.TaxID
	f.CompanyTradeRegister = c.TradeRegister
	f.TaxRate = totals.PercentToFraction(c.DefaultTaxRate)
}

// CopyClient fige les données client sur la facture.
func (f *Invoice) CopyClient(c *Client) {
	if c == nil {
		return
	}
	f.ClientID = c.ID
	f.ClientName = c.Name
	f.ClientAddr = c.Address
	f.ClientPhone = c.Phone
	f.ClientEmail = c.Email
	f.ClientTaxID = c.TaxID
}

// RecomputeTotals recalcule le total stocké de chaque ligne puis les totaux
// du document. Idempotent. À appeler après toute mutation des lignes ou du
// taux, dans la même transaction, avant de rendre l'agrégat au caller.
func (f *Invoice) RecomputeTotals() error {
	lines := make([]totals.Line, 0, len(f.Lines))
	for i := range f.Lines {
		if err := f.Lines[i].ComputeTotal(); err != nil {
			return err
		}
		lines = append(lines, totals.Line{
			Quantity:  f.Lines[i].Quantity,
			UnitPrice: f.Lines[i].UnitPrice,
		})
	}
	doc, err := totals.ComputeFraction(lines, f.TaxRate)
	if err != nil {
		return err
	}
	f.TotalExclTax = doc.TotalExclTax
	f.TaxAmount = doc.TaxAmount
	f.TotalInclTax = doc.TotalInclTax
	return nil
}

// TaxRatePercent taux de TVA en pourcentage, pour la présentation.
func (f *Invoice) TaxRatePercent() decimal.Decimal {
	return totals.FractionToPercent(f.TaxRate)
}
