package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Préfixes des numéros de document.
const (
	QuoteNumberPrefix   = "DEV"
	InvoiceNumberPrefix = "FAC"
)

// Company profil de l'entreprise émettrice. Enregistrement singleton : il en
// existe exactement un, créé avec des valeurs par défaut au premier usage.
// Porte le taux de TVA par défaut (en pourcentage) et les deux compteurs de
// numérotation, jamais remis à zéro.
type Company struct {
	ID             string
	Name           string
	Address        string
	PostalCode     string
	City           string
	Phone          string
	Email          string
	TaxID          string // matricule fiscal
	TradeRegister  string // registre de commerce
	Website        string
	DefaultTaxRate decimal.Decimal // pourcentage, ex: 19.0
	QuoteCounter   int
	InvoiceCounter int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullAddress adresse complète pour la présentation.
func (c *Company) FullAddress() string {
	if c.PostalCode == "" && c.City == "" {
		return c.Address
	}
	return fmt.Sprintf("%s, %s %s", c.Address, c.PostalCode, c.City)
}

// DefaultCompany valeurs du singleton créé au premier démarrage.
func DefaultCompany(now time.Time) *Company {
	return &Company{
		Name:           "DeviSmart",
		Address:        "123 Rue de l'Innovation",
		PostalCode:     "75001",
		City:           "Paris",
		Phone:          "+33 1 23 45 67 89",
		Email:          "contact@devismart.com",
		TaxID:          "FR12345678901",
		DefaultTaxRate: decimal.NewFromFloat(19.0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// FormatQuoteNumber formate un numéro de devis : DEV-<année>-<compteur>.
// Le compteur est paddé à 4 chiffres et s'élargit naturellement au-delà de
// 9999 ; l'année est cosmétique, l'unicité repose sur le compteur seul.
func FormatQuoteNumber(year, counter int) string {
	return fmt.Sprintf("%s-%d-%04d", QuoteNumberPrefix, year, counter)
}

// FormatInvoiceNumber formate un numéro de facture : FAC-<année>-<compteur>.
func FormatInvoiceNumber(year, counter int) string {
	return fmt.Sprintf("%s-%d-%04d", InvoiceNumberPrefix, year, counter)
}
