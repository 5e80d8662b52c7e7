package dto

import "github.com/shopspring/decimal"

// SaveCompanyRequest body pour POST/PUT /api/entreprise. Les compteurs de
// numérotation ne sont pas acceptés en entrée : ils sont préservés côté
// serveur.
type SaveCompanyRequest struct {
	Name           string          `json:"name"`
	Address        string          `json:"address,omitempty"`
	PostalCode     string          `json:"postal_code,omitempty"`
	City           string          `json:"city,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	TaxID          string          `json:"tax_id,omitempty"`
	TradeRegister  string          `json:"trade_register,omitempty"`
	Website        string          `json:"website,omitempty"`
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"` // pourcentage
}

// CompanyResponse profil entreprise, compteurs en lecture seule.
type CompanyResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address,omitempty"`
	PostalCode     string          `json:"postal_code,omitempty"`
	City           string          `json:"city,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	TaxID          string          `json:"tax_id,omitempty"`
	TradeRegister  string          `json:"trade_register,omitempty"`
	Website        string          `json:"website,omitempty"`
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`
	QuoteCounter   int             `json:"quote_counter"`
	InvoiceCounter int             `json:"invoice_counter"`
}
