package dto

import "github.com/shopspring/decimal"

// InvoiceLineRequest ligne de facture en entrée (quantité décimale).
type InvoiceLineRequest struct {
	Designation string          `json:"designation"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest body pour POST /api/factures/creer (client existant).
type CreateInvoiceRequest struct {
	ClientID     string               `json:"client_id"`
	PaymentTerms string               `json:"payment_terms,omitempty"`
	Notes        string               `json:"notes,omitempty"`
	Lines        []InvoiceLineRequest `json:"lines"`
}

// CreateManualInvoiceRequest body pour POST /api/factures/creer-manuelle :
// facture sans fiche client, données client saisies directement.
type CreateManualInvoiceRequest struct {
	ClientName    string               `json:"client_name,omitempty"`
	ClientAddress string               `json:"client_address,omitempty"`
	ClientPhone   string               `json:"client_phone,omitempty"`
	ClientEmail   string               `json:"client_email,omitempty"`
	ClientTaxID   string               `json:"client_tax_id,omitempty"`
	TaxRate       *decimal.Decimal     `json:"tax_rate,omitempty"` // fraction, ex: 0.19
	PaymentTerms  string               `json:"payment_terms,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Lines         []InvoiceLineRequest `json:"lines"`
}

// UpdateInvoiceRequest body pour PUT /api/factures/:id. Champs limités :
// le statut, les conditions et les notes. Les snapshots et le numéro sont
// immutables.
type UpdateInvoiceRequest struct {
	Status       *string `json:"status,omitempty"`
	PaymentTerms *string `json:"payment_terms,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// InvoiceLineResponse ligne de facture en sortie, total stocké inclus.
type InvoiceLineResponse struct {
	ID           string          `json:"id"`
	Designation  string          `json:"designation"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalExclTax decimal.Decimal `json:"total_excl_tax"`
}

// InvoiceResponse facture complète avec snapshots et totaux persistés.
type InvoiceResponse struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date"`
	Status    string `json:"status"`
	QuoteRef  string `json:"quote_ref,omitempty"`

	CompanyName          string `json:"company_name"`
	CompanyAddress       string `json:"company_address,omitempty"`
	CompanyPhone         string `json:"company_phone,omitempty"`
	CompanyEmail         string `json:"company_email,omitempty"`
	CompanyTaxID         string `json:"company_tax_id,omitempty"`
	CompanyTradeRegister string `json:"company_trade_register,omitempty"`

	ClientID    string `json:"client_id,omitempty"`
	ClientName  string `json:"client_name"`
	ClientAddr  string `json:"client_address,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientTaxID string `json:"client_tax_id,omitempty"`

	TaxRate      decimal.Decimal `json:"tax_rate"` // fraction
	TotalExclTax decimal.Decimal `json:"total_excl_tax"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	TotalInclTax decimal.Decimal `json:"total_incl_tax"`

	PaymentTerms string                `json:"payment_terms,omitempty"`
	Notes        string                `json:"notes,omitempty"`
	Lines        []InvoiceLineResponse `json:"lines"`
}

// StatsResponse réponse de GET /api/factures/stats : sommes des totaux TTC
// groupées par statut.
type StatsResponse struct {
	Revenue decimal.Decimal `json:"revenue"` // factures PAYEE
	Pending decimal.Decimal `json:"pending"` // factures NON_PAYEE
	Overdue decimal.Decimal `json:"overdue"` // factures EN_RETARD
}
