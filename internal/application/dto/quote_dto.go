package dto

import "github.com/shopspring/decimal"

// QuoteLineRequest ligne de devis en entrée (quantité entière).
type QuoteLineRequest struct {
	Designation string          `json:"designation"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateQuoteRequest body pour POST /api/devis.
// Le numéro, le statut et le taux de TVA sont toujours attribués côté serveur.
type CreateQuoteRequest struct {
	ClientID   string             `json:"client_id,omitempty"`
	ValidUntil string             `json:"valid_until,omitempty"` // format DateLayout
	Lines      []QuoteLineRequest `json:"lines,omitempty"`
}

// UpdateQuoteRequest body pour PUT /api/devis/:id. Seuls les champs hors
// statut sont modifiables, et uniquement tant que le devis est BROUILLON.
type UpdateQuoteRequest struct {
	ValidUntil *string `json:"valid_until,omitempty"`
	ClientID   *string `json:"client_id,omitempty"`
}

// QuoteLineResponse ligne de devis en sortie, total dérivé inclus.
type QuoteLineResponse struct {
	ID          string          `json:"id"`
	Designation string          `json:"designation"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// QuoteResponse devis complet, totaux calculés à la lecture.
type QuoteResponse struct {
	ID           string              `json:"id"`
	Number       string              `json:"number"`
	CreatedOn    string              `json:"created_on"`
	ValidUntil   string              `json:"valid_until,omitempty"`
	Status       string              `json:"status"`
	TaxRate      decimal.Decimal     `json:"tax_rate"` // pourcentage
	ClientID     string              `json:"client_id,omitempty"`
	Lines        []QuoteLineResponse `json:"lines"`
	TotalExclTax decimal.Decimal     `json:"total_excl_tax"`
	TaxAmount    decimal.Decimal     `json:"tax_amount"`
	TotalInclTax decimal.Decimal     `json:"total_incl_tax"`
}

// TotalsResponse réponse de GET /:id/totaux.
type TotalsResponse struct {
	TotalExclTax decimal.Decimal `json:"total_excl_tax"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	TotalInclTax decimal.Decimal `json:"total_incl_tax"`
}
