// Package workflow encode les deux machines à états (devis et facture) sous
// forme de prédicats purs, partagés par les agrégats et les tests.
package workflow

import "github.com/KhaledEssghaier/DeviSmart/internal/domain"

// Statuts de devis. Valeurs persistées telles quelles.
const (
	QuoteStatusDraft     = "BROUILLON"
	QuoteStatusValidated = "VALIDÉ"
	QuoteStatusRejected  = "REFUSÉ"
)

// Statuts de facture. Valeurs persistées telles quelles.
const (
	InvoiceStatusUnpaid    = "NON_PAYEE"
	InvoiceStatusPaid      = "PAYEE"
	InvoiceStatusOverdue   = "EN_RETARD"
	InvoiceStatusCancelled = "ANNULEE"
)

// IsQuoteStatus vérifie qu'une valeur est un statut de devis connu.
func IsQuoteStatus(s string) bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusValidated, QuoteStatusRejected:
		return true
	}
	return false
}

// IsInvoiceStatus vérifie qu'une valeur est un statut de facture connu.
func IsInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// QuoteIsEditable indique si les lignes, le taux de TVA et la date de
// validité d'un devis peuvent encore être modifiés.
func QuoteIsEditable(status string) bool {
	return status == QuoteStatusDraft
}

// CheckQuoteTransition valide une transition de devis. Le cycle de vie est
// strictement "append-only" : un devis VALIDÉ ou REFUSÉ ne revient jamais en
// BROUILLON.
//
//	BROUILLON -> VALIDÉ  (uniquement via le workflow de conversion)
//	BROUILLON -> REFUSÉ
func CheckQuoteTransition(from, to string) error {
	if !IsQuoteStatus(from) || !IsQuoteStatus(to) {
		return domain.ErrInvalidInput
	}
	if from == QuoteStatusDraft && (to == QuoteStatusValidated || to == QuoteStatusRejected) {
		return nil
	}
	return domain.ErrInvalidTransition
}

// CheckInvoiceTransition valide un changement de statut de facture.
// Contrairement au devis, la facture n'impose aucun garde-fou entre statuts
// connus : les quatre actions (payer, impayer, retard, annuler) sont un
// ensemble plat, accessible depuis n'importe quel état. Seule une valeur de
// statut inconnue est rejetée.
func CheckInvoiceTransition(from, to string) error {
	if !IsInvoiceStatus(from) || !IsInvoiceStatus(to) {
		return domain.ErrInvalidInput
	}
	return nil
}
