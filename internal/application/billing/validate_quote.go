package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/workflow"
)

// ValidateQuoteUseCase workflow de conversion : passe un devis BROUILLON en
// VALIDÉ et produit la facture correspondante dans une seule transaction.
// Mise à jour du statut, allocation du numéro de facture et insertion de la
// facture s'engagent ou s'annulent ensemble : il ne peut pas exister de devis
// VALIDÉ sans facture, ni de facture sans devis VALIDÉ.
type ValidateQuoteUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewValidateQuoteUseCase construit le workflow.
func NewValidateQuoteUseCase(txRunner TxRunner) *ValidateQuoteUseCase {
	return &ValidateQuoteUseCase{txRunner: txRunner, now: time.Now}
}

// Validate convertit le devis en facture. ErrNotFound si le devis n'existe
// pas, ErrInvalidTransition s'il n'est pas BROUILLON. La transaction entière
// est retentée sur conflit d'allocation du compteur, un nombre borné de fois.
func (uc *ValidateQuoteUseCase) Validate(ctx context.Context, quoteID string) (*dto.InvoiceResponse, error) {
	var invoice *entity.Invoice
	var lastErr error
	for attempt := 0; attempt < sequenceRetries; attempt++ {
		inv, err := uc.runOnce(ctx, quoteID)
		if err == nil {
			invoice = inv
			lastErr = nil
			break
		}
		if !errors.Is(err, domain.ErrSequenceConflict) {
			return nil, err
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: conversion du devis %s: %v", domain.ErrPersistence, quoteID, lastErr)
	}
	return invoiceToResponse(invoice), nil
}

func (uc *ValidateQuoteUseCase) runOnce(ctx context.Context, quoteID string) (*entity.Invoice, error) {
	var invoice *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		quoteRepo repository.QuoteRepository,
		invoiceRepo repository.InvoiceRepository,
		clientRepo repository.ClientRepository,
		companyRepo repository.CompanyRepository,
	) error {
		// 1-2) Charger le devis sous verrou et vérifier la transition.
		quote, err := quoteRepo.GetForUpdate(ctx, quoteID)
		if err != nil {
			return err
		}
		if quote == nil {
			return domain.ErrNotFound
		}
		if err := workflow.CheckQuoteTransition(quote.Status, workflow.QuoteStatusValidated); err != nil {
			return err
		}

		// 3) Statut VALIDÉ, dans la transaction. La transition est
		// conditionnelle côté store : si une conversion concurrente a commité
		// entre la lecture et ici, celle-ci échoue au lieu de produire une
		// seconde facture.
		if err := quoteRepo.UpdateStatus(ctx, quote.ID, workflow.QuoteStatusDraft, workflow.QuoteStatusValidated); err != nil {
			return err
		}

		// 4) Profil entreprise et numéro de facture.
		company, err := EnsureCompany(ctx, companyRepo)
		if err != nil {
			return err
		}
		counter, err := companyRepo.IncrementInvoiceCounter(ctx)
		if err != nil {
			return err
		}
		now := uc.now()
		number := entity.FormatInvoiceNumber(now.Year(), counter)

		// 5-7) Facture avec référence au devis et snapshots figés.
		inv := &entity.Invoice{
			ID:        uuid.New().String(),
			Number:    number,
			IssueDate: now,
			DueDate:   now.AddDate(0, 0, entity.DueDays),
			Status:    workflow.InvoiceStatusUnpaid,
			QuoteRef:  quote.Number,
			CreatedAt: now,
			UpdatedAt: now,
		}
		inv.CopyCompany(company)
		if quote.ClientID != "" {
			client, err := clientRepo.GetByID(ctx, quote.ClientID)
			if err != nil {
				return err
			}
			inv.CopyClient(client)
		}

		// 8) Lignes du devis converties en lignes de facture.
		for _, l := range quote.Lines {
			line := entity.InvoiceLine{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				Designation: l.Designation,
				Quantity:    decimal.NewFromInt(int64(l.Quantity)),
				UnitPrice:   l.UnitPrice,
			}
			if err := line.ComputeTotal(); err != nil {
				return err
			}
			inv.Lines = append(inv.Lines, line)
		}

		// 9) Totaux puis persistance.
		if err := inv.RecomputeTotals(); err != nil {
			return err
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
