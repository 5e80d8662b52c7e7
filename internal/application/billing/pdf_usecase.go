package billing

import (
	"context"
	"fmt"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
)

// PDFUseCase génération des documents PDF (devis et factures).
type PDFUseCase struct {
	quoteRepo   repository.QuoteRepository
	invoiceRepo repository.InvoiceRepository
	quoteGen    QuotePDFGenerator
	invoiceGen  InvoicePDFGenerator
}

func NewPDFUseCase(quoteRepo repository.QuoteRepository, invoiceRepo repository.InvoiceRepository, quoteGen QuotePDFGenerator, invoiceGen InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{quoteRepo: quoteRepo, invoiceRepo: invoiceRepo, quoteGen: quoteGen, invoiceGen: invoiceGen}
}

// QuotePDF génère le PDF d'un devis. Retourne le contenu et un nom de
// fichier basé sur le numéro du document.
func (uc *PDFUseCase) QuotePDF(ctx context.Context, id string) ([]byte, string, error) {
	quote, err := uc.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if quote == nil {
		return nil, "", domain.ErrNotFound
	}
	content, err := uc.quoteGen.GenerateQuotePDF(ctx, quote)
	if err != nil {
		return nil, "", fmt.Errorf("génération PDF devis %s: %w", quote.Number, err)
	}
	return content, fmt.Sprintf("devis_%s.pdf", quote.Number), nil
}

// InvoicePDF génère le PDF d'une facture.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, id string) ([]byte, string, error) {
	invoice, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if invoice == nil {
		return nil, "", domain.ErrNotFound
	}
	content, err := uc.invoiceGen.GenerateInvoicePDF(ctx, invoice)
	if err != nil {
		return nil, "", fmt.Errorf("génération PDF facture %s: %w", invoice.Number, err)
	}
	return content, fmt.Sprintf("facture_%s.pdf", invoice.Number), nil
}
