package billing

import (
	"context"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
)

// TxRunner exécute une fonction dans une transaction du store, avec des
// repositories attachés à cette transaction. Toute erreur de fn provoque un
// rollback complet : c'est le mécanisme d'atomicité du workflow de conversion
// et des mutations de lignes de facture.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		quoteRepo repository.QuoteRepository,
		invoiceRepo repository.InvoiceRepository,
		clientRepo repository.ClientRepository,
		companyRepo repository.CompanyRepository,
	) error) error
}

// InvoicePDFGenerator rend une facture finalisée (totaux cohérents, snapshots
// remplis) en flux d'octets. Aucune logique métier.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}

// QuotePDFGenerator rend un devis et ses totaux dérivés en flux d'octets.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, quote *entity.Quote) ([]byte, error)
}
