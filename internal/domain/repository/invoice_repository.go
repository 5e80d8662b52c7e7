package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
)

// InvoiceRepository port de persistance des factures et de leurs lignes.
type InvoiceRepository interface {
	// Create persiste l'en-tête et les lignes de la facture.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate charge la facture en verrouillant son en-tête pour la durée
	// de la transaction courante : les mutations de lignes concurrentes sur la
	// même facture se sérialisent dessus.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Invoice, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Invoice, error)
	// Update met à jour l'en-tête mutable : statut, totaux, conditions, notes.
	// Les snapshots entreprise/client sont figés à la création et ne sont
	// jamais réécrits.
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error

	InsertLine(ctx context.Context, line *entity.InvoiceLine) error
	GetLine(ctx context.Context, lineID string) (*entity.InvoiceLine, error)
	ListLines(ctx context.Context, invoiceID string) ([]entity.InvoiceLine, error)
	UpdateLine(ctx context.Context, line *entity.InvoiceLine) error
	DeleteLine(ctx context.Context, lineID string) error

	// TotalsByStatus somme des totaux TTC groupés par statut (statistiques).
	TotalsByStatus(ctx context.Context) (map[string]decimal.Decimal, error)
}
