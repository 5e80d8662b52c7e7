package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/billing"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner exécute des callbacks dans une transaction PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construit le runner avec le pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling ouvre une transaction, exécute fn avec les repositories liés à
// la tx, puis Commit ou Rollback. Le workflow de conversion et les mutations
// de lignes de facture passent tous par ici : le store ne voit jamais d'état
// partiel.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	quoteRepo repository.QuoteRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	companyRepo repository.CompanyRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	quoteRepo := NewQuoteRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)
	clientRepo := NewClientRepository(tx)
	companyRepo := NewCompanyRepository(tx)

	if err := fn(quoteRepo, invoiceRepo, clientRepo, companyRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
