package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implémentation de CompanyRepository (utilisable avec pool ou tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, address, postal_code, city, phone, email,
	       tax_id, trade_register, website, default_tax_rate,
	       quote_counter, invoice_counter, created_at, updated_at`

// Get retourne le profil unique, ou nil, nil s'il n'a pas encore été créé.
func (r *CompanyRepo) Get(ctx context.Context) (*entity.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		ORDER BY created_at
		LIMIT 1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query).Scan(
		&c.ID, &c.Name, &c.Address, &c.PostalCode, &c.City, &c.Phone, &c.Email,
		&c.TaxID, &c.TradeRegister, &c.Website, &c.DefaultTaxRate,
		&c.QuoteCounter, &c.InvoiceCounter, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Create persiste le profil. Une contrainte unique sur singleton garantit
// qu'une seule ligne peut exister : la création concurrente échoue avec
// domain.ErrDuplicate et le caller relit.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, address, postal_code, city, phone, email,
		                       tax_id, trade_register, website, default_tax_rate,
		                       quote_counter, invoice_counter, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Address, c.PostalCode, c.City, c.Phone, c.Email,
		c.TaxID, c.TradeRegister, c.Website, c.DefaultTaxRate,
		c.QuoteCounter, c.InvoiceCounter, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: profil entreprise déjà créé", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// Update réécrit l'identité et le taux par défaut. Les compteurs ne sont
// jamais touchés par ce chemin.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies
		SET name            = $2,
		    address         = $3,
		    postal_code     = $4,
		    city            = $5,
		    phone           = $6,
		    email           = $7,
		    tax_id          = $8,
		    trade_register  = $9,
		    website         = $10,
		    default_tax_rate = $11,
		    updated_at      = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Address, c.PostalCode, c.City, c.Phone, c.Email,
		c.TaxID, c.TradeRegister, c.Website, c.DefaultTaxRate, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementQuoteCounter alloue le prochain numéro de devis en une seule
// instruction : l'incrément et la lecture de la valeur allouée s'exécutent
// atomiquement côté store, deux transactions concurrentes n'observent jamais
// la même valeur.
func (r *CompanyRepo) IncrementQuoteCounter(ctx context.Context) (int, error) {
	return r.increment(ctx, `
		UPDATE companies
		SET quote_counter = quote_counter + 1,
		    updated_at    = now()
		RETURNING quote_counter`)
}

// IncrementInvoiceCounter alloue le prochain numéro de facture, même schéma.
func (r *CompanyRepo) IncrementInvoiceCounter(ctx context.Context) (int, error) {
	return r.increment(ctx, `
		UPDATE companies
		SET invoice_counter = invoice_counter + 1,
		    updated_at      = now()
		RETURNING invoice_counter`)
}

func (r *CompanyRepo) increment(ctx context.Context, query string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, query).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		if isSerializationFailure(err) {
			return 0, fmt.Errorf("%w: %v", domain.ErrSequenceConflict, err)
		}
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	return n, nil
}
