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

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implémentation de QuoteRepository (utilisable avec pool ou tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

// Create persiste l'en-tête du devis et ses lignes.
func (r *QuoteRepo) Create(ctx context.Context, quote *entity.Quote) error {
	query := `
		INSERT INTO quotes (id, number, created_on, valid_until, status, tax_rate,
		                    client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		quote.ID, quote.Number, quote.CreatedOn, quote.ValidUntil, quote.Status,
		quote.TaxRate, nullIfEmpty(quote.ClientID), quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: numéro de devis %s", domain.ErrDuplicate, quote.Number)
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	for i := range quote.Lines {
		if err := r.InsertLine(ctx, &quote.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtient un devis complet (lignes incluses), nil si absent.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	query := `
		SELECT id, number, created_on, valid_until, status, tax_rate,
		       client_id, created_at, updated_at
		FROM quotes WHERE id = $1`
	quote, err := r.scanOne(ctx, r.q.QueryRow(ctx, query, id))
	if err != nil || quote == nil {
		return quote, err
	}
	quote.Lines, err = r.ListLines(ctx, quote.ID)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// GetForUpdate comme GetByID mais verrouille la ligne (FOR UPDATE) jusqu'à la
// fin de la transaction courante. Les éditions concurrentes du même devis se
// sérialisent derrière ce verrou pendant la conversion.
func (r *QuoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	query := `
		SELECT id, number, created_on, valid_until, status, tax_rate,
		       client_id, created_at, updated_at
		FROM quotes WHERE id = $1
		FOR UPDATE`
	quote, err := r.scanOne(ctx, r.q.QueryRow(ctx, query, id))
	if err != nil || quote == nil {
		return quote, err
	}
	quote.Lines, err = r.ListLines(ctx, quote.ID)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *QuoteRepo) scanOne(_ context.Context, row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	var clientID *string
	err := row.Scan(
		&q.ID, &q.Number, &q.CreatedOn, &q.ValidUntil, &q.Status, &q.TaxRate,
		&clientID, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	q.ClientID = derefStr(clientID)
	return &q, nil
}

// List liste tous les devis avec leurs lignes, du plus récent au plus ancien.
func (r *QuoteRepo) List(ctx context.Context) ([]*entity.Quote, error) {
	return r.list(ctx, ``)
}

// ListByClient liste les devis d'un client.
func (r *QuoteRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Quote, error) {
	return r.list(ctx, `WHERE client_id = $1`, clientID)
}

// ListByStatus liste les devis d'un statut donné.
func (r *QuoteRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Quote, error) {
	return r.list(ctx, `WHERE status = $1`, status)
}

func (r *QuoteRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Quote, error) {
	query := `
		SELECT id, number, created_on, valid_until, status, tax_rate,
		       client_id, created_at, updated_at
		FROM quotes ` + where + `
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var out []*entity.Quote
	for rows.Next() {
		var q entity.Quote
		var clientID *string
		if err := rows.Scan(
			&q.ID, &q.Number, &q.CreatedOn, &q.ValidUntil, &q.Status, &q.TaxRate,
			&clientID, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		q.ClientID = derefStr(clientID)
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, q := range out {
		if q.Lines, err = r.ListLines(ctx, q.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update met à jour l'en-tête (date de validité, client, taux).
func (r *QuoteRepo) Update(ctx context.Context, quote *entity.Quote) error {
	query := `
		UPDATE quotes
		SET valid_until = $2,
		    tax_rate    = $3,
		    client_id   = $4,
		    updated_at  = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		quote.ID, quote.ValidUntil, quote.TaxRate, nullIfEmpty(quote.ClientID), quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus transition conditionnelle : la ligne ne bouge que si elle est
// encore dans l'état attendu. Deux transitions concurrentes sur le même devis
// se départagent donc au niveau du store, pas seulement au niveau des gardes.
func (r *QuoteRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	query := `UPDATE quotes SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query, id, from, to)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotes WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("update quote status: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

// Delete supprime le devis ; les lignes suivent par cascade.
func (r *QuoteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertLine persiste une ligne de devis.
func (r *QuoteRepo) InsertLine(ctx context.Context, line *entity.QuoteLine) error {
	query := `
		INSERT INTO quote_lines (id, quote_id, designation, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.QuoteID, line.Designation, line.Quantity, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert quote line: %w", err)
	}
	return nil
}

// GetLine obtient une ligne par ID, nil si absente.
func (r *QuoteRepo) GetLine(ctx context.Context, lineID string) (*entity.QuoteLine, error) {
	query := `
		SELECT id, quote_id, designation, quantity, unit_price
		FROM quote_lines WHERE id = $1`
	var l entity.QuoteLine
	err := r.q.QueryRow(ctx, query, lineID).Scan(
		&l.ID, &l.QuoteID, &l.Designation, &l.Quantity, &l.UnitPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote line: %w", err)
	}
	return &l, nil
}

// ListLines liste les lignes d'un devis dans l'ordre d'insertion.
func (r *QuoteRepo) ListLines(ctx context.Context, quoteID string) ([]entity.QuoteLine, error) {
	return r.listLines(ctx, `WHERE quote_id = $1`, quoteID)
}

// ListAllLines liste toutes les lignes de devis (surface legacy).
func (r *QuoteRepo) ListAllLines(ctx context.Context) ([]entity.QuoteLine, error) {
	return r.listLines(ctx, ``)
}

func (r *QuoteRepo) listLines(ctx context.Context, where string, args ...any) ([]entity.QuoteLine, error) {
	query := `
		SELECT id, quote_id, designation, quantity, unit_price
		FROM quote_lines ` + where + `
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quote lines: %w", err)
	}
	defer rows.Close()

	var out []entity.QuoteLine
	for rows.Next() {
		var l entity.QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.Designation, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan quote line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateLine réécrit une ligne.
func (r *QuoteRepo) UpdateLine(ctx context.Context, line *entity.QuoteLine) error {
	query := `
		UPDATE quote_lines
		SET designation = $2,
		    quantity    = $3,
		    unit_price  = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, line.ID, line.Designation, line.Quantity, line.UnitPrice)
	if err != nil {
		return fmt.Errorf("update quote line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLine supprime une ligne.
func (r *QuoteRepo) DeleteLine(ctx context.Context, lineID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM quote_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete quote line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
