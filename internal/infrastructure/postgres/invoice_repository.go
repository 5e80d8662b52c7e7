package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implémentation de InvoiceRepository (utilisable avec pool ou tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construit l'adaptateur. Passer pool ou tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, issue_date, due_date, status, quote_ref,
	       company_name, company_address, company_phone, company_email,
	       company_tax_id, company_trade_register,
	       client_id, client_name, client_address, client_phone,
	       client_email, client_tax_id,
	       tax_rate, total_excl_tax, tax_amount, total_incl_tax,
	       payment_terms, notes, created_at, updated_at`

// Create persiste l'en-tête de la facture et ses lignes.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, number, issue_date, due_date, status, quote_ref,
		                      company_name, company_address, company_phone, company_email,
		                      company_tax_id, company_trade_register,
		                      client_id, client_name, client_address, client_phone,
		                      client_email, client_tax_id,
		                      tax_rate, total_excl_tax, tax_amount, total_incl_tax,
		                      payment_terms, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.IssueDate, inv.DueDate, inv.Status, nullIfEmpty(inv.QuoteRef),
		inv.CompanyName, inv.CompanyAddress, inv.CompanyPhone, inv.CompanyEmail,
		inv.CompanyTaxID, inv.CompanyTradeRegister,
		nullIfEmpty(inv.ClientID), inv.ClientName, inv.ClientAddr, inv.ClientPhone,
		inv.ClientEmail, inv.ClientTaxID,
		inv.TaxRate, inv.TotalExclTax, inv.TaxAmount, inv.TotalInclTax,
		inv.PaymentTerms, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: numéro de facture %s", domain.ErrDuplicate, inv.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for i := range inv.Lines {
		if err := r.InsertLine(ctx, &inv.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtient une facture complète, nil si absente.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate charge la facture en verrouillant l'en-tête (FOR UPDATE) pour
// la durée de la transaction courante. Les mutations de lignes concurrentes
// sur la même facture se sérialisent sur ce verrou.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

// GetByNumber obtient une facture par son numéro unique.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE number = $1`
	return r.getOne(ctx, query, number)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil || inv == nil {
		return inv, err
	}
	inv.Lines, err = r.ListLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var quoteRef, clientID *string
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.IssueDate, &inv.DueDate, &inv.Status, &quoteRef,
		&inv.CompanyName, &inv.CompanyAddress, &inv.CompanyPhone, &inv.CompanyEmail,
		&inv.CompanyTaxID, &inv.CompanyTradeRegister,
		&clientID, &inv.ClientName, &inv.ClientAddr, &inv.ClientPhone,
		&inv.ClientEmail, &inv.ClientTaxID,
		&inv.TaxRate, &inv.TotalExclTax, &inv.TaxAmount, &inv.TotalInclTax,
		&inv.PaymentTerms, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.QuoteRef = derefStr(quoteRef)
	inv.ClientID = derefStr(clientID)
	return &inv, nil
}

// List liste toutes les factures avec leurs lignes, de la plus récente à la
// plus ancienne.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	return r.list(ctx, ``)
}

// ListByClient liste les factures liées à un client.
func (r *InvoiceRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE client_id = $1`, clientID)
}

// ListByStatus liste les factures d'un statut donné.
func (r *InvoiceRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Invoice, error) {
	return r.list(ctx, `WHERE status = $1`, status)
}

func (r *InvoiceRepo) list(ctx context.Context, where string, args ...any) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + where + ` ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range out {
		if inv.Lines, err = r.ListLines(ctx, inv.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update met à jour l'en-tête mutable : statut, totaux, conditions, notes.
// Les snapshots entreprise/client et le numéro sont figés à la création et
// ne passent jamais par ce chemin.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status         = $2,
		    tax_rate       = $3,
		    total_excl_tax = $4,
		    tax_amount     = $5,
		    total_incl_tax = $6,
		    payment_terms  = $7,
		    notes          = $8,
		    updated_at     = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.Status, inv.TaxRate, inv.TotalExclTax, inv.TaxAmount,
		inv.TotalInclTax, inv.PaymentTerms, inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus change le statut de la facture.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete supprime la facture ; les lignes suivent par cascade.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertLine persiste une ligne de facture, total stocké inclus.
func (r *InvoiceRepo) InsertLine(ctx context.Context, line *entity.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (id, invoice_id, designation, quantity, unit_price, total_excl_tax)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.InvoiceID, line.Designation, line.Quantity, line.UnitPrice, line.TotalExclTax,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// GetLine obtient une ligne par ID, nil si absente.
func (r *InvoiceRepo) GetLine(ctx context.Context, lineID string) (*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, designation, quantity, unit_price, total_excl_tax
		FROM invoice_lines WHERE id = $1`
	var l entity.InvoiceLine
	err := r.q.QueryRow(ctx, query, lineID).Scan(
		&l.ID, &l.InvoiceID, &l.Designation, &l.Quantity, &l.UnitPrice, &l.TotalExclTax,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice line: %w", err)
	}
	return &l, nil
}

// ListLines liste les lignes d'une facture dans l'ordre d'insertion.
func (r *InvoiceRepo) ListLines(ctx context.Context, invoiceID string) ([]entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, designation, quantity, unit_price, total_excl_tax
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()

	var out []entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Designation, &l.Quantity, &l.UnitPrice, &l.TotalExclTax); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateLine réécrit une ligne, total stocké inclus.
func (r *InvoiceRepo) UpdateLine(ctx context.Context, line *entity.InvoiceLine) error {
	query := `
		UPDATE invoice_lines
		SET designation    = $2,
		    quantity       = $3,
		    unit_price     = $4,
		    total_excl_tax = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, line.ID, line.Designation, line.Quantity, line.UnitPrice, line.TotalExclTax)
	if err != nil {
		return fmt.Errorf("update invoice line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLine supprime une ligne.
func (r *InvoiceRepo) DeleteLine(ctx context.Context, lineID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete invoice line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TotalsByStatus somme des totaux TTC groupés par statut.
func (r *InvoiceRepo) TotalsByStatus(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `
		SELECT status, COALESCE(SUM(total_incl_tax), 0)
		FROM invoices
		GROUP BY status`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("totals by status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var status string
		var sum decimal.Decimal
		if err := rows.Scan(&status, &sum); err != nil {
			return nil, fmt.Errorf("scan totals: %w", err)
		}
		out[status] = sum
	}
	return out, rows.Err()
}
