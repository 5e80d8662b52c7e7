package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/workflow"
)

// InvoiceUseCase cas d'usage des factures : création (depuis un client ou
// manuelle), mutations de lignes avec recalcul systématique des totaux dans
// la même transaction, actions de statut, statistiques.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	now         func() time.Time
}

// NewInvoiceUseCase construit le cas d'usage.
func NewInvoiceUseCase(txRunner TxRunner, invoiceRepo repository.InvoiceRepository, clientRepo repository.ClientRepository) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, invoiceRepo: invoiceRepo, clientRepo: clientRepo, now: time.Now}
}

// Create crée une facture pour un client existant : snapshots entreprise et
// client figés, numéro alloué et facture insérée dans une transaction unique.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return uc.createInTx(ctx, in.Lines, func(inv *entity.Invoice) {
		inv.CopyClient(client)
		inv.PaymentTerms = in.PaymentTerms
		inv.Notes = in.Notes
	})
}

// CreateManual crée une facture sans fiche client : les données client sont
// saisies directement et figées telles quelles. Le taux de TVA peut être
// surchargé (fraction). Nom de client par défaut : "Client".
func (uc *InvoiceUseCase) CreateManual(ctx context.Context, in dto.CreateManualInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.TaxRate != nil && in.TaxRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return uc.createInTx(ctx, in.Lines, func(inv *entity.Invoice) {
		inv.ClientName = in.ClientName
		if inv.ClientName == "" {
			inv.ClientName = "Client"
		}
		inv.ClientAddr = in.ClientAddress
		inv.ClientPhone = in.ClientPhone
		inv.ClientEmail = in.ClientEmail
		inv.ClientTaxID = in.ClientTaxID
		if in.TaxRate != nil {
			inv.TaxRate = *in.TaxRate
		}
		inv.PaymentTerms = in.PaymentTerms
		inv.Notes = in.Notes
	})
}

// createInTx point d'entrée unique de création : numéro, snapshot entreprise,
// lignes, totaux et insertion dans une seule transaction. customize remplit
// les données client et les champs libres avant le calcul des totaux.
func (uc *InvoiceUseCase) createInTx(ctx context.Context, lines []dto.InvoiceLineRequest, customize func(*entity.Invoice)) (*dto.InvoiceResponse, error) {
	for _, l := range lines {
		if l.Quantity.IsNegative() || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	var invoice *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.QuoteRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ClientRepository,
		companyRepo repository.CompanyRepository,
	) error {
		company, err := EnsureCompany(ctx, companyRepo)
		if err != nil {
			return err
		}
		counter, err := companyRepo.IncrementInvoiceCounter(ctx)
		if err != nil {
			return err
		}
		now := uc.now()
		inv := &entity.Invoice{
			ID:        uuid.New().String(),
			Number:    entity.FormatInvoiceNumber(now.Year(), counter),
			IssueDate: now,
			DueDate:   now.AddDate(0, 0, entity.DueDays),
			Status:    workflow.InvoiceStatusUnpaid,
			CreatedAt: now,
			UpdatedAt: now,
		}
		inv.CopyCompany(company)
		customize(inv)

		for _, l := range lines {
			line := entity.InvoiceLine{
				ID:          uuid.New().String(),
				InvoiceID:   inv.ID,
				Designation: l.Designation,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
			}
			if err := line.ComputeTotal(); err != nil {
				return err
			}
			inv.Lines = append(inv.Lines, line)
		}
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
	return invoiceToResponse(invoice), nil
}

// ── Lecture ───────────────────────────────────────────────────────────────────

// Get obtient une facture complète par ID.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return invoiceToResponse(inv), nil
}

// GetByNumber obtient une facture par son numéro unique.
func (uc *InvoiceUseCase) GetByNumber(ctx context.Context, number string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return invoiceToResponse(inv), nil
}

// List liste toutes les factures.
func (uc *InvoiceUseCase) List(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return invoicesToResponses(list), nil
}

// ListByClient liste les factures liées à un client (référence d'historique).
func (uc *InvoiceUseCase) ListByClient(ctx context.Context, clientID string) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return invoicesToResponses(list), nil
}

// ListByStatus liste les factures d'un statut donné.
func (uc *InvoiceUseCase) ListByStatus(ctx context.Context, status string) ([]*dto.InvoiceResponse, error) {
	if !workflow.IsInvoiceStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.invoiceRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return invoicesToResponses(list), nil
}

// Totals retourne les totaux persistés de la facture.
func (uc *InvoiceUseCase) Totals(ctx context.Context, id string) (*dto.TotalsResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TotalsResponse{
		TotalExclTax: inv.TotalExclTax,
		TaxAmount:    inv.TaxAmount,
		TotalInclTax: inv.TotalInclTax,
	}, nil
}

// Statistics sommes des totaux TTC par statut : chiffre d'affaires (PAYEE),
// en attente (NON_PAYEE), en retard (EN_RETARD).
func (uc *InvoiceUseCase) Statistics(ctx context.Context) (*dto.StatsResponse, error) {
	sums, err := uc.invoiceRepo.TotalsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{
		Revenue: sums[workflow.InvoiceStatusPaid],
		Pending: sums[workflow.InvoiceStatusUnpaid],
		Overdue: sums[workflow.InvoiceStatusOverdue],
	}, nil
}

// ── Modification ──────────────────────────────────────────────────────────────

// Update modifie les champs mutables de l'en-tête : statut (actions plates),
// conditions de paiement, notes. Adaptateur du chemin legacy PUT /:id.
// Passe par le même verrou transactionnel que les mutations de lignes : la
// réécriture de l'en-tête repart des lignes relues sous verrou et ne peut pas
// écraser les totaux d'une édition de ligne commitée entre-temps.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	return uc.mutateLocked(ctx, id, func(_ repository.InvoiceRepository, inv *entity.Invoice) error {
		if in.Status != nil {
			if err := workflow.CheckInvoiceTransition(inv.Status, *in.Status); err != nil {
				return err
			}
			inv.Status = *in.Status
		}
		if in.PaymentTerms != nil {
			inv.PaymentTerms = *in.PaymentTerms
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		return nil
	})
}

// Delete supprime la facture et ses lignes.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	return uc.invoiceRepo.Delete(ctx, inv.ID)
}

// ── Statuts (ensemble plat d'actions, sans garde entre statuts connus) ────────

// MarkPaid marque la facture PAYEE.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.setStatus(ctx, id, workflow.InvoiceStatusPaid)
}

// MarkUnpaid marque la facture NON_PAYEE.
func (uc *InvoiceUseCase) MarkUnpaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.setStatus(ctx, id, workflow.InvoiceStatusUnpaid)
}

// MarkOverdue marque la facture EN_RETARD.
func (uc *InvoiceUseCase) MarkOverdue(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.setStatus(ctx, id, workflow.InvoiceStatusOverdue)
}

// Cancel annule la facture.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.setStatus(ctx, id, workflow.InvoiceStatusCancelled)
}

func (uc *InvoiceUseCase) setStatus(ctx context.Context, id, status string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckInvoiceTransition(inv.Status, status); err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	inv.Status = status
	return invoiceToResponse(inv), nil
}

// ── Lignes ────────────────────────────────────────────────────────────────────
//
// Chaque mutation de ligne verrouille l'en-tête de la facture, applique la
// modification puis recalcule les totaux à partir des lignes relues dans la
// même transaction : aucun état intermédiaire incohérent n'est observable et
// les éditions concurrentes de la même facture se sérialisent.

// AddLine ajoute une ligne et recalcule les totaux.
func (uc *InvoiceUseCase) AddLine(ctx context.Context, invoiceID string, in dto.InvoiceLineRequest) (*dto.InvoiceResponse, error) {
	if in.Quantity.IsNegative() || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutateLocked(ctx, invoiceID, func(repo repository.InvoiceRepository, inv *entity.Invoice) error {
		line := entity.InvoiceLine{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Designation: in.Designation,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		}
		if err := line.ComputeTotal(); err != nil {
			return err
		}
		if err := repo.InsertLine(ctx, &line); err != nil {
			return err
		}
		inv.Lines = append(inv.Lines, line)
		return nil
	})
}

// UpdateLine modifie une ligne et recalcule les totaux.
func (uc *InvoiceUseCase) UpdateLine(ctx context.Context, invoiceID, lineID string, in dto.InvoiceLineRequest) (*dto.InvoiceResponse, error) {
	if in.Quantity.IsNegative() || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutateLocked(ctx, invoiceID, func(repo repository.InvoiceRepository, inv *entity.Invoice) error {
		for i := range inv.Lines {
			if inv.Lines[i].ID != lineID {
				continue
			}
			inv.Lines[i].Designation = in.Designation
			inv.Lines[i].Quantity = in.Quantity
			inv.Lines[i].UnitPrice = in.UnitPrice
			if err := inv.Lines[i].ComputeTotal(); err != nil {
				return err
			}
			return repo.UpdateLine(ctx, &inv.Lines[i])
		}
		return domain.ErrNotFound
	})
}

// RemoveLine supprime une ligne et recalcule les totaux.
func (uc *InvoiceUseCase) RemoveLine(ctx context.Context, invoiceID, lineID string) (*dto.InvoiceResponse, error) {
	return uc.mutateLocked(ctx, invoiceID, func(repo repository.InvoiceRepository, inv *entity.Invoice) error {
		for i := range inv.Lines {
			if inv.Lines[i].ID != lineID {
				continue
			}
			if err := repo.DeleteLine(ctx, lineID); err != nil {
				return err
			}
			inv.Lines = append(inv.Lines[:i], inv.Lines[i+1:]...)
			return nil
		}
		return domain.ErrNotFound
	})
}

// RecomputeTotals recalcule le total stocké de chaque ligne puis les totaux
// du document. Idempotent : deux appels successifs produisent des totaux
// identiques.
func (uc *InvoiceUseCase) RecomputeTotals(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	return uc.mutateLocked(ctx, invoiceID, func(repo repository.InvoiceRepository, inv *entity.Invoice) error {
		for i := range inv.Lines {
			if err := inv.Lines[i].ComputeTotal(); err != nil {
				return err
			}
			if err := repo.UpdateLine(ctx, &inv.Lines[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// mutateLocked charge la facture sous verrou, applique mutate, recalcule les
// totaux et persiste l'en-tête, le tout dans une transaction unique.
func (uc *InvoiceUseCase) mutateLocked(ctx context.Context, invoiceID string, mutate func(repository.InvoiceRepository, *entity.Invoice) error) (*dto.InvoiceResponse, error) {
	var invoice *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.QuoteRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ClientRepository,
		_ repository.CompanyRepository,
	) error {
		inv, err := invoiceRepo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if err := mutate(invoiceRepo, inv); err != nil {
			return err
		}
		if err := inv.RecomputeTotals(); err != nil {
			return err
		}
		inv.UpdatedAt = uc.now()
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoiceToResponse(invoice), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func invoiceToResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                   inv.ID,
		Number:               inv.Number,
		IssueDate:            inv.IssueDate.Format(dto.DateLayout),
		DueDate:              inv.DueDate.Format(dto.DateLayout),
		Status:               inv.Status,
		QuoteRef:             inv.QuoteRef,
		CompanyName:          inv.CompanyName,
		CompanyAddress:       inv.CompanyAddress,
		CompanyPhone:         inv.CompanyPhone,
		CompanyEmail:         inv.CompanyEmail,
		CompanyTaxID:         inv.CompanyTaxID,
		CompanyTradeRegister: inv.CompanyTradeRegister,
		ClientID:             inv.ClientID,
		ClientName:           inv.ClientName,
		ClientAddr:           inv.ClientAddr,
		ClientPhone:          inv.ClientPhone,
		ClientEmail:          inv.ClientEmail,
		ClientTaxID:          inv.ClientTaxID,
		TaxRate:              inv.TaxRate,
		TotalExclTax:         inv.TotalExclTax,
		TaxAmount:            inv.TaxAmount,
		TotalInclTax:         inv.TotalInclTax,
		PaymentTerms:         inv.PaymentTerms,
		Notes:                inv.Notes,
		Lines:                make([]dto.InvoiceLineResponse, 0, len(inv.Lines)),
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:           l.ID,
			Designation:  l.Designation,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			TotalExclTax: l.TotalExclTax,
		})
	}
	return resp
}

func invoicesToResponses(list []*entity.Invoice) []*dto.InvoiceResponse {
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, invoiceToResponse(inv))
	}
	return out
}
