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

// QuoteUseCase cas d'usage des devis : création numérotée, CRUD des lignes
// tant que le devis est BROUILLON, refus direct, totaux dérivés à la lecture.
// La validation (BROUILLON -> VALIDÉ) passe exclusivement par
// ValidateQuoteUseCase, jamais par une simple édition de statut.
type QuoteUseCase struct {
	quoteRepo  repository.QuoteRepository
	clientRepo repository.ClientRepository
	seq        *NumberSequence
	now        func() time.Time
}

// NewQuoteUseCase construit le cas d'usage.
func NewQuoteUseCase(quoteRepo repository.QuoteRepository, clientRepo repository.ClientRepository, seq *NumberSequence) *QuoteUseCase {
	return &QuoteUseCase{quoteRepo: quoteRepo, clientRepo: clientRepo, seq: seq, now: time.Now}
}

// Create crée un devis : numéro attribué par la séquence, statut BROUILLON,
// taux de TVA copié du profil entreprise au moment de la création.
func (uc *QuoteUseCase) Create(ctx context.Context, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if in.ClientID != "" {
		client, err := uc.clientRepo.GetByID(ctx, in.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
	}

	var validUntil *time.Time
	if in.ValidUntil != "" {
		t, err := time.Parse(dto.DateLayout, in.ValidUntil)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		validUntil = &t
	}

	company, err := EnsureCompany(ctx, uc.seq.companyRepo)
	if err != nil {
		return nil, err
	}
	number, err := uc.seq.NextQuoteNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	quote := &entity.Quote{
		ID:         uuid.New().String(),
		Number:     number,
		CreatedOn:  now,
		ValidUntil: validUntil,
		Status:     workflow.QuoteStatusDraft,
		TaxRate:    company.DefaultTaxRate,
		ClientID:   in.ClientID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, l := range in.Lines {
		line, err := buildQuoteLine(quote.ID, l)
		if err != nil {
			return nil, err
		}
		quote.Lines = append(quote.Lines, *line)
	}

	if err := uc.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}
	return quoteToResponse(quote)
}

// Get obtient un devis avec ses totaux dérivés.
func (uc *QuoteUseCase) Get(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	quote, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return quoteToResponse(quote)
}

// List liste tous les devis.
func (uc *QuoteUseCase) List(ctx context.Context) ([]*dto.QuoteResponse, error) {
	list, err := uc.quoteRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return quotesToResponses(list)
}

// ListByClient liste les devis d'un client.
func (uc *QuoteUseCase) ListByClient(ctx context.Context, clientID string) ([]*dto.QuoteResponse, error) {
	list, err := uc.quoteRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return quotesToResponses(list)
}

// ListByStatus liste les devis d'un statut donné.
func (uc *QuoteUseCase) ListByStatus(ctx context.Context, status string) ([]*dto.QuoteResponse, error) {
	if !workflow.IsQuoteStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.quoteRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return quotesToResponses(list)
}

// Update modifie l'en-tête d'un devis (date de validité, client). Refusé dès
// que le devis n'est plus BROUILLON.
func (uc *QuoteUseCase) Update(ctx context.Context, id string, in dto.UpdateQuoteRequest) (*dto.QuoteResponse, error) {
	quote, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.QuoteIsEditable(quote.Status) {
		return nil, domain.ErrInvalidTransition
	}
	if in.ValidUntil != nil {
		t, err := time.Parse(dto.DateLayout, *in.ValidUntil)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		quote.ValidUntil = &t
	}
	if in.ClientID != nil {
		if *in.ClientID != "" {
			client, err := uc.clientRepo.GetByID(ctx, *in.ClientID)
			if err != nil {
				return nil, err
			}
			if client == nil {
				return nil, domain.ErrNotFound
			}
		}
		quote.ClientID = *in.ClientID
	}
	quote.UpdatedAt = uc.now()
	if err := uc.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}
	return quoteToResponse(quote)
}

// Reject refuse un devis : BROUILLON -> REFUSÉ, transition directe.
func (uc *QuoteUseCase) Reject(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	quote, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckQuoteTransition(quote.Status, workflow.QuoteStatusRejected); err != nil {
		return nil, err
	}
	// Transition conditionnelle : si le devis a changé d'état entre la
	// lecture et l'écriture, le store refuse au lieu d'écraser.
	if err := uc.quoteRepo.UpdateStatus(ctx, id, workflow.QuoteStatusDraft, workflow.QuoteStatusRejected); err != nil {
		return nil, err
	}
	quote.Status = workflow.QuoteStatusRejected
	return quoteToResponse(quote)
}

// Delete supprime un devis et ses lignes.
func (uc *QuoteUseCase) Delete(ctx context.Context, id string) error {
	quote, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	return uc.quoteRepo.Delete(ctx, quote.ID)
}

// Totals retourne les totaux dérivés (0 sans lignes).
func (uc *QuoteUseCase) Totals(ctx context.Context, id string) (*dto.TotalsResponse, error) {
	quote, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := quote.Totals()
	if err != nil {
		return nil, err
	}
	return &dto.TotalsResponse{
		TotalExclTax: doc.TotalExclTax,
		TaxAmount:    doc.TaxAmount,
		TotalInclTax: doc.TotalInclTax,
	}, nil
}

// ── Lignes ────────────────────────────────────────────────────────────────────

// AddLine ajoute une ligne à un devis BROUILLON.
func (uc *QuoteUseCase) AddLine(ctx context.Context, quoteID string, in dto.QuoteLineRequest) (*dto.QuoteResponse, error) {
	quote, err := uc.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !workflow.QuoteIsEditable(quote.Status) {
		return nil, domain.ErrInvalidTransition
	}
	line, err := buildQuoteLine(quote.ID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.quoteRepo.InsertLine(ctx, line); err != nil {
		return nil, err
	}
	quote.Lines = append(quote.Lines, *line)
	return quoteToResponse(quote)
}

// UpdateLine modifie une ligne existante (devis BROUILLON uniquement).
func (uc *QuoteUseCase) UpdateLine(ctx context.Context, lineID string, in dto.QuoteLineRequest) (*dto.QuoteLineResponse, error) {
	line, err := uc.loadLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkParentEditable(ctx, line.QuoteID); err != nil {
		return nil, err
	}
	if in.Quantity < 0 || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	line.Designation = in.Designation
	line.Quantity = in.Quantity
	line.UnitPrice = in.UnitPrice
	if err := uc.quoteRepo.UpdateLine(ctx, line); err != nil {
		return nil, err
	}
	resp := quoteLineToResponse(*line)
	return &resp, nil
}

// DeleteLine supprime une ligne (devis BROUILLON uniquement).
func (uc *QuoteUseCase) DeleteLine(ctx context.Context, lineID string) error {
	line, err := uc.loadLine(ctx, lineID)
	if err != nil {
		return err
	}
	if err := uc.checkParentEditable(ctx, line.QuoteID); err != nil {
		return err
	}
	return uc.quoteRepo.DeleteLine(ctx, lineID)
}

// GetLine obtient une ligne par ID.
func (uc *QuoteUseCase) GetLine(ctx context.Context, lineID string) (*dto.QuoteLineResponse, error) {
	line, err := uc.loadLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	resp := quoteLineToResponse(*line)
	return &resp, nil
}

// ListLines liste les lignes d'un devis.
func (uc *QuoteUseCase) ListLines(ctx context.Context, quoteID string) ([]dto.QuoteLineResponse, error) {
	lines, err := uc.quoteRepo.ListLines(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return quoteLinesToResponses(lines), nil
}

// ListAllLines liste toutes les lignes de devis (surface legacy /api/lignes).
func (uc *QuoteUseCase) ListAllLines(ctx context.Context) ([]dto.QuoteLineResponse, error) {
	lines, err := uc.quoteRepo.ListAllLines(ctx)
	if err != nil {
		return nil, err
	}
	return quoteLinesToResponses(lines), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (uc *QuoteUseCase) load(ctx context.Context, id string) (*entity.Quote, error) {
	quote, err := uc.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	return quote, nil
}

func (uc *QuoteUseCase) loadLine(ctx context.Context, lineID string) (*entity.QuoteLine, error) {
	line, err := uc.quoteRepo.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	return line, nil
}

func (uc *QuoteUseCase) checkParentEditable(ctx context.Context, quoteID string) error {
	quote, err := uc.load(ctx, quoteID)
	if err != nil {
		return err
	}
	if !workflow.QuoteIsEditable(quote.Status) {
		return domain.ErrInvalidTransition
	}
	return nil
}

func buildQuoteLine(quoteID string, in dto.QuoteLineRequest) (*entity.QuoteLine, error) {
	if in.Quantity < 0 || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	return &entity.QuoteLine{
		ID:          uuid.New().String(),
		QuoteID:     quoteID,
		Designation: in.Designation,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
	}, nil
}

func quoteLineToResponse(l entity.QuoteLine) dto.QuoteLineResponse {
	return dto.QuoteLineResponse{
		ID:          l.ID,
		Designation: l.Designation,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Total:       l.Total(),
	}
}

func quoteLinesToResponses(lines []entity.QuoteLine) []dto.QuoteLineResponse {
	out := make([]dto.QuoteLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, quoteLineToResponse(l))
	}
	return out
}

func quoteToResponse(q *entity.Quote) (*dto.QuoteResponse, error) {
	doc, err := q.Totals()
	if err != nil {
		return nil, err
	}
	resp := &dto.QuoteResponse{
		ID:           q.ID,
		Number:       q.Number,
		CreatedOn:    q.CreatedOn.Format(dto.DateLayout),
		Status:       q.Status,
		TaxRate:      q.TaxRate,
		ClientID:     q.ClientID,
		Lines:        quoteLinesToResponses(q.Lines),
		TotalExclTax: doc.TotalExclTax,
		TaxAmount:    doc.TaxAmount,
		TotalInclTax: doc.TotalInclTax,
	}
	if q.ValidUntil != nil {
		resp.ValidUntil = q.ValidUntil.Format(dto.DateLayout)
	}
	return resp, nil
}

func quotesToResponses(list []*entity.Quote) ([]*dto.QuoteResponse, error) {
	out := make([]*dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		r, err := quoteToResponse(q)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
