package billing

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Doubles en mémoire des quatre ports de persistance. Les valeurs sont
// copiées à l'écriture et à la lecture, comme le ferait un vrai store :
// muter un agrégat après coup ne doit jamais modifier l'état "persisté".

type fakeStore struct {
	mu       sync.Mutex
	quotes   map[string]entity.Quote
	invoices map[string]entity.Invoice
	clients  map[string]entity.Client
	company  *entity.Company

	// Conflits d'allocation à simuler avant de laisser passer l'incrément.
	counterConflicts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quotes:   make(map[string]entity.Quote),
		invoices: make(map[string]entity.Invoice),
		clients:  make(map[string]entity.Client),
	}
}

func (s *fakeStore) quoteRepo() repository.QuoteRepository     { return &fakeQuoteRepo{s} }
func (s *fakeStore) invoiceRepo() repository.InvoiceRepository { return &fakeInvoiceRepo{s} }
func (s *fakeStore) clientRepo() repository.ClientRepository   { return &fakeClientRepo{s} }
func (s *fakeStore) companyRepo() repository.CompanyRepository { return &fakeCompanyRepo{s} }

// txRunner exécute la fonction sur le store, avec la sémantique rollback du
// vrai moteur : sur erreur, l'état complet est restauré tel qu'avant l'appel.
func (s *fakeStore) txRunner() TxRunner { return fakeTxRunner{s} }

type fakeTxRunner struct{ s *fakeStore }

func (r fakeTxRunner) RunBilling(_ context.Context, fn func(
	repository.QuoteRepository,
	repository.InvoiceRepository,
	repository.ClientRepository,
	repository.CompanyRepository,
) error) error {
	snap := r.s.snapshot()
	err := fn(r.s.quoteRepo(), r.s.invoiceRepo(), r.s.clientRepo(), r.s.companyRepo())
	if err != nil {
		r.s.restore(snap)
	}
	return err
}

// raceQuoteRepo déclenche hook une seule fois, juste après qu'une lecture du
// devis a rendu sa copie : simule un écrivain concurrent qui commite dans la
// fenêtre entre la lecture et l'écriture de l'appelant.
type raceQuoteRepo struct {
	repository.QuoteRepository
	hook func()
	once sync.Once
}

func (r *raceQuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := r.QuoteRepository.GetByID(ctx, id)
	if q != nil {
		r.once.Do(r.hook)
	}
	return q, err
}

func (r *raceQuoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := r.QuoteRepository.GetForUpdate(ctx, id)
	if q != nil {
		r.once.Do(r.hook)
	}
	return q, err
}

// raceTxRunner exécute fn avec un repository devis instrumenté. Pas de
// rollback : les scénarios qui l'utilisent échouent avant toute écriture de
// la transaction perdante, et restaurer un instantané pris avant le commit
// du concurrent effacerait ce commit.
type raceTxRunner struct {
	s     *fakeStore
	quote repository.QuoteRepository
}

func (r raceTxRunner) RunBilling(_ context.Context, fn func(
	repository.QuoteRepository,
	repository.InvoiceRepository,
	repository.ClientRepository,
	repository.CompanyRepository,
) error) error {
	return fn(r.quote, r.s.invoiceRepo(), r.s.clientRepo(), r.s.companyRepo())
}

type storeSnapshot struct {
	quotes   map[string]entity.Quote
	invoices map[string]entity.Invoice
	clients  map[string]entity.Client
	company  *entity.Company
}

func (s *fakeStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		quotes:   make(map[string]entity.Quote, len(s.quotes)),
		invoices: make(map[string]entity.Invoice, len(s.invoices)),
		clients:  make(map[string]entity.Client, len(s.clients)),
	}
	for id, q := range s.quotes {
		snap.quotes[id] = copyQuote(q)
	}
	for id, inv := range s.invoices {
		snap.invoices[id] = copyInvoice(inv)
	}
	for id, c := range s.clients {
		snap.clients[id] = c
	}
	if s.company != nil {
		c := *s.company
		snap.company = &c
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = snap.quotes
	s.invoices = snap.invoices
	s.clients = snap.clients
	s.company = snap.company
}

func copyQuote(q entity.Quote) entity.Quote {
	q.Lines = append([]entity.QuoteLine(nil), q.Lines...)
	return q
}

func copyInvoice(inv entity.Invoice) entity.Invoice {
	inv.Lines = append([]entity.InvoiceLine(nil), inv.Lines...)
	return inv
}

// ── Devis ─────────────────────────────────────────────────────────────────────

type fakeQuoteRepo struct{ s *fakeStore }

func (r *fakeQuoteRepo) Create(_ context.Context, q *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.quotes[q.ID] = copyQuote(*q)
	return nil
}

func (r *fakeQuoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quotes[id]
	if !ok {
		return nil, nil
	}
	q = copyQuote(q)
	return &q, nil
}

func (r *fakeQuoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeQuoteRepo) List(_ context.Context) ([]*entity.Quote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Quote, 0, len(r.s.quotes))
	for _, q := range r.s.quotes {
		q := copyQuote(q)
		out = append(out, &q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *fakeQuoteRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Quote, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, q := range all {
		if q.ClientID == clientID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuoteRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Quote, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, q := range all {
		if q.Status == status {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuoteRepo) Update(_ context.Context, q *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.quotes[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := copyQuote(*q)
	updated.Lines = stored.Lines
	r.s.quotes[q.ID] = updated
	return nil
}

func (r *fakeQuoteRepo) UpdateStatus(_ context.Context, id, from, to string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quotes[id]
	if !ok {
		return domain.ErrNotFound
	}
	if q.Status != from {
		return domain.ErrInvalidTransition
	}
	q.Status = to
	r.s.quotes[id] = q
	return nil
}

func (r *fakeQuoteRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.quotes, id)
	return nil
}

func (r *fakeQuoteRepo) InsertLine(_ context.Context, line *entity.QuoteLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quotes[line.QuoteID]
	if !ok {
		return domain.ErrNotFound
	}
	q.Lines = append(q.Lines, *line)
	r.s.quotes[line.QuoteID] = q
	return nil
}

func (r *fakeQuoteRepo) GetLine(_ context.Context, lineID string) (*entity.QuoteLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, q := range r.s.quotes {
		for _, l := range q.Lines {
			if l.ID == lineID {
				l := l
				return &l, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeQuoteRepo) ListLines(_ context.Context, quoteID string) ([]entity.QuoteLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quotes[quoteID]
	if !ok {
		return nil, nil
	}
	return append([]entity.QuoteLine(nil), q.Lines...), nil
}

func (r *fakeQuoteRepo) ListAllLines(_ context.Context) ([]entity.QuoteLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.QuoteLine
	for _, q := range r.s.quotes {
		out = append(out, q.Lines...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuoteRepo) UpdateLine(_ context.Context, line *entity.QuoteLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quotes[line.QuoteID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range q.Lines {
		if q.Lines[i].ID == line.ID {
			q.Lines[i] = *line
			r.s.quotes[line.QuoteID] = q
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeQuoteRepo) DeleteLine(_ context.Context, lineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, q := range r.s.quotes {
		for i := range q.Lines {
			if q.Lines[i].ID == lineID {
				q.Lines = append(q.Lines[:i], q.Lines[i+1:]...)
				r.s.quotes[id] = q
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

// ── Factures ──────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct{ s *fakeStore }

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.invoices {
		if existing.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = copyInvoice(*inv)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	inv = copyInvoice(inv)
	return &inv, nil
}

func (r *fakeInvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeInvoiceRepo) GetByNumber(_ context.Context, number string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.Number == number {
			inv = copyInvoice(inv)
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) List(_ context.Context) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		inv := copyInvoice(inv)
		out = append(out, &inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *fakeInvoiceRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Invoice, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, inv := range all {
		if inv.ClientID == clientID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Invoice, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, inv := range all {
		if inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.invoices[inv.ID] = copyInvoice(*inv)
	return nil
}

func (r *fakeInvoiceRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	r.s.invoices[id] = inv
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) InsertLine(_ context.Context, line *entity.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[line.InvoiceID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Lines = append(inv.Lines, *line)
	r.s.invoices[line.InvoiceID] = inv
	return nil
}

func (r *fakeInvoiceRepo) GetLine(_ context.Context, lineID string) (*entity.InvoiceLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		for _, l := range inv.Lines {
			if l.ID == lineID {
				l := l
				return &l, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) ListLines(_ context.Context, invoiceID string) ([]entity.InvoiceLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[invoiceID]
	if !ok {
		return nil, nil
	}
	return append([]entity.InvoiceLine(nil), inv.Lines...), nil
}

func (r *fakeInvoiceRepo) UpdateLine(_ context.Context, line *entity.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[line.InvoiceID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range inv.Lines {
		if inv.Lines[i].ID == line.ID {
			inv.Lines[i] = *line
			r.s.invoices[line.InvoiceID] = inv
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeInvoiceRepo) DeleteLine(_ context.Context, lineID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, inv := range r.s.invoices {
		for i := range inv.Lines {
			if inv.Lines[i].ID == lineID {
				inv.Lines = append(inv.Lines[:i], inv.Lines[i+1:]...)
				r.s.invoices[id] = inv
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *fakeInvoiceRepo) TotalsByStatus(_ context.Context) (map[string]decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]decimal.Decimal)
	for _, inv := range r.s.invoices {
		out[inv.Status] = out[inv.Status].Add(inv.TotalInclTax)
	}
	return out, nil
}

// ── Clients ───────────────────────────────────────────────────────────────────

type fakeClientRepo struct{ s *fakeStore }

func (r *fakeClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients[c.ID] = *c
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeClientRepo) GetByEmail(_ context.Context, email string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if c.Email == email {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) List(_ context.Context) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.clients, id)
	return nil
}

// ── Entreprise ────────────────────────────────────────────────────────────────

type fakeCompanyRepo struct{ s *fakeStore }

func (r *fakeCompanyRepo) Get(_ context.Context) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.company == nil {
		return nil, nil
	}
	c := *r.s.company
	return &c, nil
}

func (r *fakeCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.company != nil {
		return domain.ErrDuplicate
	}
	cc := *c
	r.s.company = &cc
	return nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.company == nil {
		return domain.ErrNotFound
	}
	cc := *c
	// Compteurs hors du chemin Update, comme le vrai store.
	cc.QuoteCounter = r.s.company.QuoteCounter
	cc.InvoiceCounter = r.s.company.InvoiceCounter
	r.s.company = &cc
	return nil
}

func (r *fakeCompanyRepo) IncrementQuoteCounter(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.company == nil {
		return 0, domain.ErrNotFound
	}
	if r.s.counterConflicts > 0 {
		r.s.counterConflicts--
		return 0, domain.ErrSequenceConflict
	}
	r.s.company.QuoteCounter++
	return r.s.company.QuoteCounter, nil
}

func (r *fakeCompanyRepo) IncrementInvoiceCounter(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.company == nil {
		return 0, domain.ErrNotFound
	}
	if r.s.counterConflicts > 0 {
		r.s.counterConflicts--
		return 0, domain.ErrSequenceConflict
	}
	r.s.company.InvoiceCounter++
	return r.s.company.InvoiceCounter, nil
}
