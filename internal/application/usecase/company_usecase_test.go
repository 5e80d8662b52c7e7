package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
)

// fakeCompanyRepo store en mémoire du profil singleton.
type fakeCompanyRepo struct {
	mu      sync.Mutex
	company *entity.Company
}

func (r *fakeCompanyRepo) Get(_ context.Context) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.company == nil {
		return nil, nil
	}
	c := *r.company
	return &c, nil
}

func (r *fakeCompanyRepo) Create(_ context.Context, company *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.company != nil {
		return domain.ErrDuplicate
	}
	c := *company
	r.company = &c
	return nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, company *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.company == nil {
		return domain.ErrNotFound
	}
	c := *company
	// Les compteurs ne passent pas par Update.
	c.QuoteCounter = r.company.QuoteCounter
	c.InvoiceCounter = r.company.InvoiceCounter
	r.company = &c
	return nil
}

func (r *fakeCompanyRepo) IncrementQuoteCounter(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.company.QuoteCounter++
	return r.company.QuoteCounter, nil
}

func (r *fakeCompanyRepo) IncrementInvoiceCounter(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.company.InvoiceCounter++
	return r.company.InvoiceCounter, nil
}

// Bootstrap sur base vierge : le profil par défaut est créé.
func TestCompanyBootstrap_CreeLeProfilParDefaut(t *testing.T) {
	uc := NewCompanyUseCase(&fakeCompanyRepo{})

	resp, err := uc.Bootstrap(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "DeviSmart", resp.Name)
	assert.True(t, resp.DefaultTaxRate.Equal(decimal.NewFromInt(19)), "taux par défaut attendu 19, obtenu %s", resp.DefaultTaxRate)
	assert.Equal(t, 0, resp.QuoteCounter)
	assert.Equal(t, 0, resp.InvoiceCounter)

	// Second appel : même profil, pas de doublon.
	again, err := uc.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, resp.ID, again.ID)
}

// Save remplace l'identité mais laisse les compteurs intacts.
func TestCompanySave_PreserveLesCompteurs(t *testing.T) {
	repo := &fakeCompanyRepo{}
	uc := NewCompanyUseCase(repo)

	_, err := uc.Bootstrap(context.Background())
	require.NoError(t, err)

	// Des numéros ont déjà été alloués.
	_, err = repo.IncrementQuoteCounter(context.Background())
	require.NoError(t, err)
	_, err = repo.IncrementInvoiceCounter(context.Background())
	require.NoError(t, err)
	_, err = repo.IncrementInvoiceCounter(context.Background())
	require.NoError(t, err)

	resp, err := uc.Save(context.Background(), dto.SaveCompanyRequest{
		Name:           "Atelier Essghaier",
		Address:        "14 avenue Habib Bourguiba",
		City:           "Tunis",
		DefaultTaxRate: decimal.NewFromInt(7),
	})
	require.NoError(t, err)

	assert.Equal(t, "Atelier Essghaier", resp.Name)
	assert.True(t, resp.DefaultTaxRate.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 1, resp.QuoteCounter, "le compteur de devis ne doit pas bouger")
	assert.Equal(t, 2, resp.InvoiceCounter, "le compteur de factures ne doit pas bouger")
}

func TestCompanySave_NomVide_Refuse(t *testing.T) {
	uc := NewCompanyUseCase(&fakeCompanyRepo{})

	_, err := uc.Save(context.Background(), dto.SaveCompanyRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompanySave_TauxNegatif_Refuse(t *testing.T) {
	uc := NewCompanyUseCase(&fakeCompanyRepo{})

	_, err := uc.Save(context.Background(), dto.SaveCompanyRequest{
		Name:           "DeviSmart",
		DefaultTaxRate: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompanyDefaultTaxRate(t *testing.T) {
	uc := NewCompanyUseCase(&fakeCompanyRepo{})

	rate, err := uc.DefaultTaxRate(context.Background())
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(19)))
}
