package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/billing"
	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
)

// CompanyUseCase profil de l'entreprise émettrice (singleton). La sauvegarde
// ne touche jamais aux compteurs de numérotation : ils n'appartiennent qu'à
// l'allocation atomique des numéros.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
	now         func() time.Time
}

func NewCompanyUseCase(companyRepo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo, now: time.Now}
}

// Bootstrap garantit l'existence du profil au démarrage, avec les valeurs
// par défaut si la base est vierge.
func (uc *CompanyUseCase) Bootstrap(ctx context.Context) (*dto.CompanyResponse, error) {
	company, err := billing.EnsureCompany(ctx, uc.companyRepo)
	if err != nil {
		return nil, err
	}
	return companyToResponse(company), nil
}

// Get retourne le profil, créé à la demande s'il n'existe pas encore.
func (uc *CompanyUseCase) Get(ctx context.Context) (*dto.CompanyResponse, error) {
	return uc.Bootstrap(ctx)
}

// Save remplace les champs du profil. Compteurs préservés.
func (uc *CompanyUseCase) Save(ctx context.Context, in dto.SaveCompanyRequest) (*dto.CompanyResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.DefaultTaxRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	company, err := billing.EnsureCompany(ctx, uc.companyRepo)
	if err != nil {
		return nil, err
	}
	company.Name = strings.TrimSpace(in.Name)
	company.Address = in.Address
	company.PostalCode = in.PostalCode
	company.City = in.City
	company.Phone = in.Phone
	company.Email = in.Email
	company.TaxID = in.TaxID
	company.TradeRegister = in.TradeRegister
	company.Website = in.Website
	company.DefaultTaxRate = in.DefaultTaxRate
	company.UpdatedAt = uc.now()
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return companyToResponse(company), nil
}

// DefaultTaxRate taux de TVA par défaut en pourcentage.
func (uc *CompanyUseCase) DefaultTaxRate(ctx context.Context) (decimal.Decimal, error) {
	company, err := billing.EnsureCompany(ctx, uc.companyRepo)
	if err != nil {
		return decimal.Zero, err
	}
	return company.DefaultTaxRate, nil
}

func companyToResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:             c.ID,
		Name:           c.Name,
		Address:        c.Address,
		PostalCode:     c.PostalCode,
		City:           c.City,
		Phone:          c.Phone,
		Email:          c.Email,
		TaxID:          c.TaxID,
		TradeRegister:  c.TradeRegister,
		Website:        c.Website,
		DefaultTaxRate: c.DefaultTaxRate,
		QuoteCounter:   c.QuoteCounter,
		InvoiceCounter: c.InvoiceCounter,
	}
}
