package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
)

// sequenceRetries nombre de tentatives sur conflit d'allocation avant de
// remonter un échec de persistance.
const sequenceRetries = 3

// NumberSequence attribue les numéros de document séquentiels, sans trou,
// à partir des deux compteurs du profil entreprise. L'incrément est une
// instruction conditionnelle unique côté store : le numéro n'est retourné
// qu'une fois le compteur durablement engagé.
type NumberSequence struct {
	companyRepo repository.CompanyRepository
	now         func() time.Time
}

// NewNumberSequence construit le service de numérotation.
func NewNumberSequence(companyRepo repository.CompanyRepository) *NumberSequence {
	return &NumberSequence{companyRepo: companyRepo, now: time.Now}
}

// NextQuoteNumber retourne le prochain numéro de devis (DEV-<année>-<NNNN>).
func (s *NumberSequence) NextQuoteNumber(ctx context.Context) (string, error) {
	n, err := s.increment(ctx, s.companyRepo.IncrementQuoteCounter)
	if err != nil {
		return "", err
	}
	return entity.FormatQuoteNumber(s.now().Year(), n), nil
}

// NextInvoiceNumber retourne le prochain numéro de facture (FAC-<année>-<NNNN>).
func (s *NumberSequence) NextInvoiceNumber(ctx context.Context) (string, error) {
	n, err := s.increment(ctx, s.companyRepo.IncrementInvoiceCounter)
	if err != nil {
		return "", err
	}
	return entity.FormatInvoiceNumber(s.now().Year(), n), nil
}

// WithRepo retourne une séquence liée à un autre repository entreprise
// (typiquement celui d'une transaction en cours).
func (s *NumberSequence) WithRepo(companyRepo repository.CompanyRepository) *NumberSequence {
	return &NumberSequence{companyRepo: companyRepo, now: s.now}
}

func (s *NumberSequence) increment(ctx context.Context, inc func(context.Context) (int, error)) (int, error) {
	if _, err := EnsureCompany(ctx, s.companyRepo); err != nil {
		return 0, err
	}
	var lastErr error
	for attempt := 0; attempt < sequenceRetries; attempt++ {
		n, err := inc(ctx)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, domain.ErrSequenceConflict) {
			return 0, err
		}
		lastErr = err
	}
	return 0, fmt.Errorf("%w: allocation du compteur après %d tentatives: %v",
		domain.ErrPersistence, sequenceRetries, lastErr)
}

// EnsureCompany retourne le profil entreprise, en le créant avec ses valeurs
// par défaut s'il n'existe pas encore.
func EnsureCompany(ctx context.Context, repo repository.CompanyRepository) (*entity.Company, error) {
	company, err := repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if company != nil {
		return company, nil
	}
	company = entity.DefaultCompany(time.Now())
	company.ID = uuid.New().String()
	if err := repo.Create(ctx, company); err != nil {
		// Création concurrente : relire plutôt qu'échouer.
		if errors.Is(err, domain.ErrDuplicate) {
			return repo.Get(ctx)
		}
		return nil, err
	}
	return company, nil
}
