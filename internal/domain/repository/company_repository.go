package repository

import (
	"context"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
)

// CompanyRepository port de persistance du profil entreprise (singleton).
type CompanyRepository interface {
	// Get retourne le profil unique, ou nil, nil s'il n'a pas encore été créé.
	Get(ctx context.Context) (*entity.Company, error)
	Create(ctx context.Context, company *entity.Company) error
	// Update réécrit les champs d'identité et le taux de TVA par défaut.
	// Les compteurs ne passent jamais par Update : ils ne bougent qu'au
	// travers des incréments atomiques ci-dessous.
	Update(ctx context.Context, company *entity.Company) error

	// IncrementQuoteCounter incrémente et persiste le compteur de devis en une
	// seule instruction conditionnelle côté store, et retourne la valeur
	// allouée. Deux appels concurrents n'observent jamais la même valeur.
	// Retourne domain.ErrSequenceConflict si le store détecte un conflit de
	// sérialisation non résolu.
	IncrementQuoteCounter(ctx context.Context) (int, error)
	IncrementInvoiceCounter(ctx context.Context) (int, error)
}
