package repository

import (
	"context"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
)

// QuoteRepository port de persistance des devis et de leurs lignes.
// L'implémentation vit dans infrastructure. Les Get* retournent nil, nil si
// l'entité n'existe pas.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// GetForUpdate charge le devis en le verrouillant pour la transaction
	// courante. À n'utiliser que sur un repository lié à une transaction.
	GetForUpdate(ctx context.Context, id string) (*entity.Quote, error)
	List(ctx context.Context) ([]*entity.Quote, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Quote, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Quote, error)
	// Update met à jour l'en-tête (date de validité, client, taux TVA).
	Update(ctx context.Context, quote *entity.Quote) error
	// UpdateStatus change le statut en une instruction conditionnelle : le
	// devis ne passe à `to` que s'il est encore dans l'état `from`. Retourne
	// domain.ErrInvalidTransition si un appel concurrent a gagné la course,
	// domain.ErrNotFound si le devis n'existe pas.
	UpdateStatus(ctx context.Context, id, from, to string) error
	// Delete supprime le devis et ses lignes (cascade descendante).
	Delete(ctx context.Context, id string) error

	InsertLine(ctx context.Context, line *entity.QuoteLine) error
	GetLine(ctx context.Context, lineID string) (*entity.QuoteLine, error)
	ListLines(ctx context.Context, quoteID string) ([]entity.QuoteLine, error)
	ListAllLines(ctx context.Context) ([]entity.QuoteLine, error)
	UpdateLine(ctx context.Context, line *entity.QuoteLine) error
	DeleteLine(ctx context.Context, lineID string) error
}
