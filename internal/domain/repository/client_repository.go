package repository

import (
	"context"

	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
)

// ClientRepository port de persistance des clients (CRUD simple).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
}
