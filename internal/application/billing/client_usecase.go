package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/repository"
)

// ClientUseCase CRUD des fiches clients. Les fiches sont vivantes : les
// modifier n'affecte jamais les snapshots des factures déjà émises.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
	now        func() time.Time
}

func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo, now: time.Now}
}

// Create crée une fiche client. Le nom est obligatoire, l'email unique.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Email != "" {
		existing, err := uc.clientRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := uc.now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		TaxID:     in.TaxID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return clientToResponse(client), nil
}

// Get obtient une fiche client par ID.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return clientToResponse(client), nil
}

// GetByEmail obtient une fiche client par adresse email.
func (uc *ClientUseCase) GetByEmail(ctx context.Context, email string) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return clientToResponse(client), nil
}

// List liste toutes les fiches clients.
func (uc *ClientUseCase) List(ctx context.Context) ([]*dto.ClientResponse, error) {
	list, err := uc.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, clientToResponse(c))
	}
	return out, nil
}

// Update modifie une fiche client. Les documents émis gardent leurs snapshots.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		client.Name = name
	}
	if in.Email != nil && *in.Email != client.Email {
		if *in.Email != "" {
			existing, err := uc.clientRepo.GetByEmail(ctx, *in.Email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != client.ID {
				return nil, domain.ErrDuplicate
			}
		}
		client.Email = *in.Email
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	if in.TaxID != nil {
		client.TaxID = *in.TaxID
	}
	client.UpdatedAt = uc.now()
	if err := uc.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return clientToResponse(client), nil
}

// Delete supprime une fiche client. Les factures émises ne référencent que
// leurs snapshots et restent intactes.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	client, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	return uc.clientRepo.Delete(ctx, client.ID)
}

func (uc *ClientUseCase) load(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func clientToResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		TaxID:   c.TaxID,
	}
}
