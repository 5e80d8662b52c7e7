package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
)

func newClientFixture() (*ClientUseCase, *fakeStore) {
	store := newFakeStore()
	return NewClientUseCase(store.clientRepo()), store
}

func TestClientCreate(t *testing.T) {
	uc, _ := newClientFixture()

	resp, err := uc.Create(context.Background(), dto.CreateClientRequest{
		Name:    "  Boulangerie Martin  ",
		Email:   "contact@martin.fr",
		Phone:   "+33 2 40 00 00 00",
		Address: "12 Place du Marché, 44000 Nantes",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Boulangerie Martin", resp.Name, "le nom doit être nettoyé des espaces")
	assert.Equal(t, "contact@martin.fr", resp.Email)
}

func TestClientCreate_NomVide_Refuse(t *testing.T) {
	uc, _ := newClientFixture()

	_, err := uc.Create(context.Background(), dto.CreateClientRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClientCreate_EmailEnDoublon_Refuse(t *testing.T) {
	uc, _ := newClientFixture()

	_, err := uc.Create(context.Background(), dto.CreateClientRequest{Name: "A", Email: "a@b.fr"})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), dto.CreateClientRequest{Name: "B", Email: "a@b.fr"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestClientGetByEmail(t *testing.T) {
	uc, _ := newClientFixture()

	created, err := uc.Create(context.Background(), dto.CreateClientRequest{Name: "A", Email: "a@b.fr"})
	require.NoError(t, err)

	found, err := uc.GetByEmail(context.Background(), "a@b.fr")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = uc.GetByEmail(context.Background(), "inconnu@b.fr")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientUpdate_ChampsPartiels(t *testing.T) {
	uc, _ := newClientFixture()

	created, err := uc.Create(context.Background(), dto.CreateClientRequest{
		Name:  "Atelier Lumière",
		Email: "hello@lumiere.fr",
		Phone: "+33 1 00 00 00 00",
	})
	require.NoError(t, err)

	phone := "+33 1 11 11 11 11"
	updated, err := uc.Update(context.Background(), created.ID, dto.UpdateClientRequest{Phone: &phone})
	require.NoError(t, err)

	// Seul le téléphone change, le reste est conservé.
	assert.Equal(t, "Atelier Lumière", updated.Name)
	assert.Equal(t, "hello@lumiere.fr", updated.Email)
	assert.Equal(t, phone, updated.Phone)
}

func TestClientDelete(t *testing.T) {
	uc, _ := newClientFixture()

	created, err := uc.Create(context.Background(), dto.CreateClientRequest{Name: "Ephémère"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID))

	_, err = uc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, uc.Delete(context.Background(), created.ID), domain.ErrNotFound)
}
