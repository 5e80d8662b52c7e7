package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/dto"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/entity"
	"github.com/KhaledEssghaier/DeviSmart/internal/domain/workflow"
)

func newInvoiceFixture(t *testing.T) (*fakeStore, *InvoiceUseCase, *entity.Client) {
	t.Helper()
	store := newFakeStore()
	client := &entity.Client{
		ID:      uuid.New().String(),
		Name:    "Boulangerie Martin",
		Email:   "compta@martin.fr",
		Phone:   "+33 2 34 56 78 90",
		Address: "12 Place du Marché, 44000 Nantes",
		TaxID:   "FR11223344556",
	}
	require.NoError(t, store.clientRepo().Create(context.Background(), client))
	uc := NewInvoiceUseCase(store.txRunner(), store.invoiceRepo(), store.clientRepo())
	return store, uc, client
}

func TestInvoiceUseCase_Create(t *testing.T) {
	_, uc, client := newInvoiceFixture(t)
	ctx := context.Background()

	resp, err := uc.Create(ctx, dto.CreateInvoiceRequest{
		ClientID:     client.ID,
		PaymentTerms: "Paiement à 30 jours",
		Lines: []dto.InvoiceLineRequest{
			{Designation: "Prestation conseil", Quantity: dec("2"), UnitPrice: dec("100")},
			{Designation: "Licence annuelle", Quantity: dec("1"), UnitPrice: dec("50")},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Number, "FAC-")
	assert.Equal(t, workflow.InvoiceStatusUnpaid, resp.Status)
	assert.Equal(t, "Boulangerie Martin", resp.ClientName)
	assert.Equal(t, "DeviSmart", resp.CompanyName)
	assert.True(t, resp.TaxRate.Equal(dec("0.19")))
	assert.True(t, resp.TotalExclTax.Equal(dec("250")))
	assert.True(t, resp.TaxAmount.Equal(dec("47.5")))
	assert.True(t, resp.TotalInclTax.Equal(dec("297.5")))
	assert.Equal(t, "Paiement à 30 jours", resp.PaymentTerms)
}

func TestInvoiceUseCase_CreateClientInconnu(t *testing.T) {
	_, uc, _ := newInvoiceFixture(t)
	_, err := uc.Create(context.Background(), dto.CreateInvoiceRequest{ClientID: "absent"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestInvoiceUseCase_SnapshotImmuable(t *testing.T) {
	store, uc, client := newInvoiceFixture(t)
	ctx := context.Background()

	resp, err := uc.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: client.ID,
		Lines:    []dto.InvoiceLineRequest{{Designation: "Forfait", Quantity: dec("1"), UnitPrice: dec("100")}},
	})
	require.NoError(t, err)

	// La fiche client vivante change après l'émission.
	client.Name = "Boulangerie Martin et Fils"
	client.Address = "99 Rue Nouvelle, 44100 Nantes"
	require.NoError(t, store.clientRepo().Update(ctx, client))

	after, err := uc.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Boulangerie Martin", after.ClientName)
	assert.Equal(t, "12 Place du Marché, 44000 Nantes", after.ClientAddr)
}

func TestInvoiceUseCase_CreateManual(t *testing.T) {
	_, uc, _ := newInvoiceFixture(t)
	ctx := context.Background()

	rate := dec("0.10")
	resp, err := uc.CreateManual(ctx, dto.CreateManualInvoiceRequest{
		ClientName: "Passage SARL",
		TaxRate:    &rate,
		Lines:      []dto.InvoiceLineRequest{{Designation: "Intervention", Quantity: dec("1"), UnitPrice: dec("200")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Passage SARL", resp.ClientName)
	assert.Empty(t, resp.ClientID)
	assert.True(t, resp.TaxRate.Equal(dec("0.10")))
	assert.True(t, resp.TotalInclTax.Equal(dec("220")))
}

func TestInvoiceUseCase_CreateManualNomParDefaut(t *testing.T) {
	_, uc, _ := newInvoiceFixture(t)
	resp, err := uc.CreateManual(context.Background(), dto.CreateManualInvoiceRequest{
		Lines: []dto.InvoiceLineRequest{{Designation: "Divers", Quantity: dec("1"), UnitPrice: dec("10")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Client", resp.ClientName)
	// Sans surcharge, le taux du profil entreprise s'applique (fraction).
	assert.True(t, resp.TaxRate.Equal(dec("0.19")))
}

func TestInvoiceUseCase_MutationsDeLignes(t *testing.T) {
	_, uc, client := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: client.ID,
		Lines: []dto.InvoiceLineRequest{
			{Designation: "Prestation conseil", Quantity: dec("2"), UnitPrice: dec("100")},
		},
	})
	require.NoError(t, err)

	// Ajout : les totaux suivent dans la même opération.
	withLine, err := uc.AddLine(ctx, created.ID, dto.InvoiceLineRequest{
		Designation: "Licence annuelle", Quantity: dec("1"), UnitPrice: dec("50"),
	})
	require.NoError(t, err)
	require.Len(t, withLine.Lines, 2)
	assert.True(t, withLine.TotalExclTax.Equal(dec("250")))
	assert.True(t, withLine.TotalInclTax.Equal(dec("297.5")))

	// Modification d'une ligne.
	lineID := withLine.Lines[0].ID
	updated, err := uc.UpdateLine(ctx, created.ID, lineID, dto.InvoiceLineRequest{
		Designation: "Prestation conseil", Quantity: dec("3"), UnitPrice: dec("100"),
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalExclTax.Equal(dec("350")))

	// Suppression : 50 HT restants, 9.500 TVA, 59.500 TTC.
	removed, err := uc.RemoveLine(ctx, created.ID, lineID)
	require.NoError(t, err)
	require.Len(t, removed.Lines, 1)
	assert.True(t, removed.TotalExclTax.Equal(dec("50")), "HT: %s", removed.TotalExclTax)
	assert.True(t, removed.TaxAmount.Equal(dec("9.5")), "TVA: %s", removed.TaxAmount)
	assert.True(t, removed.TotalInclTax.Equal(dec("59.5")), "TTC: %s", removed.TotalInclTax)
}

func TestInvoiceUseCase_QuantiteFractionnaire(t *testing.T) {
	_, uc, client := newInvoiceFixture(t)
	resp, err := uc.Create(context.Background(), dto.CreateInvoiceRequest{
		ClientID: client.ID,
		Lines:    []dto.InvoiceLineRequest{{Designation: "Main d'œuvre", Quantity: dec("1.5"), UnitPrice: dec("33.333")}},
	})
	require.NoError(t, err)
	// 1.5 × 33.333 = 49.9995, arrondi demi-supérieur à 3 décimales.
	assert.True(t, resp.Lines[0].TotalExclTax.Equal(dec("50.000")), "ligne: %s", resp.Lines[0].TotalExclTax)
}

func TestInvoiceUseCase_RecomputeIdempotent(t *testing.T) {
	_, uc, client := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: client.ID,
		Lines:    []dto.InvoiceLineRequest{{Designation: "Forfait", Quantity: dec("3"), UnitPrice: dec("0.3333")}},
	})
	require.NoError(t, err)

	first, err := uc.RecomputeTotals(ctx, created.ID)
	require.NoError(t, err)
	second, err := uc.RecomputeTotals(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, first.TotalExclTax.Equal(second.TotalExclTax))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
	assert.True(t, first.TotalInclTax.Equal(second.TotalInclTax))
	assert.True(t, created.TotalExclTax.Equal(first.TotalExclTax))
}

func TestInvoiceUseCase_ActionsDeStatut(t *testing.T) {
	_, uc, client := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateInvoiceRequest{ClientID: client.ID})
	require.NoError(t, err)

	// Ensemble plat : chaque action est permise quel que soit l'état courant.
	paid, err := uc.MarkPaid(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.InvoiceStatusPaid, paid.Status)

	cancelled, err := uc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.InvoiceStatusCancelled, cancelled.Status)

	unpaid, err := uc.MarkUnpaid(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.InvoiceStatusUnpaid, unpaid.Status)

	overdue, err := uc.MarkOverdue(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.InvoiceStatusOverdue, overdue.Status)
}

func TestInvoiceUseCase_GetByNumber(t *testing.T) {
	_, uc, client := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateInvoiceRequest{ClientID: client.ID})
	require.NoError(t, err)

	got, err := uc.GetByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = uc.GetByNumber(ctx, "FAC-1999-9999")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestInvoiceUseCase_Statistics(t *testing.T) {
	_, uc, client := newInvoiceFixture(t)
	ctx := context.Background()

	mk := func(price string) *dto.InvoiceResponse {
		resp, err := uc.Create(ctx, dto.CreateInvoiceRequest{
			ClientID: client.ID,
			Lines:    []dto.InvoiceLineRequest{{Designation: "Forfait", Quantity: dec("1"), UnitPrice: dec(price)}},
		})
		require.NoError(t, err)
		return resp
	}

	paid := mk("100")      // TTC 119
	mk("200")              // TTC 238, reste NON_PAYEE
	overdue := mk("50")    // TTC 59.5

	_, err := uc.MarkPaid(ctx, paid.ID)
	require.NoError(t, err)
	_, err = uc.MarkOverdue(ctx, overdue.ID)
	require.NoError(t, err)

	stats, err := uc.Statistics(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Revenue.Equal(dec("119")), "revenue: %s", stats.Revenue)
	assert.True(t, stats.Pending.Equal(dec("238")), "pending: %s", stats.Pending)
	assert.True(t, stats.Overdue.Equal(dec("59.5")), "overdue: %s", stats.Overdue)
}

func TestInvoiceUseCase_UpdateStatutInconnuRefuse(t *testing.T) {
	_, uc, client := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateInvoiceRequest{ClientID: client.ID})
	require.NoError(t, err)

	bad := "PERDUE"
	_, err = uc.Update(ctx, created.ID, dto.UpdateInvoiceRequest{Status: &bad})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Une ligne est commitée par un autre appelant pendant qu'un Update d'en-tête
// est en vol : la réécriture de l'en-tête doit repartir des lignes relues
// sous verrou, pas réécrire les totaux de sa lecture d'origine.
func TestInvoiceUseCase_UpdateNecraseParUneLigneConcurrente(t *testing.T) {
	store, uc, client := newInvoiceFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: client.ID,
		Lines:    []dto.InvoiceLineRequest{{Designation: "Prestation", Quantity: dec("1"), UnitPrice: dec("100")}},
	})
	require.NoError(t, err)
	require.True(t, created.TotalInclTax.Equal(dec("119")))

	// La ligne concurrente est déjà commitée, l'en-tête pas encore recalculé :
	// exactement l'état que l'Update en vol observerait au milieu de la course.
	extra := entity.InvoiceLine{
		ID:          uuid.New().String(),
		InvoiceID:   created.ID,
		Designation: "Option",
		Quantity:    dec("3"),
		UnitPrice:   dec("50"),
	}
	require.NoError(t, extra.ComputeTotal())
	require.NoError(t, store.invoiceRepo().InsertLine(ctx, &extra))

	notes := "Paiement sous quinzaine"
	updated, err := uc.Update(ctx, created.ID, dto.UpdateInvoiceRequest{Notes: &notes})
	require.NoError(t, err)

	// 100 + 150 = 250 HT, 47.500 TVA, 297.500 TTC : la ligne survit et les
	// totaux persistés couvrent les deux lignes.
	assert.Equal(t, notes, updated.Notes)
	assert.True(t, updated.TotalExclTax.Equal(dec("250")), "HT: %s", updated.TotalExclTax)
	assert.True(t, updated.TotalInclTax.Equal(dec("297.5")), "TTC: %s", updated.TotalInclTax)

	persisted, err := store.invoiceRepo().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Lines, 2)
	assert.True(t, persisted.TotalExclTax.Equal(dec("250")))
	assert.True(t, persisted.TotalInclTax.Equal(dec("297.5")))
}
