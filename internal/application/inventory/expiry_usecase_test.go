package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/domain"
	"github.com/jhoicas/inventario-lotes/internal/domain/entity"
)

func TestListExpiring_OrdenaPorUrgencia(t *testing.T) {
	ctx := context.Background()
	store, ledger := setup(t, inventory.IssuePolicyPartial)
	uc := inventory.NewExpiryUseCase(store)
	today := entity.DateOnly(time.Now().UTC())
	in := func(days int) *time.Time {
		d := today.AddDate(0, 0, days)
		return &d
	}

	leche := createItem(t, store, "Leche", "")
	queso := createItem(t, store, "Queso", "")
	for _, r := range []inventory.ReceiveInput{
		{ItemID: leche.ID, Quantity: dec(2), Expiry: in(10)},
		{ItemID: queso.ID, Quantity: dec(8), Expiry: in(10)},
		{ItemID: leche.ID, Quantity: dec(1), Expiry: in(-2)},
		{ItemID: leche.ID, Quantity: dec(5), Expiry: in(90)},
		{ItemID: queso.ID, Quantity: dec(5)},
	} {
		_, err := ledger.Receive(ctx, r)
		require.NoError(t, err)
	}

	got, err := uc.ListExpiring(ctx, 30)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, -2, got[0].DaysToExpiry)
	assert.Equal(t, 1, got[0].Priority)
	assert.Equal(t, "Queso", got[1].ItemName)
	assert.True(t, got[1].Remaining.Equal(dec(8)))
	assert.Equal(t, "Leche", got[2].ItemName)
	assert.Equal(t, 3, got[2].Priority)

	// Un lote agotado deja de aparecer.
	_, err = ledger.Issue(ctx, inventory.IssueInput{ItemID: leche.ID, Quantity: dec(1)})
	require.NoError(t, err)
	got, err = uc.ListExpiring(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = uc.ListExpiring(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListExpiring_VentanaMaxima(t *testing.T) {
	ctx := context.Background()
	store, ledger := setup(t, inventory.IssuePolicyPartial)
	uc := inventory.NewExpiryUseCase(store)
	item := createItem(t, store, "Miel", "")
	far := entity.DateOnly(time.Now().UTC()).AddDate(9, 0, 0)
	_, err := ledger.Receive(ctx, inventory.ReceiveInput{ItemID: item.ID, Quantity: dec(1), Expiry: &far})
	require.NoError(t, err)

	got, err := uc.ListExpiring(ctx, inventory.MaxExpiryWindowDays)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.DaysBetween(time.Now().UTC(), far), got[0].DaysToExpiry)
	assert.Greater(t, got[0].DaysToExpiry, 3200)

	_, err = uc.ListExpiring(ctx, inventory.MaxExpiryWindowDays+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ListExpiring(ctx, 1_000_000)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
