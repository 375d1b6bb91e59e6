package fulfillment_test

import (
	"context"
	"testing"

	"github.com/jhoicas/fulfillment-ledger/internal/application/audit"
	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_FullyAvailable(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "10")
	f.seedOrder("o1", entity.OrderStatusConfirmed, lineSpec{itemX, "5"})

	res, err := f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	assert.True(t, res.FullyAllocated)
	assert.Equal(t, entity.OrderStatusAllocated, res.Status)
	require.Len(t, res.Lines, 1)
	assert.True(t, res.Lines[0].Allocated.Equal(d("5")))
	assert.True(t, res.Lines[0].Shortfall.IsZero())

	o := f.order(t, "o1")
	assert.Equal(t, entity.OrderStatusAllocated, o.Status)
	assert.Equal(t, entity.LineStatusAllocated, o.Lines[0].Status)
	assert.True(t, o.Lines[0].QtyAllocated.Equal(d("5")))
	// La asignación no toca saldos.
	assert.True(t, f.balance(t, itemX, locA).Equal(d("10")))
	assert.Equal(t, 1, f.countAudit(audit.ActionOrderAllocated))
}

func TestAllocate_PartialKeepsOrderConfirmed(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "4")
	f.seedOrder("o1", entity.OrderStatusConfirmed, lineSpec{itemX, "10"})

	res, err := f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	assert.False(t, res.FullyAllocated)
	assert.Equal(t, entity.OrderStatusConfirmed, res.Status)
	assert.True(t, res.Lines[0].Allocated.Equal(d("4")))
	assert.True(t, res.Lines[0].Shortfall.Equal(d("6")))
	assert.Equal(t, entity.LineStatusOpen, res.Lines[0].Status)

	// Reintento después de reponer: solo asigna lo pendiente.
	f.receive(t, itemX, locB, "20")
	res, err = f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	assert.True(t, res.FullyAllocated)
	assert.True(t, res.Lines[0].Needed.Equal(d("6")))
	assert.True(t, res.Lines[0].Allocated.Equal(d("6")))
	assert.True(t, res.Lines[0].QtyAllocated.Equal(d("10")))
	assert.Equal(t, entity.OrderStatusAllocated, f.order(t, "o1").Status)
}

func TestAllocate_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "10")
	f.seedOrder("o1", entity.OrderStatusConfirmed, lineSpec{itemX, "5"})

	_, err := f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	res, err := f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	assert.True(t, res.FullyAllocated)
	assert.True(t, res.Lines[0].Allocated.IsZero())
	assert.True(t, res.Lines[0].QtyAllocated.Equal(d("5")))
	assert.True(t, f.order(t, "o1").Lines[0].QtyAllocated.Equal(d("5")))
	assert.Equal(t, 1, f.countAudit(audit.ActionOrderAllocated))
}

func TestAllocate_NeverOverbooksAcrossOrders(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "7")
	f.seedOrder("o1", entity.OrderStatusConfirmed, lineSpec{itemX, "5"})
	f.seedOrder("o2", entity.OrderStatusConfirmed, lineSpec{itemX, "5"})
	f.seedOrder("o3", entity.OrderStatusConfirmed, lineSpec{itemX, "1"})

	r1, err := f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	r2, err := f.allocate.Allocate(context.Background(), tenant, "o2", user)
	require.NoError(t, err)
	r3, err := f.allocate.Allocate(context.Background(), tenant, "o3", user)
	require.NoError(t, err)

	assert.True(t, r1.FullyAllocated)
	assert.False(t, r2.FullyAllocated)
	assert.True(t, r2.Lines[0].Allocated.Equal(d("2")))
	assert.False(t, r3.FullyAllocated)
	assert.True(t, r3.Lines[0].Allocated.IsZero())

	// Reintentar o2 no debe contar dos veces su propia reserva.
	r2, err = f.allocate.Allocate(context.Background(), tenant, "o2", user)
	require.NoError(t, err)
	assert.True(t, r2.Lines[0].Allocated.IsZero())
	assert.True(t, r2.Lines[0].QtyAllocated.Equal(d("2")))
}

func TestAllocate_LinesOfSameItemShareAvailability(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "7")
	f.receive(t, itemY, locA, "1")
	f.seedOrder("o1", entity.OrderStatusConfirmed, lineSpec{itemX, "4"}, lineSpec{itemY, "1"}, lineSpec{itemX, "4"})

	res, err := f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	require.Len(t, res.Lines, 3)
	assert.True(t, res.Lines[0].Allocated.Equal(d("4")))
	assert.True(t, res.Lines[1].Allocated.Equal(d("1")))
	assert.True(t, res.Lines[2].Allocated.Equal(d("3")))
	assert.True(t, res.Lines[2].Shortfall.Equal(d("1")))
	assert.False(t, res.FullyAllocated)
}

func TestAllocate_EligibleLocationsOnly(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locR, "50")
	f.receive(t, itemX, locS, "2")
	f.seedOrder("o1", entity.OrderStatusConfirmed, lineSpec{itemX, "5"})

	res, err := f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	assert.True(t, res.Lines[0].Allocated.Equal(d("2")))

	f.apply(t, inventory.EventInput{Type: entity.EventTypeMove, ItemID: itemX, Qty: d("3"), FromLocationID: locR, ToLocationID: locA})
	res, err = f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	assert.True(t, res.FullyAllocated)
}

func TestAllocate_RejectsOtherStatuses(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "10")
	for _, st := range []entity.OrderStatus{
		entity.OrderStatusDraft, entity.OrderStatusPicking, entity.OrderStatusShipped, entity.OrderStatusCancelled,
	} {
		f.seedOrder(string(st), st, lineSpec{itemX, "1"})
		_, err := f.allocate.Allocate(context.Background(), tenant, string(st), user)
		var ise *domain.InvalidStateError
		require.ErrorAs(t, err, &ise, "%s", st)
		assert.Equal(t, string(st), ise.Status)
		assert.Equal(t, st, f.order(t, string(st)).Status)
	}

	_, err := f.allocate.Allocate(context.Background(), tenant, "nada", user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.allocate.Allocate(context.Background(), "otro", string(entity.OrderStatusDraft), user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
