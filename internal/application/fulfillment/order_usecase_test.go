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

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	f.seedOrder("empty", entity.OrderStatusDraft)
	f.seedOrder("zero", entity.OrderStatusDraft, lineSpec{itemX, "2"}, lineSpec{itemY, "0"})
	f.seedOrder("ok", entity.OrderStatusDraft, lineSpec{itemX, "2"})

	_, err := f.orders.Confirm(context.Background(), tenant, "empty", user)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.orders.Confirm(context.Background(), tenant, "zero", user)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.OrderStatusDraft, f.order(t, "zero").Status)

	o, err := f.orders.Confirm(context.Background(), tenant, "ok", user)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, o.Status)
	assert.Equal(t, entity.OrderStatusConfirmed, f.order(t, "ok").Status)
	assert.Equal(t, 1, f.countAudit(audit.ActionOrderConfirmed))

	_, err = f.orders.Confirm(context.Background(), tenant, "ok", user)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_CascadesAndReleasesReservation(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "5")
	f.allocated(t, "o1", lineSpec{itemX, "5"})
	task, err := f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	f.seedOrder("o2", entity.OrderStatusConfirmed, lineSpec{itemX, "5"})
	res, err := f.allocate.Allocate(context.Background(), tenant, "o2", user)
	require.NoError(t, err)
	assert.True(t, res.Lines[0].Allocated.IsZero())

	o, err := f.orders.Cancel(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, o.Status)
	assert.Equal(t, entity.LineStatusCancelled, f.order(t, "o1").Lines[0].Status)

	tasks, err := f.picks.ListByOrder(context.Background(), tenant, "o1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, entity.PickTaskStatusCancelled, tasks[0].Status)

	res, err = f.allocate.Allocate(context.Background(), tenant, "o2", user)
	require.NoError(t, err)
	assert.True(t, res.FullyAllocated)

	_, err = f.orders.Cancel(context.Background(), tenant, "o1", user)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_DeliveredIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.seedOrder("o1", entity.OrderStatusDelivered, lineSpec{itemX, "1"})

	_, err := f.orders.Cancel(context.Background(), tenant, "o1", user)
	var ite *domain.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, string(entity.OrderStatusDelivered), ite.From)
	assert.Equal(t, entity.OrderStatusDelivered, f.order(t, "o1").Status)
	assert.Zero(t, f.countAudit(audit.ActionOrderCancelled))
}

func TestAdvance_RejectsInvalidTargets(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "5")
	f.allocated(t, "o1", lineSpec{itemX, "5"})

	_, err := f.orders.Advance(context.Background(), tenant, "o1", entity.OrderStatusPicking, user)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.orders.Advance(context.Background(), tenant, "o1", entity.OrderStatusShipped, user)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	_, err = f.orders.Advance(context.Background(), tenant, "o1", entity.OrderStatusPacked, user)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, entity.OrderStatusPicking, f.order(t, "o1").Status)
}

// Recorrido completo: saldo, consumo, asignación, picking, despacho y entrega.
func TestFulfillmentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.receive(t, itemX, locA, "10")
	f.apply(t, inventory.EventInput{Type: entity.EventTypeConsume, ItemID: itemX, Qty: d("3"), FromLocationID: locA})
	require.True(t, f.balance(t, itemX, locA).Equal(d("7")))
	require.Equal(t, 2, f.store.EventCount())

	f.seedOrder("O", entity.OrderStatusConfirmed, lineSpec{itemX, "5"})
	res, err := f.allocate.Allocate(ctx, tenant, "O", user)
	require.NoError(t, err)
	assert.True(t, res.FullyAllocated)
	assert.True(t, res.Lines[0].QtyAllocated.Equal(d("5")))
	assert.Equal(t, entity.LineStatusAllocated, res.Lines[0].Status)
	assert.Equal(t, entity.OrderStatusAllocated, res.Status)

	avail, err := f.query.GetAvailableBalance(ctx, tenant, site, itemX)
	require.NoError(t, err)
	assert.True(t, avail.Equal(d("7")))

	task, err := f.picks.CreatePickTask(ctx, tenant, "O", user)
	require.NoError(t, err)
	require.Len(t, task.Lines, 1)
	assert.Equal(t, locA, task.Lines[0].LocationID)
	assert.True(t, task.Lines[0].QtyBase.Equal(d("5")))
	assert.Equal(t, entity.OrderStatusPicking, f.order(t, "O").Status)

	_, err = f.picks.CreatePickTask(ctx, tenant, "O", user)
	var ate *domain.ActiveTaskExistsError
	require.ErrorAs(t, err, &ate)

	_, err = f.picks.CompletePickTask(ctx, tenant, task.ID, locS, user)
	require.NoError(t, err)
	assert.True(t, f.balance(t, itemX, locA).Equal(d("2")))
	assert.True(t, f.balance(t, itemX, locS).Equal(d("5")))

	o, err := f.orders.Advance(ctx, tenant, "O", entity.OrderStatusPacked, user)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPacked, o.Status)

	o, err = f.orders.Advance(ctx, tenant, "O", entity.OrderStatusShipped, user)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, o.Status)
	assert.Equal(t, entity.LineStatusShipped, o.Lines[0].Status)
	assert.True(t, o.Lines[0].QtyShipped.Equal(d("5")))
	assert.True(t, f.balance(t, itemX, locS).IsZero())

	evs, err := f.ledger.ListEvents(ctx, tenant, site, itemX, 1)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, entity.EventTypeIssue, evs[0].Type)
	assert.Equal(t, locS, evs[0].FromLocationID)
	assert.Equal(t, "O", evs[0].ReferenceID)

	// Despachada ya no reserva: lo disponible es el saldo físico restante.
	avail, err = f.query.GetAvailableBalance(ctx, tenant, site, itemX)
	require.NoError(t, err)
	assert.True(t, avail.Equal(d("2")))
	f.seedOrder("O2", entity.OrderStatusConfirmed, lineSpec{itemX, "2"})
	res, err = f.allocate.Allocate(ctx, tenant, "O2", user)
	require.NoError(t, err)
	assert.True(t, res.FullyAllocated)

	o, err = f.orders.Advance(ctx, tenant, "O", entity.OrderStatusDelivered, user)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, o.Status)
	_, err = f.orders.Advance(ctx, tenant, "O", entity.OrderStatusDelivered, user)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	ds, err := f.query.Reconcile(ctx, tenant, site, itemX)
	require.NoError(t, err)
	assert.Empty(t, ds)
	assert.Equal(t, 4, f.store.EventCount())
	assert.Equal(t, 4, f.countAudit(audit.ActionEventApplied))
	assert.Equal(t, 1, f.countAudit(audit.ActionPickTaskCompleted))
	assert.Equal(t, 3, f.countAudit(audit.ActionOrderAdvanced))
}
