package fulfillment_test

import (
	"context"
	"testing"

	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allocated deja una orden ALLOCATED sobre el stock ya cargado.
func (f *fixture) allocated(t *testing.T, id string, lines ...lineSpec) {
	t.Helper()
	f.seedOrder(id, entity.OrderStatusConfirmed, lines...)
	res, err := f.allocate.Allocate(context.Background(), tenant, id, user)
	require.NoError(t, err)
	require.True(t, res.FullyAllocated)
}

func TestCreatePickTask_FIFOAcrossStockLocations(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locB, "3")
	f.receive(t, itemX, locA, "10")
	f.receive(t, itemX, locS, "50")
	f.allocated(t, "o1", lineSpec{itemX, "5"})

	task, err := f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	assert.Equal(t, "PICK-000001", task.TaskNumber)
	assert.Equal(t, entity.PickTaskStatusOpen, task.Status)
	require.Len(t, task.Lines, 2)
	assert.Equal(t, locB, task.Lines[0].LocationID)
	assert.True(t, task.Lines[0].QtyBase.Equal(d("3")))
	assert.Equal(t, locA, task.Lines[1].LocationID)
	assert.True(t, task.Lines[1].QtyBase.Equal(d("2")))
	assert.Equal(t, "o1-L1", task.Lines[0].OrderLineID)

	o := f.order(t, "o1")
	assert.Equal(t, entity.OrderStatusPicking, o.Status)
	assert.Equal(t, entity.LineStatusPicking, o.Lines[0].Status)
	// Generar picking no mueve saldos.
	assert.True(t, f.balance(t, itemX, locB).Equal(d("3")))
}

func TestCreatePickTask_RecentlyTouchedLocationPickedLast(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "10")
	f.receive(t, itemX, locB, "10")
	f.apply(t, inventory.EventInput{Type: entity.EventTypeConsume, ItemID: itemX, Qty: d("1"), FromLocationID: locA})
	f.allocated(t, "o1", lineSpec{itemX, "12"})

	task, err := f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	require.Len(t, task.Lines, 2)
	assert.Equal(t, locB, task.Lines[0].LocationID)
	assert.True(t, task.Lines[0].QtyBase.Equal(d("10")))
	assert.Equal(t, locA, task.Lines[1].LocationID)
	assert.True(t, task.Lines[1].QtyBase.Equal(d("2")))
}

func TestCreatePickTask_SecondCallFailsWhileActive(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "10")
	f.allocated(t, "o1", lineSpec{itemX, "5"})

	first, err := f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	_, err = f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	var ate *domain.ActiveTaskExistsError
	require.ErrorAs(t, err, &ate)
	assert.Equal(t, first.TaskNumber, ate.TaskNumber)

	_, err = f.picks.StartPickTask(context.Background(), tenant, first.ID, user)
	require.NoError(t, err)
	_, err = f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	assert.ErrorIs(t, err, domain.ErrActiveTaskExists)

	tasks, err := f.picks.ListByOrder(context.Background(), tenant, "o1")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCreatePickTask_RequiresAllocatedOrder(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "2")
	f.seedOrder("o1", entity.OrderStatusConfirmed, lineSpec{itemX, "5"})
	_, err := f.allocate.Allocate(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	_, err = f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	var ise *domain.InvalidStateError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, string(entity.OrderStatusConfirmed), ise.Status)

	_, err = f.picks.CreatePickTask(context.Background(), tenant, "nada", user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePickTask_NumbersArePerTenantSequence(t *testing.T) {
	f := newFixtureWithPrefix(t, "WAVE")
	f.receive(t, itemX, locA, "10")
	f.allocated(t, "o1", lineSpec{itemX, "2"})
	f.allocated(t, "o2", lineSpec{itemX, "2"})

	t1, err := f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	require.NoError(t, err)
	t2, err := f.picks.CreatePickTask(context.Background(), tenant, "o2", user)
	require.NoError(t, err)

	assert.Equal(t, "WAVE-000001", t1.TaskNumber)
	assert.Equal(t, "WAVE-000002", t2.TaskNumber)
}

func TestCompletePickTask_MovesToStaging(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locB, "3")
	f.receive(t, itemX, locA, "10")
	f.allocated(t, "o1", lineSpec{itemX, "5"})
	task, err := f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	started, err := f.picks.StartPickTask(context.Background(), tenant, task.ID, user)
	require.NoError(t, err)
	assert.Equal(t, entity.PickTaskStatusInProgress, started.Status)

	done, err := f.picks.CompletePickTask(context.Background(), tenant, task.ID, locS, user)
	require.NoError(t, err)
	assert.Equal(t, entity.PickTaskStatusCompleted, done.Status)
	assert.Equal(t, locS, done.StagingLocationID)

	assert.True(t, f.balance(t, itemX, locB).IsZero())
	assert.True(t, f.balance(t, itemX, locA).Equal(d("8")))
	assert.True(t, f.balance(t, itemX, locS).Equal(d("5")))

	o := f.order(t, "o1")
	assert.Equal(t, entity.LineStatusPicked, o.Lines[0].Status)
	assert.True(t, o.Lines[0].QtyPicked.Equal(d("5")))

	evs, err := f.ledger.ListEvents(context.Background(), tenant, site, itemX, 2)
	require.NoError(t, err)
	for _, ev := range evs {
		assert.Equal(t, entity.EventTypeMove, ev.Type)
		assert.Equal(t, task.TaskNumber, ev.ReferenceID)
		assert.Equal(t, locS, ev.ToLocationID)
	}

	_, err = f.picks.CompletePickTask(context.Background(), tenant, task.ID, locS, user)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.picks.StartPickTask(context.Background(), tenant, task.ID, user)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCompletePickTask_ValidatesStaging(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locA, "10")
	f.allocated(t, "o1", lineSpec{itemX, "5"})
	task, err := f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	for _, loc := range []string{"", locB, locO} {
		_, err = f.picks.CompletePickTask(context.Background(), tenant, task.ID, loc, user)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, loc)
	}
	_, err = f.picks.CompletePickTask(context.Background(), tenant, task.ID, "nada", user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.picks.CompletePickTask(context.Background(), tenant, "nada", locS, user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompletePickTask_ShortSourceAppliesNothing(t *testing.T) {
	f := newFixture(t)
	f.receive(t, itemX, locB, "3")
	f.receive(t, itemX, locA, "10")
	f.allocated(t, "o1", lineSpec{itemX, "5"})
	task, err := f.picks.CreatePickTask(context.Background(), tenant, "o1", user)
	require.NoError(t, err)

	// Consumo no planificado en A entre la generación y la confirmación.
	f.apply(t, inventory.EventInput{Type: entity.EventTypeConsume, ItemID: itemX, Qty: d("9"), FromLocationID: locA})
	events := f.store.EventCount()

	_, err = f.picks.CompletePickTask(context.Background(), tenant, task.ID, locS, user)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, events, f.store.EventCount())
	assert.True(t, f.balance(t, itemX, locB).Equal(d("3")))
	assert.True(t, f.balance(t, itemX, locS).IsZero())
	tasks, err := f.picks.ListByOrder(context.Background(), tenant, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.PickTaskStatusOpen, tasks[0].Status)
	assert.Equal(t, entity.LineStatusPicking, f.order(t, "o1").Lines[0].Status)
}
