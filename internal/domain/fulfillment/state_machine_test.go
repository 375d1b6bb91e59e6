package fulfillment

import (
	"testing"

	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderStatuses = []entity.OrderStatus{
	entity.OrderStatusDraft, entity.OrderStatusConfirmed, entity.OrderStatusAllocated, entity.OrderStatusPicking,
	entity.OrderStatusPacked, entity.OrderStatusShipped, entity.OrderStatusDelivered, entity.OrderStatusCancelled,
}

func TestOrderMachine_ForwardPathNeverSkips(t *testing.T) {
	path := orderStatuses[:7]
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransitionOrder(path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
		for j := i + 2; j < len(path); j++ {
			assert.False(t, CanTransitionOrder(path[i], path[j]), "salto %s -> %s", path[i], path[j])
		}
		for j := 0; j < i; j++ {
			assert.False(t, CanTransitionOrder(path[i], path[j]), "retroceso %s -> %s", path[i], path[j])
		}
	}
}

func TestOrderMachine_CancelFromAnyNonTerminal(t *testing.T) {
	for _, s := range orderStatuses {
		want := s != entity.OrderStatusDelivered && s != entity.OrderStatusCancelled
		assert.Equal(t, want, CanTransitionOrder(s, entity.OrderStatusCancelled), "%s -> CANCELLED", s)
		assert.Equal(t, !want, IsTerminalOrder(s), "terminal %s", s)
	}
}

func TestTransitionOrder_InvalidDoesNotMutate(t *testing.T) {
	o := &entity.SalesOrder{ID: "o1", Status: entity.OrderStatusDelivered}

	err := TransitionOrder(o, entity.OrderStatusCancelled)

	var ite *domain.InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, "DELIVERED", ite.From)
	assert.Equal(t, "CANCELLED", ite.To)
	assert.Equal(t, entity.OrderStatusDelivered, o.Status)

	o.Status = entity.OrderStatusDraft
	require.Error(t, TransitionOrder(o, entity.OrderStatusAllocated))
	assert.Equal(t, entity.OrderStatusDraft, o.Status)

	require.NoError(t, TransitionOrder(o, entity.OrderStatusConfirmed))
	assert.Equal(t, entity.OrderStatusConfirmed, o.Status)
}

func TestLineMachine(t *testing.T) {
	l := &entity.SalesOrderLine{Status: entity.LineStatusOpen}
	require.NoError(t, TransitionLine(l, entity.LineStatusAllocated))
	require.NoError(t, TransitionLine(l, entity.LineStatusPicking))
	require.ErrorIs(t, TransitionLine(l, entity.LineStatusShipped), domain.ErrInvalidTransition)
	require.NoError(t, TransitionLine(l, entity.LineStatusPicked))
	require.NoError(t, TransitionLine(l, entity.LineStatusShipped))
	assert.True(t, IsTerminalLine(l.Status))
	assert.True(t, IsTerminalLine(entity.LineStatusCancelled))
	assert.False(t, IsTerminalLine(entity.LineStatusOpen))
}

func TestPickTaskMachine(t *testing.T) {
	task := &entity.PickTask{Status: entity.PickTaskStatusOpen}
	require.NoError(t, TransitionPickTask(task, entity.PickTaskStatusInProgress))
	require.ErrorIs(t, TransitionPickTask(task, entity.PickTaskStatusOpen), domain.ErrInvalidTransition)
	require.NoError(t, TransitionPickTask(task, entity.PickTaskStatusCompleted))
	require.Error(t, TransitionPickTask(task, entity.PickTaskStatusCancelled))
	assert.Equal(t, entity.PickTaskStatusCompleted, task.Status)

	direct := &entity.PickTask{Status: entity.PickTaskStatusOpen}
	require.NoError(t, TransitionPickTask(direct, entity.PickTaskStatusCompleted))
}
