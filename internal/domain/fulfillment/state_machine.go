package fulfillment

import (
	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// machine grafo de transiciones permitidas. Un estado sin aristas salientes es terminal.
type machine[S ~string] struct {
	entity string
	edges  map[S][]S
}

func (m machine[S]) can(from, to S) bool {
	for _, s := range m.edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (m machine[S]) terminal(s S) bool {
	return len(m.edges[s]) == 0
}

func (m machine[S]) check(from, to S) error {
	if !m.can(from, to) {
		return &domain.InvalidTransitionError{Entity: m.entity, From: string(from), To: string(to)}
	}
	return nil
}

var orderMachine = machine[entity.OrderStatus]{
	entity: "sales_order",
	edges: map[entity.OrderStatus][]entity.OrderStatus{
		entity.OrderStatusDraft:     {entity.OrderStatusConfirmed, entity.OrderStatusCancelled},
		entity.OrderStatusConfirmed: {entity.OrderStatusAllocated, entity.OrderStatusCancelled},
		entity.OrderStatusAllocated: {entity.OrderStatusPicking, entity.OrderStatusCancelled},
		entity.OrderStatusPicking:   {entity.OrderStatusPacked, entity.OrderStatusCancelled},
		entity.OrderStatusPacked:    {entity.OrderStatusShipped, entity.OrderStatusCancelled},
		entity.OrderStatusShipped:   {entity.OrderStatusDelivered, entity.OrderStatusCancelled},
	},
}

var lineMachine = machine[entity.LineStatus]{
	entity: "sales_order_line",
	edges: map[entity.LineStatus][]entity.LineStatus{
		entity.LineStatusOpen:      {entity.LineStatusAllocated, entity.LineStatusCancelled},
		entity.LineStatusAllocated: {entity.LineStatusPicking, entity.LineStatusCancelled},
		entity.LineStatusPicking:   {entity.LineStatusPicked, entity.LineStatusCancelled},
		entity.LineStatusPicked:    {entity.LineStatusShipped, entity.LineStatusCancelled},
	},
}

var pickTaskMachine = machine[entity.PickTaskStatus]{
	entity: "pick_task",
	edges: map[entity.PickTaskStatus][]entity.PickTaskStatus{
		entity.PickTaskStatusOpen:       {entity.PickTaskStatusInProgress, entity.PickTaskStatusCompleted, entity.PickTaskStatusCancelled},
		entity.PickTaskStatusInProgress: {entity.PickTaskStatusCompleted, entity.PickTaskStatusCancelled},
	},
}

// CanTransitionOrder indica si from -> to es una arista válida de la orden.
func CanTransitionOrder(from, to entity.OrderStatus) bool { return orderMachine.can(from, to) }

// IsTerminalOrder DELIVERED y CANCELLED.
func IsTerminalOrder(s entity.OrderStatus) bool { return orderMachine.terminal(s) }

// TransitionOrder cambia el estado de la orden o devuelve InvalidTransitionError sin mutarla.
func TransitionOrder(o *entity.SalesOrder, to entity.OrderStatus) error {
	if err := orderMachine.check(o.Status, to); err != nil {
		return err
	}
	o.Status = to
	return nil
}

// TransitionLine cambia el estado de la línea o devuelve InvalidTransitionError sin mutarla.
func TransitionLine(l *entity.SalesOrderLine, to entity.LineStatus) error {
	if err := lineMachine.check(l.Status, to); err != nil {
		return err
	}
	l.Status = to
	return nil
}

// IsTerminalLine SHIPPED y CANCELLED.
func IsTerminalLine(s entity.LineStatus) bool { return lineMachine.terminal(s) }

// TransitionPickTask cambia el estado de la tarea o devuelve InvalidTransitionError sin mutarla.
func TransitionPickTask(t *entity.PickTask, to entity.PickTaskStatus) error {
	if err := pickTaskMachine.check(t.Status, to); err != nil {
		return err
	}
	t.Status = to
	return nil
}
