// Package memory implementa los puertos de persistencia en proceso. Cada transacción trabaja
// sobre una copia del estado que reemplaza al original solo si fn termina sin error, y las
// transacciones se serializan con un único mutex.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type uomKey struct{ tenantID, code string }

type state struct {
	items       map[string]entity.Item
	uoms        map[uomKey]entity.UnitOfMeasure
	conversions []entity.UomConversion
	locations   map[string]entity.Location
	balances    map[entity.BalanceKey]entity.InventoryBalance
	events      []entity.InventoryEvent
	orders      map[string]entity.SalesOrder
	tasks       map[string]entity.PickTask
	taskOrder   []string // orden de creación
	sequences   map[string]int64
}

func newState() *state {
	return &state{
		items:     make(map[string]entity.Item),
		uoms:      make(map[uomKey]entity.UnitOfMeasure),
		locations: make(map[string]entity.Location),
		balances:  make(map[entity.BalanceKey]entity.InventoryBalance),
		orders:    make(map[string]entity.SalesOrder),
		tasks:     make(map[string]entity.PickTask),
		sequences: make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.uoms {
		c.uoms[k] = v
	}
	c.conversions = append([]entity.UomConversion(nil), s.conversions...)
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	c.events = append([]entity.InventoryEvent(nil), s.events...)
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.tasks {
		c.tasks[k] = copyTask(v)
	}
	c.taskOrder = append([]string(nil), s.taskOrder...)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

func copyOrder(o entity.SalesOrder) entity.SalesOrder {
	o.Lines = append([]entity.SalesOrderLine(nil), o.Lines...)
	return o
}

func copyTask(t entity.PickTask) entity.PickTask {
	t.Lines = append([]entity.PickTaskLine(nil), t.Lines...)
	return t
}

// Store almacenamiento en memoria; implementa inventory.TxRunner.
type Store struct {
	mu    sync.Mutex
	data  *state
	audit *AuditLog
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState(), audit: &AuditLog{}}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, reposFor(work)); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Audit devuelve el AuditSink en memoria asociado al store.
func (s *Store) Audit() *AuditLog {
	return s.audit
}

// view ejecuta fn sobre el estado confirmado (lecturas y carga de datos maestros).
func (s *Store) view(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

func reposFor(st *state) repository.TxRepos {
	return repository.TxRepos{
		Items:     &itemRepo{st: st},
		Uoms:      &uomRepo{st: st},
		Locations: &locationRepo{st: st},
		Balances:  &balanceRepo{st: st},
		Events:    &eventRepo{st: st},
		Orders:    &orderRepo{st: st},
		PickTasks: &pickTaskRepo{st: st},
	}
}
