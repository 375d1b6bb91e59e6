package fulfillment_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jhoicas/fulfillment-ledger/internal/application/audit"
	"github.com/jhoicas/fulfillment-ledger/internal/application/fulfillment"
	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/fulfillment-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	tenant = "t1"
	site   = "s1"
	user   = "u1"

	itemX = "item-x"
	itemY = "item-y"

	locA = "loc-a" // STOCK
	locB = "loc-b" // STOCK
	locR = "loc-r" // RECEIVING
	locS = "loc-s" // SHIPPING
	locO = "loc-o" // SHIPPING de otro sitio
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store    *memory.Store
	ledger   *inventory.LedgerUseCase
	query    *inventory.BalanceQueryUseCase
	allocate *fulfillment.AllocateUseCase
	picks    *fulfillment.PickTaskUseCase
	orders   *fulfillment.OrderUseCase
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithPrefix(t, "")
}

func newFixtureWithPrefix(t *testing.T, prefix string) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedUom(entity.UnitOfMeasure{TenantID: tenant, Code: "EA", Name: "Unidad"})
	store.SeedUom(entity.UnitOfMeasure{TenantID: tenant, Code: "CJ", Name: "Caja"})
	store.SeedItem(entity.Item{ID: itemX, TenantID: tenant, SKU: "X", Name: "Item X", BaseUom: "EA"})
	store.SeedItem(entity.Item{ID: itemY, TenantID: tenant, SKU: "Y", Name: "Item Y", BaseUom: "EA"})
	store.SeedConversion(entity.UomConversion{ID: "c1", TenantID: tenant, ItemID: itemX, FromUom: "CJ", ToUom: "EA", Factor: d("12")})
	for id, typ := range map[string]entity.LocationType{
		locA: entity.LocationTypeStock, locB: entity.LocationTypeStock,
		locR: entity.LocationTypeReceiving, locS: entity.LocationTypeShipping,
	} {
		store.SeedLocation(entity.Location{ID: id, TenantID: tenant, SiteID: site, Code: id, Type: typ})
	}
	store.SeedLocation(entity.Location{ID: locO, TenantID: tenant, SiteID: "s2", Code: locO, Type: entity.LocationTypeShipping})

	f := &fixture{store: store, clock: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	log := logger.Nop()
	emitter := audit.NewEmitter(store.Audit(), log)
	f.ledger = inventory.NewLedgerUseCase(store, inventory.LedgerOptions{}, emitter, nil, log).WithClock(f.tick)
	f.query = inventory.NewBalanceQueryUseCase(store)
	f.allocate = fulfillment.NewAllocateUseCase(store, emitter, nil, log)
	f.picks = fulfillment.NewPickTaskUseCase(store, f.ledger, prefix, emitter, nil, log)
	f.orders = fulfillment.NewOrderUseCase(store, f.ledger, emitter, nil, log)
	return f
}

func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) apply(t *testing.T, in inventory.EventInput) {
	t.Helper()
	in.TenantID, in.SiteID, in.UserID = tenant, site, user
	if in.Uom == "" {
		in.Uom = "EA"
	}
	_, err := f.ledger.ApplyEvent(context.Background(), in)
	require.NoError(t, err)
}

func (f *fixture) receive(t *testing.T, item, loc, qty string) {
	t.Helper()
	f.apply(t, inventory.EventInput{Type: entity.EventTypeReceive, ItemID: item, Qty: d(qty), ToLocationID: loc})
}

func (f *fixture) balance(t *testing.T, item, loc string) decimal.Decimal {
	t.Helper()
	q, err := f.query.GetBalance(context.Background(), entity.BalanceKey{TenantID: tenant, SiteID: site, ItemID: item, LocationID: loc})
	require.NoError(t, err)
	return q
}

type lineSpec struct {
	item string
	qty  string
}

// seedOrder carga una orden con líneas OPEN numeradas desde 1.
func (f *fixture) seedOrder(id string, status entity.OrderStatus, lines ...lineSpec) {
	o := entity.SalesOrder{ID: id, TenantID: tenant, SiteID: site, Number: "SO-" + id, Status: status}
	for i, l := range lines {
		o.Lines = append(o.Lines, entity.SalesOrderLine{
			ID:           fmt.Sprintf("%s-L%d", id, i+1),
			OrderID:      id,
			LineNo:       i + 1,
			ItemID:       l.item,
			QtyOrdered:   d(l.qty),
			QtyAllocated: decimal.Zero,
			QtyPicked:    decimal.Zero,
			QtyShipped:   decimal.Zero,
			Status:       entity.LineStatusOpen,
		})
	}
	f.store.SeedOrder(o)
}

func (f *fixture) order(t *testing.T, id string) *entity.SalesOrder {
	t.Helper()
	o, err := f.orders.Get(context.Background(), tenant, id)
	require.NoError(t, err)
	return o
}

func (f *fixture) countAudit(action string) int {
	n := 0
	for _, a := range f.store.Audit().Actions() {
		if a == action {
			n++
		}
	}
	return n
}
