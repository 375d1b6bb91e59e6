package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/fulfillment-ledger/internal/application/audit"
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

	itemX = "item-x" // base EA, CJ = 12 EA
	itemY = "item-y" // base KG, KG -> LB 2.20462 (solo inverso disponible)
	itemZ = "item-z" // base G, conversión global KG -> G

	locA = "loc-a" // STOCK
	locB = "loc-b" // STOCK
	locR = "loc-r" // RECEIVING
	locS = "loc-s" // SHIPPING
	locO = "loc-o" // STOCK de otro sitio
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
	query  *inventory.BalanceQueryUseCase
	conv   *inventory.ConversionUseCase
	clock  time.Time
}

func newFixture(t *testing.T, opts inventory.LedgerOptions) *fixture {
	t.Helper()
	store := memory.NewStore()
	for _, code := range []string{"EA", "CJ", "KG", "LB", "G", "PAL"} {
		store.SeedUom(entity.UnitOfMeasure{TenantID: tenant, Code: code, Name: code})
	}
	store.SeedItem(entity.Item{ID: itemX, TenantID: tenant, SKU: "X", Name: "Item X", BaseUom: "EA"})
	store.SeedItem(entity.Item{ID: itemY, TenantID: tenant, SKU: "Y", Name: "Item Y", BaseUom: "KG"})
	store.SeedItem(entity.Item{ID: itemZ, TenantID: tenant, SKU: "Z", Name: "Item Z", BaseUom: "G"})
	store.SeedConversion(entity.UomConversion{ID: "c1", TenantID: tenant, ItemID: itemX, FromUom: "CJ", ToUom: "EA", Factor: d("12")})
	store.SeedConversion(entity.UomConversion{ID: "c2", TenantID: tenant, ItemID: itemY, FromUom: "KG", ToUom: "LB", Factor: d("2.20462")})
	store.SeedConversion(entity.UomConversion{ID: "c3", TenantID: tenant, FromUom: "KG", ToUom: "G", Factor: d("1000")})
	for id, typ := range map[string]entity.LocationType{
		locA: entity.LocationTypeStock, locB: entity.LocationTypeStock,
		locR: entity.LocationTypeReceiving, locS: entity.LocationTypeShipping,
	} {
		store.SeedLocation(entity.Location{ID: id, TenantID: tenant, SiteID: site, Code: id, Type: typ})
	}
	store.SeedLocation(entity.Location{ID: locO, TenantID: tenant, SiteID: "s2", Code: locO, Type: entity.LocationTypeStock})

	f := &fixture{store: store, clock: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	emitter := audit.NewEmitter(store.Audit(), logger.Nop())
	f.ledger = inventory.NewLedgerUseCase(store, opts, emitter, nil, logger.Nop()).WithClock(f.tick)
	f.query = inventory.NewBalanceQueryUseCase(store)
	f.conv = inventory.NewConversionUseCase(store)
	return f
}

func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) apply(in inventory.EventInput) (*inventory.ApplyResult, error) {
	in.TenantID, in.SiteID, in.UserID = tenant, site, user
	if in.Uom == "" {
		in.Uom = "EA"
	}
	return f.ledger.ApplyEvent(context.Background(), in)
}

func (f *fixture) mustApply(t *testing.T, in inventory.EventInput) *inventory.ApplyResult {
	t.Helper()
	res, err := f.apply(in)
	require.NoError(t, err)
	return res
}

func (f *fixture) balance(t *testing.T, item, loc string) decimal.Decimal {
	t.Helper()
	q, err := f.query.GetBalance(context.Background(), entity.BalanceKey{TenantID: tenant, SiteID: site, ItemID: item, LocationID: loc})
	require.NoError(t, err)
	return q
}

func (f *fixture) receive(t *testing.T, item, loc, qty string) {
	t.Helper()
	f.mustApply(t, inventory.EventInput{Type: entity.EventTypeReceive, ItemID: item, Qty: d(qty), ToLocationID: loc})
}

func entityConversion(id, item, from, to, factor string) entity.UomConversion {
	return entity.UomConversion{ID: id, TenantID: tenant, ItemID: item, FromUom: from, ToUom: to, Factor: d(factor)}
}
