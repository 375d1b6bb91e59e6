package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ItemRepository           = (*itemRepo)(nil)
	_ repository.UomRepository            = (*uomRepo)(nil)
	_ repository.LocationRepository       = (*locationRepo)(nil)
	_ repository.BalanceRepository        = (*balanceRepo)(nil)
	_ repository.InventoryEventRepository = (*eventRepo)(nil)
	_ repository.SalesOrderRepository     = (*orderRepo)(nil)
	_ repository.PickTaskRepository       = (*pickTaskRepo)(nil)
)

type itemRepo struct{ st *state }

func (r *itemRepo) GetByID(_ context.Context, tenantID, itemID string) (*entity.Item, error) {
	it, ok := r.st.items[itemID]
	if !ok || it.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (r *itemRepo) GetForUpdate(ctx context.Context, tenantID, itemID string) (*entity.Item, error) {
	return r.GetByID(ctx, tenantID, itemID)
}

func (r *itemRepo) UpdateCosts(_ context.Context, item *entity.Item) error {
	cur, ok := r.st.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.StandardCost = item.StandardCost
	cur.AverageCost = item.AverageCost
	cur.LastCost = item.LastCost
	cur.UpdatedAt = item.UpdatedAt
	r.st.items[item.ID] = cur
	return nil
}

type uomRepo struct{ st *state }

func (r *uomRepo) Exists(_ context.Context, tenantID, code string) (bool, error) {
	_, ok := r.st.uoms[uomKey{tenantID, code}]
	return ok, nil
}

func (r *uomRepo) FindConversion(_ context.Context, tenantID, itemID, from, to string) (*entity.UomConversion, error) {
	var global *entity.UomConversion
	for i := range r.st.conversions {
		c := r.st.conversions[i]
		if c.TenantID != tenantID || c.FromUom != from || c.ToUom != to {
			continue
		}
		if c.ItemID == itemID {
			return &c, nil
		}
		if c.ItemID == "" && global == nil {
			global = &c
		}
	}
	return global, nil
}

type locationRepo struct{ st *state }

func (r *locationRepo) GetByID(_ context.Context, tenantID, locationID string) (*entity.Location, error) {
	loc, ok := r.st.locations[locationID]
	if !ok || loc.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return &loc, nil
}

type balanceRepo struct{ st *state }

func (r *balanceRepo) Get(_ context.Context, key entity.BalanceKey) (*entity.InventoryBalance, error) {
	if b, ok := r.st.balances[key]; ok {
		return &b, nil
	}
	return &entity.InventoryBalance{BalanceKey: key, QtyBase: decimal.Zero}, nil
}

func (r *balanceRepo) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.InventoryBalance, error) {
	if _, ok := r.st.balances[key]; !ok {
		r.st.balances[key] = entity.InventoryBalance{BalanceKey: key, QtyBase: decimal.Zero}
	}
	return r.Get(ctx, key)
}

func (r *balanceRepo) Save(_ context.Context, b *entity.InventoryBalance) error {
	b.Version++
	r.st.balances[b.BalanceKey] = *b
	return nil
}

func (r *balanceRepo) ListByItem(_ context.Context, tenantID, siteID, itemID string, types []entity.LocationType) ([]entity.LocationBalance, error) {
	var out []entity.LocationBalance
	for k, b := range r.st.balances {
		if k.TenantID != tenantID || k.SiteID != siteID || k.ItemID != itemID {
			continue
		}
		loc, ok := r.st.locations[k.LocationID]
		if !ok || !hasType(types, loc.Type) {
			continue
		}
		out = append(out, entity.LocationBalance{
			LocationID: k.LocationID, LocationType: loc.Type, QtyBase: b.QtyBase, UpdatedAt: b.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out, nil
}

func (r *balanceRepo) SumByItem(ctx context.Context, tenantID, siteID, itemID string, types []entity.LocationType) (decimal.Decimal, error) {
	list, err := r.ListByItem(ctx, tenantID, siteID, itemID, types)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, b := range list {
		sum = sum.Add(b.QtyBase)
	}
	return sum, nil
}

func (r *balanceRepo) SumOnHand(_ context.Context, tenantID, itemID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for k, b := range r.st.balances {
		if k.TenantID == tenantID && k.ItemID == itemID {
			sum = sum.Add(b.QtyBase)
		}
	}
	return sum, nil
}

type eventRepo struct{ st *state }

func (r *eventRepo) Create(_ context.Context, ev *entity.InventoryEvent) error {
	r.st.events = append(r.st.events, *ev)
	return nil
}

func (r *eventRepo) ListByItem(_ context.Context, tenantID, siteID, itemID string, limit int) ([]entity.InventoryEvent, error) {
	var out []entity.InventoryEvent
	for _, ev := range r.st.events {
		if ev.TenantID == tenantID && ev.SiteID == siteID && ev.ItemID == itemID {
			out = append(out, ev)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type orderRepo struct{ st *state }

func (r *orderRepo) GetByID(_ context.Context, tenantID, orderID string) (*entity.SalesOrder, error) {
	o, ok := r.st.orders[orderID]
	if !ok || o.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	c := copyOrder(o)
	sort.SliceStable(c.Lines, func(i, j int) bool { return c.Lines[i].LineNo < c.Lines[j].LineNo })
	return &c, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, tenantID, orderID string) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, tenantID, orderID)
}

func (r *orderRepo) CompareAndSetStatus(_ context.Context, tenantID, orderID string, from, to entity.OrderStatus) (bool, error) {
	o, ok := r.st.orders[orderID]
	if !ok || o.TenantID != tenantID || o.Status != from {
		return false, nil
	}
	o.Status = to
	r.st.orders[orderID] = o
	return true, nil
}

func (r *orderRepo) UpdateLine(_ context.Context, line *entity.SalesOrderLine) error {
	o, ok := r.st.orders[line.OrderID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range o.Lines {
		if o.Lines[i].ID == line.ID {
			o.Lines[i] = *line
			r.st.orders[o.ID] = o
			return nil
		}
	}
	return domain.ErrNotFound
}

// LockItemAllocation no hace nada: el mutex del store ya serializa las transacciones.
func (r *orderRepo) LockItemAllocation(context.Context, string, string, string) error {
	return nil
}

func (r *orderRepo) SumReserved(_ context.Context, tenantID, siteID, itemID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, o := range r.st.orders {
		if o.TenantID != tenantID || o.SiteID != siteID || !reserving(o.Status) {
			continue
		}
		for _, l := range o.Lines {
			if l.ItemID == itemID && l.Status != entity.LineStatusCancelled {
				sum = sum.Add(l.QtyAllocated.Sub(l.QtyShipped))
			}
		}
	}
	return sum, nil
}

type pickTaskRepo struct{ st *state }

func (r *pickTaskRepo) FindActiveByOrder(_ context.Context, tenantID, orderID string) (*entity.PickTask, error) {
	for _, id := range r.st.taskOrder {
		t := r.st.tasks[id]
		if t.TenantID == tenantID && t.OrderID == orderID && t.Status.Active() {
			c := copyTask(t)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *pickTaskRepo) ListByOrder(_ context.Context, tenantID, orderID string) ([]entity.PickTask, error) {
	var out []entity.PickTask
	for _, id := range r.st.taskOrder {
		t := r.st.tasks[id]
		if t.TenantID == tenantID && t.OrderID == orderID {
			out = append(out, copyTask(t))
		}
	}
	return out, nil
}

func (r *pickTaskRepo) NextTaskNumber(_ context.Context, tenantID string) (int64, error) {
	r.st.sequences[tenantID]++
	return r.st.sequences[tenantID], nil
}

func (r *pickTaskRepo) Create(ctx context.Context, t *entity.PickTask) error {
	if active, _ := r.FindActiveByOrder(ctx, t.TenantID, t.OrderID); active != nil && t.Status.Active() {
		return domain.ErrActiveTaskExists
	}
	r.st.tasks[t.ID] = copyTask(*t)
	r.st.taskOrder = append(r.st.taskOrder, t.ID)
	return nil
}

func (r *pickTaskRepo) GetByID(_ context.Context, tenantID, taskID string) (*entity.PickTask, error) {
	t, ok := r.st.tasks[taskID]
	if !ok || t.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	c := copyTask(t)
	return &c, nil
}

func (r *pickTaskRepo) GetForUpdate(ctx context.Context, tenantID, taskID string) (*entity.PickTask, error) {
	return r.GetByID(ctx, tenantID, taskID)
}

func (r *pickTaskRepo) UpdateStatus(_ context.Context, t *entity.PickTask) error {
	cur, ok := r.st.tasks[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = t.Status
	cur.StagingLocationID = t.StagingLocationID
	cur.UpdatedAt = t.UpdatedAt
	r.st.tasks[t.ID] = cur
	return nil
}

func hasType(types []entity.LocationType, t entity.LocationType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func reserving(s entity.OrderStatus) bool {
	for _, x := range entity.ReservingOrderStatuses {
		if x == s {
			return true
		}
	}
	return false
}
