package dto

import (
	"github.com/jhoicas/fulfillment-ledger/internal/application/fulfillment"
	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// FromEvent convierte un evento del ledger.
func FromEvent(ev *entity.InventoryEvent) InventoryEventResponse {
	out := InventoryEventResponse{
		ID:             ev.ID,
		SiteID:         ev.SiteID,
		Type:           string(ev.Type),
		ItemID:         ev.ItemID,
		FromLocationID: ev.FromLocationID,
		ToLocationID:   ev.ToLocationID,
		Qty:            ev.Qty,
		Uom:            ev.Uom,
		QtyBase:        ev.QtyBase,
		ReferenceID:    ev.ReferenceID,
		CreatedAt:      ev.CreatedAt,
		CreatedBy:      ev.CreatedBy,
	}
	if ev.UnitCost.Valid {
		c := ev.UnitCost.Decimal
		out.UnitCost = &c
	}
	return out
}

// FromEvents convierte una lista de eventos.
func FromEvents(evs []entity.InventoryEvent) []InventoryEventResponse {
	out := make([]InventoryEventResponse, 0, len(evs))
	for i := range evs {
		out = append(out, FromEvent(&evs[i]))
	}
	return out
}

// FromBalances saldos tocados por un evento.
func FromBalances(bs []entity.InventoryBalance) []BalanceResponse {
	out := make([]BalanceResponse, 0, len(bs))
	for _, b := range bs {
		t := b.UpdatedAt
		out = append(out, BalanceResponse{LocationID: b.LocationID, QtyBase: b.QtyBase, UpdatedAt: &t})
	}
	return out
}

// FromLocationBalances saldos por ubicación de un ítem.
func FromLocationBalances(bs []entity.LocationBalance) []BalanceResponse {
	out := make([]BalanceResponse, 0, len(bs))
	for _, b := range bs {
		t := b.UpdatedAt
		out = append(out, BalanceResponse{
			LocationID: b.LocationID, LocationType: string(b.LocationType), QtyBase: b.QtyBase, UpdatedAt: &t,
		})
	}
	return out
}

// FromOrder convierte una orden con sus líneas.
func FromOrder(o *entity.SalesOrder) SalesOrderResponse {
	out := SalesOrderResponse{
		ID:          o.ID,
		SiteID:      o.SiteID,
		Number:      o.Number,
		CustomerRef: o.CustomerRef,
		Status:      string(o.Status),
		UpdatedAt:   o.UpdatedAt,
		Lines:       make([]SalesOrderLineResponse, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, SalesOrderLineResponse{
			ID:           l.ID,
			LineNo:       l.LineNo,
			ItemID:       l.ItemID,
			QtyOrdered:   l.QtyOrdered,
			QtyAllocated: l.QtyAllocated,
			QtyPicked:    l.QtyPicked,
			QtyShipped:   l.QtyShipped,
			Status:       string(l.Status),
		})
	}
	return out
}

// FromPickTask convierte una tarea de picking.
func FromPickTask(t *entity.PickTask) PickTaskResponse {
	out := PickTaskResponse{
		ID:                t.ID,
		OrderID:           t.OrderID,
		TaskNumber:        t.TaskNumber,
		Status:            string(t.Status),
		StagingLocationID: t.StagingLocationID,
		CreatedAt:         t.CreatedAt,
		CreatedBy:         t.CreatedBy,
		Lines:             make([]PickTaskLineResponse, 0, len(t.Lines)),
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, PickTaskLineResponse{
			ID: l.ID, OrderLineID: l.OrderLineID, ItemID: l.ItemID,
			LocationID: l.LocationID, QtyBase: l.QtyBase, LotRef: l.LotRef,
		})
	}
	return out
}

// FromAllocation resultado de una corrida de asignación.
func FromAllocation(res *fulfillment.AllocationResult) AllocationResponse {
	out := AllocationResponse{
		OrderID:        res.OrderID,
		Status:         string(res.Status),
		FullyAllocated: res.FullyAllocated,
		Lines:          make([]LineAllocationResponse, 0, len(res.Lines)),
	}
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, LineAllocationResponse{
			LineID:       l.LineID,
			ItemID:       l.ItemID,
			Needed:       l.Needed,
			Allocated:    l.Allocated,
			QtyAllocated: l.QtyAllocated,
			Shortfall:    l.Shortfall,
			Status:       string(l.Status),
		})
	}
	return out
}

// FromDiscrepancies resultado de la conciliación ledger/saldos.
func FromDiscrepancies(ds []inventory.Discrepancy) []DiscrepancyResponse {
	out := make([]DiscrepancyResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, DiscrepancyResponse{LocationID: d.LocationID, Stored: d.Stored, Replayed: d.Replayed})
	}
	return out
}
