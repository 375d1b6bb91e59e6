package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SalesOrderRepository órdenes de venta con sus líneas.
type SalesOrderRepository interface {
	GetByID(ctx context.Context, tenantID, orderID string) (*entity.SalesOrder, error)
	// GetForUpdate bloquea la orden; es la unidad de serialización de asignación y picking.
	GetForUpdate(ctx context.Context, tenantID, orderID string) (*entity.SalesOrder, error)
	// CompareAndSetStatus cambia el estado solo si el actual es from; devuelve false si no coincide.
	CompareAndSetStatus(ctx context.Context, tenantID, orderID string, from, to entity.OrderStatus) (bool, error)
	UpdateLine(ctx context.Context, line *entity.SalesOrderLine) error
	// LockItemAllocation serializa asignaciones concurrentes del mismo ítem en un sitio.
	LockItemAllocation(ctx context.Context, tenantID, siteID, itemID string) error
	// SumReserved cantidad asignada y no despachada del ítem en órdenes vivas (incluida la propia).
	SumReserved(ctx context.Context, tenantID, siteID, itemID string) (decimal.Decimal, error)
}
