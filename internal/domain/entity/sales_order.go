package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de la orden de venta.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusAllocated OrderStatus = "ALLOCATED"
	OrderStatusPicking   OrderStatus = "PICKING"
	OrderStatusPacked    OrderStatus = "PACKED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ReservingOrderStatuses estados cuyas líneas retienen cantidad asignada frente a otras órdenes.
var ReservingOrderStatuses = []OrderStatus{
	OrderStatusConfirmed, OrderStatusAllocated, OrderStatusPicking, OrderStatusPacked,
}

// LineStatus estado de una línea de la orden.
type LineStatus string

const (
	LineStatusOpen      LineStatus = "OPEN"
	LineStatusAllocated LineStatus = "ALLOCATED"
	LineStatusPicking   LineStatus = "PICKING"
	LineStatusPicked    LineStatus = "PICKED"
	LineStatusShipped   LineStatus = "SHIPPED"
	LineStatusCancelled LineStatus = "CANCELLED"
)

// SalesOrder cabecera de la orden. La captura de órdenes es externa; este núcleo las confirma,
// asigna, genera picking y avanza su ciclo de vida.
type SalesOrder struct {
	ID          string
	TenantID    string
	SiteID      string
	Number      string
	CustomerRef string
	Status      OrderStatus
	Lines       []SalesOrderLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SalesOrderLine cantidades en unidad base del ítem.
// Invariante: QtyShipped <= QtyPicked <= QtyAllocated <= QtyOrdered.
type SalesOrderLine struct {
	ID           string
	OrderID      string
	LineNo       int
	ItemID       string
	QtyOrdered   decimal.Decimal
	QtyAllocated decimal.Decimal
	QtyPicked    decimal.Decimal
	QtyShipped   decimal.Decimal
	Status       LineStatus
}

// Outstanding cantidad aún necesaria para asignar la línea por completo.
func (l SalesOrderLine) Outstanding() decimal.Decimal {
	return l.QtyOrdered.Sub(l.QtyAllocated)
}

// RemainingToPick cantidad asignada que todavía no se ha pickeado.
func (l SalesOrderLine) RemainingToPick() decimal.Decimal {
	return l.QtyAllocated.Sub(l.QtyPicked)
}
