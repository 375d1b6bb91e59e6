package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderLineResponse línea de orden.
type SalesOrderLineResponse struct {
	ID           string          `json:"id"`
	LineNo       int             `json:"line_no"`
	ItemID       string          `json:"item_id"`
	QtyOrdered   decimal.Decimal `json:"qty_ordered"`
	QtyAllocated decimal.Decimal `json:"qty_allocated"`
	QtyPicked    decimal.Decimal `json:"qty_picked"`
	QtyShipped   decimal.Decimal `json:"qty_shipped"`
	Status       string          `json:"status"`
}

// SalesOrderResponse orden con sus líneas.
type SalesOrderResponse struct {
	ID          string                   `json:"id"`
	SiteID      string                   `json:"site_id"`
	Number      string                   `json:"number"`
	CustomerRef string                   `json:"customer_ref,omitempty"`
	Status      string                   `json:"status"`
	Lines       []SalesOrderLineResponse `json:"lines"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// AdvanceOrderRequest body para POST /api/orders/:id/advance.
type AdvanceOrderRequest struct {
	Status string `json:"status"` // PACKED | SHIPPED | DELIVERED
}

// LineAllocationResponse resultado de asignación por línea.
type LineAllocationResponse struct {
	LineID       string          `json:"line_id"`
	ItemID       string          `json:"item_id"`
	Needed       decimal.Decimal `json:"needed"`
	Allocated    decimal.Decimal `json:"allocated"`
	QtyAllocated decimal.Decimal `json:"qty_allocated"`
	Shortfall    decimal.Decimal `json:"shortfall"`
	Status       string          `json:"status"`
}

// AllocationResponse resultado de POST /api/orders/:id/allocate.
type AllocationResponse struct {
	OrderID        string                   `json:"order_id"`
	Status         string                   `json:"status"`
	FullyAllocated bool                     `json:"fully_allocated"`
	Lines          []LineAllocationResponse `json:"lines"`
}

// PickTaskLineResponse línea de la tarea: ubicación origen y cantidad en unidad base.
type PickTaskLineResponse struct {
	ID          string          `json:"id"`
	OrderLineID string          `json:"order_line_id"`
	ItemID      string          `json:"item_id"`
	LocationID  string          `json:"location_id"`
	QtyBase     decimal.Decimal `json:"qty_base"`
	LotRef      string          `json:"lot_ref,omitempty"`
}

// PickTaskResponse tarea de picking.
type PickTaskResponse struct {
	ID                string                 `json:"id"`
	OrderID           string                 `json:"order_id"`
	TaskNumber        string                 `json:"task_number"`
	Status            string                 `json:"status"`
	StagingLocationID string                 `json:"staging_location_id,omitempty"`
	Lines             []PickTaskLineResponse `json:"lines"`
	CreatedAt         time.Time              `json:"created_at"`
	CreatedBy         string                 `json:"created_by"`
}

// CompletePickTaskRequest body para POST /api/pick-tasks/:id/complete.
type CompletePickTaskRequest struct {
	StagingLocationID string `json:"staging_location_id"`
}
