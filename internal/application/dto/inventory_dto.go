package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConvertRequest body para POST /api/uom/convert.
type ConvertRequest struct {
	ItemID string          `json:"item_id"`
	Qty    decimal.Decimal `json:"qty"`
	Uom    string          `json:"uom"`
}

// ConvertResponse cantidad expresada en la unidad base del ítem.
type ConvertResponse struct {
	ItemID  string          `json:"item_id"`
	Qty     decimal.Decimal `json:"qty"`
	Uom     string          `json:"uom"`
	QtyBase decimal.Decimal `json:"qty_base"`
}

// ApplyEventRequest body para POST /api/inventory/events.
// RECEIVE: to_location_id. MOVE: from y to. CONSUME/ISSUE: from_location_id.
// ADJUST: location_id y direction (ADD|SUBTRACT). COUNT: location_id con qty = saldo contado.
type ApplyEventRequest struct {
	SiteID         string           `json:"site_id"`
	Type           string           `json:"type"`
	ItemID         string           `json:"item_id"`
	Qty            decimal.Decimal  `json:"qty"`
	Uom            string           `json:"uom"`
	FromLocationID string           `json:"from_location_id,omitempty"`
	ToLocationID   string           `json:"to_location_id,omitempty"`
	LocationID     string           `json:"location_id,omitempty"`
	Direction      string           `json:"direction,omitempty"`
	ReferenceID    string           `json:"reference_id,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
}

// InventoryEventResponse evento del ledger.
type InventoryEventResponse struct {
	ID             string           `json:"id"`
	SiteID         string           `json:"site_id"`
	Type           string           `json:"type"`
	ItemID         string           `json:"item_id"`
	FromLocationID string           `json:"from_location_id,omitempty"`
	ToLocationID   string           `json:"to_location_id,omitempty"`
	Qty            decimal.Decimal  `json:"qty"`
	Uom            string           `json:"uom"`
	QtyBase        decimal.Decimal  `json:"qty_base"`
	ReferenceID    string           `json:"reference_id,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	CreatedBy      string           `json:"created_by"`
}

// BalanceResponse saldo de una ubicación.
type BalanceResponse struct {
	LocationID   string          `json:"location_id"`
	LocationType string          `json:"location_type,omitempty"`
	QtyBase      decimal.Decimal `json:"qty_base"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// ApplyEventResponse evento persistido y saldos resultantes.
type ApplyEventResponse struct {
	Event    InventoryEventResponse `json:"event"`
	Balances []BalanceResponse      `json:"balances"`
}

// AvailableResponse disponibilidad del ítem en el sitio.
type AvailableResponse struct {
	SiteID    string          `json:"site_id"`
	ItemID    string          `json:"item_id"`
	Available decimal.Decimal `json:"available"`
}

// DiscrepancyResponse diferencia entre saldo guardado y reconstruido.
type DiscrepancyResponse struct {
	LocationID string          `json:"location_id"`
	Stored     decimal.Decimal `json:"stored"`
	Replayed   decimal.Decimal `json:"replayed"`
}
