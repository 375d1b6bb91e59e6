package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType tipo de evento del ledger.
type EventType string

const (
	EventTypeReceive EventType = "RECEIVE" // entrada a ToLocation
	EventTypeMove    EventType = "MOVE"    // traslado FromLocation -> ToLocation
	EventTypeConsume EventType = "CONSUME" // salida desde FromLocation
	EventTypeIssue   EventType = "ISSUE"   // alias de CONSUME
	EventTypeAdjust  EventType = "ADJUST"  // corrección con signo
	EventTypeCount   EventType = "COUNT"   // conteo físico: fija el saldo absoluto
)

// AdjustDirection sentido de un ADJUST.
type AdjustDirection string

const (
	AdjustAdd      AdjustDirection = "ADD"
	AdjustSubtract AdjustDirection = "SUBTRACT"
)

// InventoryEvent registro inmutable del ledger; se inserta una sola vez y nunca se actualiza.
// Para ADJUST, QtyBase lleva signo (negativo en SUBTRACT, con FromLocationID);
// para COUNT, QtyBase es el saldo contado en ToLocationID.
type InventoryEvent struct {
	ID             string
	TenantID       string
	SiteID         string
	Type           EventType
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Qty            decimal.Decimal // cantidad tal como se ingresó
	Uom            string
	QtyBase        decimal.Decimal
	ReferenceID    string
	UnitCost       decimal.NullDecimal
	CreatedAt      time.Time
	CreatedBy      string
}
