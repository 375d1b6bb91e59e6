package inventory

import (
	"fmt"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Delta efecto de un evento sobre el saldo de una ubicación.
// Si Absolute es true, Amount reemplaza el saldo (COUNT); si no, se suma.
type Delta struct {
	LocationID string
	Amount     decimal.Decimal
	Absolute   bool
}

// Apply aplica el delta a un saldo.
func (d Delta) Apply(current decimal.Decimal) decimal.Decimal {
	if d.Absolute {
		return d.Amount
	}
	return current.Add(d.Amount)
}

// Effects deriva los deltas de saldo de un evento ya resuelto a unidad base.
// Es la única definición del efecto de cada tipo; la usan el ledger y la reconstrucción.
func Effects(ev *entity.InventoryEvent) ([]Delta, error) {
	switch ev.Type {
	case entity.EventTypeReceive:
		return []Delta{{LocationID: ev.ToLocationID, Amount: ev.QtyBase}}, nil
	case entity.EventTypeMove:
		return []Delta{
			{LocationID: ev.FromLocationID, Amount: ev.QtyBase.Neg()},
			{LocationID: ev.ToLocationID, Amount: ev.QtyBase},
		}, nil
	case entity.EventTypeConsume, entity.EventTypeIssue:
		return []Delta{{LocationID: ev.FromLocationID, Amount: ev.QtyBase.Neg()}}, nil
	case entity.EventTypeAdjust:
		loc := ev.ToLocationID
		if ev.QtyBase.IsNegative() {
			loc = ev.FromLocationID
		}
		return []Delta{{LocationID: loc, Amount: ev.QtyBase}}, nil
	case entity.EventTypeCount:
		return []Delta{{LocationID: ev.ToLocationID, Amount: ev.QtyBase, Absolute: true}}, nil
	}
	return nil, fmt.Errorf("tipo de evento desconocido: %s", ev.Type)
}

// ChecksSource indica si el evento exige que el origen cubra la cantidad (MOVE, CONSUME/ISSUE).
// ADJUST y COUNT representan la verdad física y no pasan por este chequeo.
func ChecksSource(t entity.EventType) bool {
	switch t {
	case entity.EventTypeMove, entity.EventTypeConsume, entity.EventTypeIssue:
		return true
	}
	return false
}

// Replay reconstruye los saldos por ubicación plegando los eventos en orden.
func Replay(events []entity.InventoryEvent) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for i := range events {
		deltas, err := Effects(&events[i])
		if err != nil {
			return nil, err
		}
		for _, d := range deltas {
			out[d.LocationID] = d.Apply(out[d.LocationID])
		}
	}
	return out, nil
}
