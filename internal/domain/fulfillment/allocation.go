package fulfillment

import "github.com/shopspring/decimal"

// AvailabilityPool disponibilidad por ítem que se va consumiendo a medida que se asignan
// líneas de una misma orden, para que dos líneas del mismo ítem no cuenten dos veces el saldo.
type AvailabilityPool struct {
	remaining map[string]decimal.Decimal
}

// NewAvailabilityPool crea un pool vacío.
func NewAvailabilityPool() *AvailabilityPool {
	return &AvailabilityPool{remaining: make(map[string]decimal.Decimal)}
}

// Set fija la disponibilidad del ítem (saldo elegible menos reservas de otras órdenes).
func (p *AvailabilityPool) Set(itemID string, available decimal.Decimal) {
	p.remaining[itemID] = available
}

// Take asigna hasta needed unidades del ítem: toAllocate = min(needed, max(disponible, 0)).
func (p *AvailabilityPool) Take(itemID string, needed decimal.Decimal) (allocated, shortfall decimal.Decimal) {
	if !needed.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	avail := decimal.Max(p.remaining[itemID], decimal.Zero)
	allocated = decimal.Min(needed, avail)
	p.remaining[itemID] = avail.Sub(allocated)
	return allocated, needed.Sub(allocated)
}
