package fulfillment

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SourceBalance saldo candidato para picking.
type SourceBalance struct {
	LocationID string
	QtyBase    decimal.Decimal
	UpdatedAt  time.Time
}

// PickAllocation cantidad a tomar de una ubicación.
type PickAllocation struct {
	LocationID string
	QtyBase    decimal.Decimal
}

// PickPlanner reparte cantidades a recoger entre ubicaciones en orden FIFO (UpdatedAt ascendente,
// LocationID como desempate). Recuerda lo ya planificado por ubicación para no sobreasignar
// una misma ubicación a dos líneas del mismo ítem.
type PickPlanner struct {
	used map[string]decimal.Decimal // itemID|locationID
}

// NewPickPlanner crea un planificador para una tarea.
func NewPickPlanner() *PickPlanner {
	return &PickPlanner{used: make(map[string]decimal.Decimal)}
}

// Plan recorre las fuentes y toma min(pendiente, saldo) de cada una hasta cubrir remaining.
// Las fuentes en cero o negativas se saltan. Devuelve el faltante si no alcanza.
func (p *PickPlanner) Plan(itemID string, remaining decimal.Decimal, sources []SourceBalance) ([]PickAllocation, decimal.Decimal) {
	ordered := make([]SourceBalance, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].UpdatedAt.Equal(ordered[j].UpdatedAt) {
			return ordered[i].UpdatedAt.Before(ordered[j].UpdatedAt)
		}
		return ordered[i].LocationID < ordered[j].LocationID
	})

	var out []PickAllocation
	for _, src := range ordered {
		if !remaining.IsPositive() {
			break
		}
		key := itemID + "|" + src.LocationID
		free := src.QtyBase.Sub(p.used[key])
		if !free.IsPositive() {
			continue
		}
		take := decimal.Min(remaining, free)
		p.used[key] = p.used[key].Add(take)
		remaining = remaining.Sub(take)
		out = append(out, PickAllocation{LocationID: src.LocationID, QtyBase: take})
	}
	return out, decimal.Max(remaining, decimal.Zero)
}
