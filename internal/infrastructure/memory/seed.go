package memory

import (
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// La captura de datos maestros y de órdenes vive fuera de este núcleo; estas funciones
// cargan el estado confirmado directamente (modo demo y tests).

// SeedUom registra una unidad en el catálogo del tenant.
func (s *Store) SeedUom(u entity.UnitOfMeasure) {
	s.view(func(st *state) { st.uoms[uomKey{u.TenantID, u.Code}] = u })
}

// SeedItem registra o reemplaza un ítem.
func (s *Store) SeedItem(it entity.Item) {
	s.view(func(st *state) { st.items[it.ID] = it })
}

// SeedConversion agrega un factor de conversión.
func (s *Store) SeedConversion(c entity.UomConversion) {
	s.view(func(st *state) { st.conversions = append(st.conversions, c) })
}

// SeedLocation registra o reemplaza una ubicación.
func (s *Store) SeedLocation(l entity.Location) {
	s.view(func(st *state) { st.locations[l.ID] = l })
}

// SeedOrder registra o reemplaza una orden con sus líneas.
func (s *Store) SeedOrder(o entity.SalesOrder) {
	s.view(func(st *state) { st.orders[o.ID] = copyOrder(o) })
}

// EventCount cantidad total de eventos confirmados.
func (s *Store) EventCount() int {
	n := 0
	s.view(func(st *state) { n = len(st.events) })
	return n
}
