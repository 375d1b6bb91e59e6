package entity

import "time"

// LocationType clasifica una ubicación física dentro de un sitio.
type LocationType string

const (
	LocationTypeStock     LocationType = "STOCK"     // almacenamiento, elegible para asignación y picking
	LocationTypeReceiving LocationType = "RECEIVING" // muelle de recepción
	LocationTypeShipping  LocationType = "SHIPPING"  // staging de despacho, elegible para asignación
	LocationTypeQCHold    LocationType = "QC_HOLD"   // retenido por calidad
)

// AllocationEligibleTypes tipos de ubicación que cuentan como disponibles para asignar.
var AllocationEligibleTypes = []LocationType{LocationTypeStock, LocationTypeShipping}

// PickableTypes tipos de ubicación de donde se generan líneas de picking.
var PickableTypes = []LocationType{LocationTypeStock}

// Valid indica si el tipo pertenece al catálogo.
func (t LocationType) Valid() bool {
	switch t {
	case LocationTypeStock, LocationTypeReceiving, LocationTypeShipping, LocationTypeQCHold:
		return true
	}
	return false
}

// Location ubicación física (estantería, muelle, zona) de un sitio.
type Location struct {
	ID        string
	TenantID  string
	SiteID    string
	Code      string
	Name      string
	Type      LocationType
	CreatedAt time.Time
}
