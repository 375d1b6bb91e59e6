package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un SKU del inventario. Todas las cantidades del ledger se expresan en BaseUom.
// Los costos son opcionales; AverageCost y LastCost se actualizan con cada RECEIVE que trae costo.
type Item struct {
	ID           string
	TenantID     string
	SKU          string // único por tenant
	Name         string
	BaseUom      string
	StandardCost decimal.NullDecimal
	AverageCost  decimal.NullDecimal
	LastCost     decimal.NullDecimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
