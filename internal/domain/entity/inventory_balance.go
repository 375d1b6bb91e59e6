package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceKey identifica un saldo: (tenant, sitio, ítem, ubicación).
type BalanceKey struct {
	TenantID   string
	SiteID     string
	ItemID     string
	LocationID string
}

// InventoryBalance saldo materializado en unidad base. Se crea al primer evento que toca la
// ubicación y nunca se borra (queda en cero). UpdatedAt es la llave FIFO del picking.
type InventoryBalance struct {
	BalanceKey
	QtyBase   decimal.Decimal
	Version   int64
	UpdatedAt time.Time
}

// LocationBalance saldo de un ítem en una ubicación junto con el tipo de la ubicación.
type LocationBalance struct {
	LocationID   string
	LocationType LocationType
	QtyBase      decimal.Decimal
	UpdatedAt    time.Time
}
