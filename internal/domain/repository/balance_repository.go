package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BalanceRepository saldos materializados por (tenant, sitio, ítem, ubicación).
// Las mutaciones solo ocurren dentro de la transacción del ledger.
type BalanceRepository interface {
	// Get devuelve un saldo en cero si la fila no existe.
	Get(ctx context.Context, key entity.BalanceKey) (*entity.InventoryBalance, error)
	// GetForUpdate crea la fila si no existe y la bloquea hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.InventoryBalance, error)
	Save(ctx context.Context, balance *entity.InventoryBalance) error
	// ListByItem saldos del ítem en el sitio para los tipos de ubicación dados,
	// ordenados por UpdatedAt ascendente y LocationID.
	ListByItem(ctx context.Context, tenantID, siteID, itemID string, types []entity.LocationType) ([]entity.LocationBalance, error)
	SumByItem(ctx context.Context, tenantID, siteID, itemID string, types []entity.LocationType) (decimal.Decimal, error)
	// SumOnHand saldo total del ítem en todos los sitios y ubicaciones del tenant.
	SumOnHand(ctx context.Context, tenantID, itemID string) (decimal.Decimal, error)
}
