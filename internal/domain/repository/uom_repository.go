package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// UomRepository catálogo de unidades y conversiones del tenant.
type UomRepository interface {
	Exists(ctx context.Context, tenantID, code string) (bool, error)
	// FindConversion busca el factor from -> to; primero la conversión del ítem y luego la global.
	// Devuelve (nil, nil) si no existe.
	FindConversion(ctx context.Context, tenantID, itemID, from, to string) (*entity.UomConversion, error)
}
