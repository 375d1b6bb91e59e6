package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// ItemRepository puerto de datos maestros de ítems.
type ItemRepository interface {
	// GetByID devuelve domain.ErrNotFound si el ítem no existe en el tenant.
	GetByID(ctx context.Context, tenantID, itemID string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del ítem (actualización de costos).
	GetForUpdate(ctx context.Context, tenantID, itemID string) (*entity.Item, error)
	UpdateCosts(ctx context.Context, item *entity.Item) error
}
