package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// InventoryEventRepository ledger append-only: solo inserción y lectura.
type InventoryEventRepository interface {
	Create(ctx context.Context, ev *entity.InventoryEvent) error
	// ListByItem eventos del ítem en el sitio en orden de aplicación; limit <= 0 devuelve todos.
	ListByItem(ctx context.Context, tenantID, siteID, itemID string, limit int) ([]entity.InventoryEvent, error)
}
