package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// LocationRepository ubicaciones físicas por sitio.
type LocationRepository interface {
	// GetByID devuelve domain.ErrNotFound si la ubicación no existe en el tenant.
	GetByID(ctx context.Context, tenantID, locationID string) (*entity.Location, error)
}
