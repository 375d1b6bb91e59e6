package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo ubicaciones sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) GetByID(ctx context.Context, tenantID, locationID string) (*entity.Location, error) {
	query := `
		SELECT id, tenant_id, site_id, code, name, type, created_at
		FROM locations WHERE id = $1 AND tenant_id = $2`
	var (
		l   entity.Location
		typ string
	)
	err := r.q.QueryRow(ctx, query, locationID, tenantID).Scan(
		&l.ID, &l.TenantID, &l.SiteID, &l.Code, &l.Name, &typ, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	l.Type = entity.LocationType(typ)
	return &l, nil
}
