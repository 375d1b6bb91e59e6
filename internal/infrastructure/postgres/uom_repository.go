package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
)

var _ repository.UomRepository = (*UomRepo)(nil)

// UomRepo catálogo de unidades y conversiones.
type UomRepo struct {
	q Querier
}

// NewUomRepository construye el adaptador.
func NewUomRepository(q Querier) *UomRepo {
	return &UomRepo{q: q}
}

func (r *UomRepo) Exists(ctx context.Context, tenantID, code string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM units_of_measure WHERE tenant_id = $1 AND code = $2)`,
		tenantID, code,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("uom exists: %w", err)
	}
	return ok, nil
}

// FindConversion la conversión del ítem gana sobre la global (item_id NULL).
func (r *UomRepo) FindConversion(ctx context.Context, tenantID, itemID, from, to string) (*entity.UomConversion, error) {
	query := `
		SELECT id, tenant_id, item_id, from_uom, to_uom, factor
		FROM uom_conversions
		WHERE tenant_id = $1 AND from_uom = $3 AND to_uom = $4
		  AND (item_id = $2 OR item_id IS NULL)
		ORDER BY item_id NULLS LAST
		LIMIT 1`
	var (
		c      entity.UomConversion
		itemFK *string
	)
	err := r.q.QueryRow(ctx, query, tenantID, itemID, from, to).Scan(
		&c.ID, &c.TenantID, &itemFK, &c.FromUom, &c.ToUom, &c.Factor,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find uom conversion: %w", err)
	}
	c.ItemID = deref(itemFK)
	return &c, nil
}
