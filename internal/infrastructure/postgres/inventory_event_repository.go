package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
)

var _ repository.InventoryEventRepository = (*InventoryEventRepo)(nil)

// InventoryEventRepo ledger append-only. Un trigger en la tabla rechaza UPDATE y DELETE.
type InventoryEventRepo struct {
	q Querier
}

// NewInventoryEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryEventRepository(q Querier) *InventoryEventRepo {
	return &InventoryEventRepo{q: q}
}

// Create inserta el evento.
func (r *InventoryEventRepo) Create(ctx context.Context, ev *entity.InventoryEvent) error {
	query := `
		INSERT INTO inventory_events (id, tenant_id, site_id, type, item_id, from_location_id, to_location_id,
			qty, uom, qty_base, reference_id, unit_cost, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		ev.ID, ev.TenantID, ev.SiteID, string(ev.Type), ev.ItemID,
		nullable(ev.FromLocationID), nullable(ev.ToLocationID),
		ev.Qty, ev.Uom, ev.QtyBase, ev.ReferenceID, ev.UnitCost, ev.CreatedAt, ev.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create inventory event: %w", err)
	}
	return nil
}

// ListByItem eventos en orden de inserción (seq). Con limit > 0 devuelve los últimos limit.
func (r *InventoryEventRepo) ListByItem(ctx context.Context, tenantID, siteID, itemID string, limit int) ([]entity.InventoryEvent, error) {
	base := `
		SELECT seq, id, tenant_id, site_id, type, item_id, from_location_id, to_location_id,
			qty, uom, qty_base, reference_id, unit_cost, created_at, created_by
		FROM inventory_events
		WHERE tenant_id = $1 AND site_id = $2 AND item_id = $3`
	query := base + ` ORDER BY seq ASC`
	args := []any{tenantID, siteID, itemID}
	if limit > 0 {
		query = `SELECT * FROM (` + base + ` ORDER BY seq DESC LIMIT $4) e ORDER BY seq ASC`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory events: %w", err)
	}
	defer rows.Close()

	var out []entity.InventoryEvent
	for rows.Next() {
		var (
			ev       entity.InventoryEvent
			seq      int64
			typ      string
			from, to *string
		)
		if err := rows.Scan(&seq, &ev.ID, &ev.TenantID, &ev.SiteID, &typ, &ev.ItemID, &from, &to,
			&ev.Qty, &ev.Uom, &ev.QtyBase, &ev.ReferenceID, &ev.UnitCost, &ev.CreatedAt, &ev.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan inventory event: %w", err)
		}
		ev.Type = entity.EventType(typ)
		ev.FromLocationID = deref(from)
		ev.ToLocationID = deref(to)
		out = append(out, ev)
	}
	return out, rows.Err()
}
