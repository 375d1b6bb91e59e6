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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo ítems sobre PostgreSQL (pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, tenant_id, sku, name, base_uom, standard_cost, average_cost, last_cost, created_at, updated_at`

func (r *ItemRepo) GetByID(ctx context.Context, tenantID, itemID string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 AND tenant_id = $2`, tenantID, itemID)
}

// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, tenantID, itemID string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, tenantID, itemID)
}

func (r *ItemRepo) get(ctx context.Context, query, tenantID, itemID string) (*entity.Item, error) {
	var it entity.Item
	err := r.q.QueryRow(ctx, query, itemID, tenantID).Scan(
		&it.ID, &it.TenantID, &it.SKU, &it.Name, &it.BaseUom,
		&it.StandardCost, &it.AverageCost, &it.LastCost, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// UpdateCosts persiste costo estándar, promedio y último.
func (r *ItemRepo) UpdateCosts(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET standard_cost = $3, average_cost = $4, last_cost = $5, updated_at = $6
		WHERE id = $1 AND tenant_id = $2`
	_, err := r.q.Exec(ctx, query, it.ID, it.TenantID, it.StandardCost, it.AverageCost, it.LastCost, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update item costs: %w", err)
	}
	return nil
}
