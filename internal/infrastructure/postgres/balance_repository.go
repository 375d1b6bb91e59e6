package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo saldos materializados (inventory_balances).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceSelect = `
	SELECT tenant_id, site_id, item_id, location_id, qty_base, version, updated_at
	FROM inventory_balances
	WHERE tenant_id = $1 AND site_id = $2 AND item_id = $3 AND location_id = $4`

// Get obtiene el saldo; cero si la fila no existe.
func (r *BalanceRepo) Get(ctx context.Context, key entity.BalanceKey) (*entity.InventoryBalance, error) {
	b, err := r.scanOne(ctx, balanceSelect, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return &entity.InventoryBalance{BalanceKey: key, QtyBase: decimal.Zero}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate crea la fila en cero si falta y la bloquea (SELECT FOR UPDATE).
func (r *BalanceRepo) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.InventoryBalance, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_balances (tenant_id, site_id, item_id, location_id, qty_base, version, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, now())
		ON CONFLICT (tenant_id, site_id, item_id, location_id) DO NOTHING`,
		key.TenantID, key.SiteID, key.ItemID, key.LocationID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure balance row: %w", err)
	}
	b, err := r.scanOne(ctx, balanceSelect+` FOR UPDATE`, key)
	if err != nil {
		return nil, fmt.Errorf("lock balance: %w", err)
	}
	return b, nil
}

func (r *BalanceRepo) scanOne(ctx context.Context, query string, key entity.BalanceKey) (*entity.InventoryBalance, error) {
	var b entity.InventoryBalance
	err := r.q.QueryRow(ctx, query, key.TenantID, key.SiteID, key.ItemID, key.LocationID).Scan(
		&b.TenantID, &b.SiteID, &b.ItemID, &b.LocationID, &b.QtyBase, &b.Version, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Save escribe la cantidad y la fecha, incrementando la versión.
func (r *BalanceRepo) Save(ctx context.Context, b *entity.InventoryBalance) error {
	query := `
		UPDATE inventory_balances
		SET qty_base = $5, updated_at = $6, version = version + 1
		WHERE tenant_id = $1 AND site_id = $2 AND item_id = $3 AND location_id = $4
		RETURNING version`
	err := r.q.QueryRow(ctx, query,
		b.TenantID, b.SiteID, b.ItemID, b.LocationID, b.QtyBase, b.UpdatedAt,
	).Scan(&b.Version)
	if err != nil {
		return fmt.Errorf("save balance: %w", err)
	}
	return nil
}

// ListByItem saldos por ubicación ordenados FIFO (updated_at, location_id).
func (r *BalanceRepo) ListByItem(ctx context.Context, tenantID, siteID, itemID string, types []entity.LocationType) ([]entity.LocationBalance, error) {
	query := `
		SELECT b.location_id, l.type, b.qty_base, b.updated_at
		FROM inventory_balances b
		JOIN locations l ON l.id = b.location_id
		WHERE b.tenant_id = $1 AND b.site_id = $2 AND b.item_id = $3 AND l.type = ANY($4)
		ORDER BY b.updated_at ASC, b.location_id ASC`
	rows, err := r.q.Query(ctx, query, tenantID, siteID, itemID, typeNames(types))
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()

	var out []entity.LocationBalance
	for rows.Next() {
		var (
			lb  entity.LocationBalance
			typ string
		)
		if err := rows.Scan(&lb.LocationID, &typ, &lb.QtyBase, &lb.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		lb.LocationType = entity.LocationType(typ)
		out = append(out, lb)
	}
	return out, rows.Err()
}

func (r *BalanceRepo) SumByItem(ctx context.Context, tenantID, siteID, itemID string, types []entity.LocationType) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(b.qty_base), 0)
		FROM inventory_balances b
		JOIN locations l ON l.id = b.location_id
		WHERE b.tenant_id = $1 AND b.site_id = $2 AND b.item_id = $3 AND l.type = ANY($4)`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, tenantID, siteID, itemID, typeNames(types)).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum balances: %w", err)
	}
	return sum, nil
}

func (r *BalanceRepo) SumOnHand(ctx context.Context, tenantID, itemID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(qty_base), 0) FROM inventory_balances WHERE tenant_id = $1 AND item_id = $2`,
		tenantID, itemID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum on hand: %w", err)
	}
	return sum, nil
}

func typeNames(types []entity.LocationType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
