package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo órdenes y líneas sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador.
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

const orderSelect = `
	SELECT id, tenant_id, site_id, number, customer_ref, status, created_at, updated_at
	FROM sales_orders WHERE id = $1 AND tenant_id = $2`

func (r *SalesOrderRepo) GetByID(ctx context.Context, tenantID, orderID string) (*entity.SalesOrder, error) {
	return r.get(ctx, orderSelect, tenantID, orderID)
}

// GetForUpdate bloquea la cabecera; las líneas solo se modifican con la cabecera bloqueada.
func (r *SalesOrderRepo) GetForUpdate(ctx context.Context, tenantID, orderID string) (*entity.SalesOrder, error) {
	return r.get(ctx, orderSelect+` FOR UPDATE`, tenantID, orderID)
}

func (r *SalesOrderRepo) get(ctx context.Context, query, tenantID, orderID string) (*entity.SalesOrder, error) {
	var (
		o      entity.SalesOrder
		status string
	)
	err := r.q.QueryRow(ctx, query, orderID, tenantID).Scan(
		&o.ID, &o.TenantID, &o.SiteID, &o.Number, &o.CustomerRef, &status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	o.Status = entity.OrderStatus(status)

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, line_no, item_id, qty_ordered, qty_allocated, qty_picked, qty_shipped, status
		FROM sales_order_lines WHERE order_id = $1 ORDER BY line_no`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("get sales order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			l  entity.SalesOrderLine
			st string
		)
		if err := rows.Scan(&l.ID, &l.OrderID, &l.LineNo, &l.ItemID,
			&l.QtyOrdered, &l.QtyAllocated, &l.QtyPicked, &l.QtyShipped, &st); err != nil {
			return nil, fmt.Errorf("scan sales order line: %w", err)
		}
		l.Status = entity.LineStatus(st)
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales order lines: %w", err)
	}
	return &o, nil
}

// CompareAndSetStatus UPDATE ... WHERE status = from; false si otra transacción ya la movió.
func (r *SalesOrderRepo) CompareAndSetStatus(ctx context.Context, tenantID, orderID string, from, to entity.OrderStatus) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales_orders SET status = $4, updated_at = now()
		WHERE id = $1 AND tenant_id = $2 AND status = $3`,
		orderID, tenantID, string(from), string(to),
	)
	if err != nil {
		return false, fmt.Errorf("update sales order status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SalesOrderRepo) UpdateLine(ctx context.Context, l *entity.SalesOrderLine) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales_order_lines
		SET qty_allocated = $2, qty_picked = $3, qty_shipped = $4, status = $5
		WHERE id = $1`,
		l.ID, l.QtyAllocated, l.QtyPicked, l.QtyShipped, string(l.Status),
	)
	if err != nil {
		return fmt.Errorf("update sales order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockItemAllocation advisory lock transaccional por (tenant, sitio, ítem).
func (r *SalesOrderRepo) LockItemAllocation(ctx context.Context, tenantID, siteID, itemID string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		"alloc:"+tenantID+":"+siteID+":"+itemID)
	if err != nil {
		return fmt.Errorf("lock item allocation: %w", err)
	}
	return nil
}

func (r *SalesOrderRepo) SumReserved(ctx context.Context, tenantID, siteID, itemID string) (decimal.Decimal, error) {
	statuses := make([]string, len(entity.ReservingOrderStatuses))
	for i, s := range entity.ReservingOrderStatuses {
		statuses[i] = string(s)
	}
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.qty_allocated - l.qty_shipped), 0)
		FROM sales_order_lines l
		JOIN sales_orders o ON o.id = l.order_id
		WHERE o.tenant_id = $1 AND o.site_id = $2 AND l.item_id = $3
		  AND o.status = ANY($4) AND l.status <> 'CANCELLED'`,
		tenantID, siteID, itemID, statuses,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum reserved: %w", err)
	}
	return sum, nil
}
