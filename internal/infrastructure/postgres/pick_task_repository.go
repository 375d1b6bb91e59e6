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

var _ repository.PickTaskRepository = (*PickTaskRepo)(nil)

// activeTaskIndex índice único parcial: una sola tarea OPEN/IN_PROGRESS por orden.
const activeTaskIndex = "pick_tasks_one_active_per_order"

// PickTaskRepo tareas de picking y su consecutivo.
type PickTaskRepo struct {
	q Querier
}

// NewPickTaskRepository construye el adaptador.
func NewPickTaskRepository(q Querier) *PickTaskRepo {
	return &PickTaskRepo{q: q}
}

const taskColumns = `id, tenant_id, site_id, order_id, task_number, status, staging_location_id, created_at, created_by, updated_at`

func (r *PickTaskRepo) FindActiveByOrder(ctx context.Context, tenantID, orderID string) (*entity.PickTask, error) {
	t, err := r.getOne(ctx, `SELECT `+taskColumns+` FROM pick_tasks
		WHERE tenant_id = $1 AND order_id = $2 AND status IN ('OPEN', 'IN_PROGRESS') LIMIT 1`, tenantID, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return t, err
}

func (r *PickTaskRepo) ListByOrder(ctx context.Context, tenantID, orderID string) ([]entity.PickTask, error) {
	rows, err := r.q.Query(ctx, `SELECT `+taskColumns+` FROM pick_tasks
		WHERE tenant_id = $1 AND order_id = $2 ORDER BY created_at, task_number`, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("list pick tasks: %w", err)
	}
	var out []entity.PickTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pick tasks: %w", err)
	}
	for i := range out {
		if err := r.loadLines(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NextTaskNumber consecutivo por tenant; la fila queda bloqueada hasta el commit, así que
// ningún número se entrega dos veces.
func (r *PickTaskRepo) NextTaskNumber(ctx context.Context, tenantID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO pick_task_sequences (tenant_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id)
		DO UPDATE SET last_number = pick_task_sequences.last_number + 1
		RETURNING last_number`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next pick task number: %w", err)
	}
	return n, nil
}

func (r *PickTaskRepo) Create(ctx context.Context, t *entity.PickTask) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO pick_tasks (id, tenant_id, site_id, order_id, task_number, status, staging_location_id, created_at, created_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.TenantID, t.SiteID, t.OrderID, t.TaskNumber, string(t.Status),
		nullable(t.StagingLocationID), t.CreatedAt, t.CreatedBy, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == activeTaskIndex {
			return domain.ErrActiveTaskExists
		}
		return fmt.Errorf("create pick task: %w", err)
	}
	for _, l := range t.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO pick_task_lines (id, task_id, order_line_id, item_id, location_id, qty_base, lot_ref)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, t.ID, l.OrderLineID, l.ItemID, l.LocationID, l.QtyBase, l.LotRef,
		)
		if err != nil {
			return fmt.Errorf("create pick task line: %w", err)
		}
	}
	return nil
}

func (r *PickTaskRepo) GetByID(ctx context.Context, tenantID, taskID string) (*entity.PickTask, error) {
	return r.getOne(ctx, `SELECT `+taskColumns+` FROM pick_tasks WHERE tenant_id = $1 AND id = $2`, tenantID, taskID)
}

func (r *PickTaskRepo) GetForUpdate(ctx context.Context, tenantID, taskID string) (*entity.PickTask, error) {
	return r.getOne(ctx, `SELECT `+taskColumns+` FROM pick_tasks WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, taskID)
}

func (r *PickTaskRepo) UpdateStatus(ctx context.Context, t *entity.PickTask) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE pick_tasks SET status = $3, staging_location_id = $4, updated_at = $5
		WHERE tenant_id = $1 AND id = $2`,
		t.TenantID, t.ID, string(t.Status), nullable(t.StagingLocationID), t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pick task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PickTaskRepo) getOne(ctx context.Context, query string, args ...any) (*entity.PickTask, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get pick task: %w", err)
	}
	var t *entity.PickTask
	if rows.Next() {
		t, err = scanTask(rows)
	}
	rows.Close()
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get pick task: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if err := r.loadLines(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PickTaskRepo) loadLines(ctx context.Context, t *entity.PickTask) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, task_id, order_line_id, item_id, location_id, qty_base, lot_ref
		FROM pick_task_lines WHERE task_id = $1 ORDER BY id`, t.ID)
	if err != nil {
		return fmt.Errorf("get pick task lines: %w", err)
	}
	defer rows.Close()
	t.Lines = nil
	for rows.Next() {
		var l entity.PickTaskLine
		if err := rows.Scan(&l.ID, &l.TaskID, &l.OrderLineID, &l.ItemID, &l.LocationID, &l.QtyBase, &l.LotRef); err != nil {
			return fmt.Errorf("scan pick task line: %w", err)
		}
		t.Lines = append(t.Lines, l)
	}
	return rows.Err()
}

func scanTask(row pgx.Row) (*entity.PickTask, error) {
	var (
		t       entity.PickTask
		status  string
		staging *string
	)
	if err := row.Scan(&t.ID, &t.TenantID, &t.SiteID, &t.OrderID, &t.TaskNumber, &status,
		&staging, &t.CreatedAt, &t.CreatedBy, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan pick task: %w", err)
	}
	t.Status = entity.PickTaskStatus(status)
	t.StagingLocationID = deref(staging)
	return &t, nil
}
