package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fulfillment-ledger/internal/application/audit"
	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/application/ports"
	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	domainfl "github.com/jhoicas/fulfillment-ledger/internal/domain/fulfillment"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
	"github.com/jhoicas/fulfillment-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// DefaultTaskPrefix prefijo del número de tarea (PICK-000123).
const DefaultTaskPrefix = "PICK"

// PickTaskUseCase genera y avanza tareas de picking.
type PickTaskUseCase struct {
	tx      inventory.TxRunner
	ledger  *inventory.LedgerUseCase
	prefix  string
	audit   *audit.Emitter
	metrics ports.OperationRecorder
	log     *logger.Logger
	now     func() time.Time
}

// NewPickTaskUseCase construye el caso de uso. prefix vacío usa DefaultTaskPrefix.
func NewPickTaskUseCase(tx inventory.TxRunner, ledger *inventory.LedgerUseCase, prefix string, emitter *audit.Emitter, metrics ports.OperationRecorder, log *logger.Logger) *PickTaskUseCase {
	if prefix == "" {
		prefix = DefaultTaskPrefix
	}
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if emitter == nil {
		emitter = audit.NewEmitter(nil, log)
	}
	return &PickTaskUseCase{
		tx: tx, ledger: ledger, prefix: prefix, audit: emitter, metrics: metrics,
		log: log.Component("picking"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreatePickTask genera la tarea de una orden ALLOCATED tomando de ubicaciones STOCK en orden FIFO.
// Falla con ActiveTaskExistsError si la orden ya tiene una tarea OPEN o IN_PROGRESS.
func (uc *PickTaskUseCase) CreatePickTask(ctx context.Context, tenantID, orderID, userID string) (*entity.PickTask, error) {
	if tenantID == "" || orderID == "" {
		return nil, domain.NewValidationError("order_id", "requerido")
	}
	start := time.Now()
	var task *entity.PickTask
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		task = nil
		order, err := repos.Orders.GetForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		active, err := repos.PickTasks.FindActiveByOrder(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if active != nil {
			return &domain.ActiveTaskExistsError{OrderID: orderID, TaskNumber: active.TaskNumber}
		}
		if order.Status != entity.OrderStatusAllocated {
			return &domain.InvalidStateError{Entity: "sales_order", ID: orderID, Status: string(order.Status), Operation: "create_pick_task"}
		}

		now := uc.now()
		t := &entity.PickTask{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			SiteID:    order.SiteID,
			OrderID:   orderID,
			Status:    entity.PickTaskStatusOpen,
			CreatedAt: now,
			CreatedBy: userID,
			UpdatedAt: now,
		}

		planner := domainfl.NewPickPlanner()
		for i := range order.Lines {
			line := &order.Lines[i]
			remaining := line.RemainingToPick()
			if domainfl.IsTerminalLine(line.Status) || !remaining.IsPositive() {
				continue
			}
			balances, err := repos.Balances.ListByItem(ctx, tenantID, order.SiteID, line.ItemID, entity.PickableTypes)
			if err != nil {
				return err
			}
			sources := make([]domainfl.SourceBalance, 0, len(balances))
			for _, b := range balances {
				sources = append(sources, domainfl.SourceBalance{LocationID: b.LocationID, QtyBase: b.QtyBase, UpdatedAt: b.UpdatedAt})
			}
			picks, short := planner.Plan(line.ItemID, remaining, sources)
			for _, p := range picks {
				t.Lines = append(t.Lines, entity.PickTaskLine{
					ID:          uuid.New().String(),
					TaskID:      t.ID,
					OrderLineID: line.ID,
					ItemID:      line.ItemID,
					LocationID:  p.LocationID,
					QtyBase:     p.QtyBase,
				})
			}
			if short.IsPositive() {
				uc.log.Warn().Str("order_id", orderID).Str("line_id", line.ID).Str("shortfall", short.String()).
					Msg("stock en ubicaciones STOCK no cubre lo asignado")
			}
			if line.Status == entity.LineStatusAllocated {
				if err := domainfl.TransitionLine(line, entity.LineStatusPicking); err != nil {
					return err
				}
				if err := repos.Orders.UpdateLine(ctx, line); err != nil {
					return err
				}
			}
		}

		if err := domainfl.TransitionOrder(order, entity.OrderStatusPicking); err != nil {
			return err
		}
		ok, err := repos.Orders.CompareAndSetStatus(ctx, tenantID, orderID, entity.OrderStatusAllocated, entity.OrderStatusPicking)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.ActiveTaskExistsError{OrderID: orderID}
		}

		n, err := repos.PickTasks.NextTaskNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		t.TaskNumber = fmt.Sprintf("%s-%06d", uc.prefix, n)
		if err := repos.PickTasks.Create(ctx, t); err != nil {
			if errors.Is(err, domain.ErrActiveTaskExists) {
				return &domain.ActiveTaskExistsError{OrderID: orderID}
			}
			return err
		}
		task = t
		return nil
	})
	uc.metrics.ObserveOperation("create_pick_task", domain.Code(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	uc.audit.Emit(ctx, entity.AuditEntry{
		TenantID:   tenantID,
		UserID:     userID,
		Action:     audit.ActionPickTaskCreated,
		EntityType: "pick_task",
		EntityID:   task.ID,
		Payload: map[string]any{
			"order_id":    orderID,
			"task_number": task.TaskNumber,
			"lines":       len(task.Lines),
		},
	})
	return task, nil
}

// StartPickTask OPEN -> IN_PROGRESS.
func (uc *PickTaskUseCase) StartPickTask(ctx context.Context, tenantID, taskID, userID string) (*entity.PickTask, error) {
	var task *entity.PickTask
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		t, err := repos.PickTasks.GetForUpdate(ctx, tenantID, taskID)
		if err != nil {
			return err
		}
		if err := domainfl.TransitionPickTask(t, entity.PickTaskStatusInProgress); err != nil {
			return err
		}
		t.UpdatedAt = uc.now()
		if err := repos.PickTasks.UpdateStatus(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Emit(ctx, entity.AuditEntry{
		TenantID: tenantID, UserID: userID, Action: audit.ActionPickTaskStarted,
		EntityType: "pick_task", EntityID: task.ID,
		Payload: map[string]any{"task_number": task.TaskNumber},
	})
	return task, nil
}

// CompletePickTask confirma el picking físico: cada línea de la tarea se traslada con un MOVE
// desde su ubicación origen a la ubicación de despacho indicada. El ledger vuelve a verificar
// el saldo; si alguna ubicación ya no alcanza, nada se aplica.
func (uc *PickTaskUseCase) CompletePickTask(ctx context.Context, tenantID, taskID, stagingLocationID, userID string) (*entity.PickTask, error) {
	if stagingLocationID == "" {
		return nil, domain.NewValidationError("staging_location_id", "requerido")
	}
	start := time.Now()
	var (
		task   *entity.PickTask
		events []*entity.InventoryEvent
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		task, events = nil, nil
		t, err := repos.PickTasks.GetForUpdate(ctx, tenantID, taskID)
		if err != nil {
			return err
		}
		if !t.Status.Active() {
			return &domain.InvalidTransitionError{Entity: "pick_task", From: string(t.Status), To: string(entity.PickTaskStatusCompleted)}
		}
		staging, err := repos.Locations.GetByID(ctx, tenantID, stagingLocationID)
		if err != nil {
			return err
		}
		if staging.SiteID != t.SiteID || staging.Type != entity.LocationTypeShipping {
			return domain.NewValidationError("staging_location_id", "debe ser una ubicación SHIPPING del mismo sitio")
		}
		order, err := repos.Orders.GetForUpdate(ctx, tenantID, t.OrderID)
		if err != nil {
			return err
		}

		uoms := newBaseUomCache(repos.Items, tenantID)
		picked := make(map[string]decimal.Decimal)
		for _, pl := range t.Lines {
			uom, err := uoms.get(ctx, pl.ItemID)
			if err != nil {
				return err
			}
			res, err := uc.ledger.ApplyInTx(ctx, repos, inventory.EventInput{
				TenantID:       tenantID,
				SiteID:         t.SiteID,
				UserID:         userID,
				Type:           entity.EventTypeMove,
				ItemID:         pl.ItemID,
				Qty:            pl.QtyBase,
				Uom:            uom,
				FromLocationID: pl.LocationID,
				ToLocationID:   stagingLocationID,
				ReferenceID:    t.TaskNumber,
			})
			if err != nil {
				return err
			}
			events = append(events, res.Event)
			picked[pl.OrderLineID] = picked[pl.OrderLineID].Add(pl.QtyBase)
		}

		for i := range order.Lines {
			line := &order.Lines[i]
			if line.Status != entity.LineStatusPicking {
				continue
			}
			line.QtyPicked = decimal.Min(line.QtyPicked.Add(picked[line.ID]), line.QtyAllocated)
			if err := domainfl.TransitionLine(line, entity.LineStatusPicked); err != nil {
				return err
			}
			if err := repos.Orders.UpdateLine(ctx, line); err != nil {
				return err
			}
		}

		if err := domainfl.TransitionPickTask(t, entity.PickTaskStatusCompleted); err != nil {
			return err
		}
		t.StagingLocationID = stagingLocationID
		t.UpdatedAt = uc.now()
		if err := repos.PickTasks.UpdateStatus(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	uc.metrics.ObserveOperation("complete_pick_task", domain.Code(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		uc.ledger.EmitApplied(ctx, ev)
	}
	uc.audit.Emit(ctx, entity.AuditEntry{
		TenantID: tenantID, UserID: userID, Action: audit.ActionPickTaskCompleted,
		EntityType: "pick_task", EntityID: task.ID,
		Payload: map[string]any{
			"task_number":         task.TaskNumber,
			"order_id":            task.OrderID,
			"staging_location_id": stagingLocationID,
			"moves":               len(events),
		},
	})
	return task, nil
}

// baseUomCache evita releer el ítem por cada línea de la misma tarea.
type baseUomCache struct {
	items    repository.ItemRepository
	tenantID string
	byItem   map[string]string
}

func newBaseUomCache(items repository.ItemRepository, tenantID string) *baseUomCache {
	return &baseUomCache{items: items, tenantID: tenantID, byItem: make(map[string]string)}
}

func (c *baseUomCache) get(ctx context.Context, itemID string) (string, error) {
	if u, ok := c.byItem[itemID]; ok {
		return u, nil
	}
	item, err := c.items.GetByID(ctx, c.tenantID, itemID)
	if err != nil {
		return "", err
	}
	c.byItem[itemID] = item.BaseUom
	return item.BaseUom, nil
}

// Get devuelve la tarea con sus líneas.
func (uc *PickTaskUseCase) Get(ctx context.Context, tenantID, taskID string) (*entity.PickTask, error) {
	var out *entity.PickTask
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		t, err := repos.PickTasks.GetByID(ctx, tenantID, taskID)
		out = t
		return err
	})
	return out, err
}

// ListByOrder tareas de la orden en orden de creación.
func (uc *PickTaskUseCase) ListByOrder(ctx context.Context, tenantID, orderID string) ([]entity.PickTask, error) {
	var out []entity.PickTask
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if _, err := repos.Orders.GetByID(ctx, tenantID, orderID); err != nil {
			return err
		}
		list, err := repos.PickTasks.ListByOrder(ctx, tenantID, orderID)
		out = list
		return err
	})
	return out, err
}
