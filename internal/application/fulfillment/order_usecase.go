package fulfillment

import (
	"context"
	"time"

	"github.com/jhoicas/fulfillment-ledger/internal/application/audit"
	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/application/ports"
	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	domainfl "github.com/jhoicas/fulfillment-ledger/internal/domain/fulfillment"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
	"github.com/jhoicas/fulfillment-ledger/pkg/logger"
)

// OrderUseCase ciclo de vida de la orden: confirmación, cancelación y avance posterior al picking.
type OrderUseCase struct {
	tx      inventory.TxRunner
	ledger  *inventory.LedgerUseCase
	audit   *audit.Emitter
	metrics ports.OperationRecorder
	log     *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(tx inventory.TxRunner, ledger *inventory.LedgerUseCase, emitter *audit.Emitter, metrics ports.OperationRecorder, log *logger.Logger) *OrderUseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if emitter == nil {
		emitter = audit.NewEmitter(nil, log)
	}
	return &OrderUseCase{tx: tx, ledger: ledger, audit: emitter, metrics: metrics, log: log.Component("orders")}
}

// Get devuelve la orden con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, tenantID, orderID string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		o, err := repos.Orders.GetByID(ctx, tenantID, orderID)
		out = o
		return err
	})
	return out, err
}

// Confirm DRAFT -> CONFIRMED. Requiere al menos una línea y cantidades positivas.
func (uc *OrderUseCase) Confirm(ctx context.Context, tenantID, orderID, userID string) (*entity.SalesOrder, error) {
	return uc.change(ctx, "confirm_order", audit.ActionOrderConfirmed, tenantID, orderID, userID,
		func(ctx context.Context, repos repository.TxRepos, order *entity.SalesOrder) error {
			if len(order.Lines) == 0 {
				return domain.NewValidationError("lines", "la orden no tiene líneas")
			}
			for _, l := range order.Lines {
				if !l.QtyOrdered.IsPositive() {
					return domain.NewValidationError("qty_ordered", "la línea "+l.ID+" debe tener cantidad positiva")
				}
			}
			return uc.setStatus(ctx, repos, order, entity.OrderStatusConfirmed)
		})
}

// Cancel lleva la orden a CANCELLED desde cualquier estado no terminal, cancela sus líneas
// abiertas y la tarea de picking activa. Las reservas se liberan al salir de los estados vivos.
func (uc *OrderUseCase) Cancel(ctx context.Context, tenantID, orderID, userID string) (*entity.SalesOrder, error) {
	return uc.change(ctx, "cancel_order", audit.ActionOrderCancelled, tenantID, orderID, userID,
		func(ctx context.Context, repos repository.TxRepos, order *entity.SalesOrder) error {
			if !domainfl.CanTransitionOrder(order.Status, entity.OrderStatusCancelled) {
				return &domain.InvalidTransitionError{Entity: "sales_order", From: string(order.Status), To: string(entity.OrderStatusCancelled)}
			}
			for i := range order.Lines {
				line := &order.Lines[i]
				if domainfl.IsTerminalLine(line.Status) {
					continue
				}
				if err := domainfl.TransitionLine(line, entity.LineStatusCancelled); err != nil {
					return err
				}
				if err := repos.Orders.UpdateLine(ctx, line); err != nil {
					return err
				}
			}
			active, err := repos.PickTasks.FindActiveByOrder(ctx, order.TenantID, order.ID)
			if err != nil {
				return err
			}
			if active != nil {
				if err := domainfl.TransitionPickTask(active, entity.PickTaskStatusCancelled); err != nil {
					return err
				}
				active.UpdatedAt = time.Now().UTC()
				if err := repos.PickTasks.UpdateStatus(ctx, active); err != nil {
					return err
				}
			}
			return uc.setStatus(ctx, repos, order, entity.OrderStatusCancelled)
		})
}

// Advance avanza la orden a PACKED, SHIPPED o DELIVERED sin saltar estados.
// PACKED exige que no quede picking activo. SHIPPED descuenta del ledger (ISSUE) lo que quedó
// en las ubicaciones de despacho de cada tarea completada y marca las líneas como despachadas.
func (uc *OrderUseCase) Advance(ctx context.Context, tenantID, orderID string, to entity.OrderStatus, userID string) (*entity.SalesOrder, error) {
	switch to {
	case entity.OrderStatusPacked, entity.OrderStatusShipped, entity.OrderStatusDelivered:
	default:
		return nil, domain.NewValidationError("status", "solo se admite PACKED, SHIPPED o DELIVERED")
	}
	var issued []*entity.InventoryEvent
	order, err := uc.change(ctx, "advance_order", audit.ActionOrderAdvanced, tenantID, orderID, userID,
		func(ctx context.Context, repos repository.TxRepos, order *entity.SalesOrder) error {
			issued = nil
			if !domainfl.CanTransitionOrder(order.Status, to) {
				return &domain.InvalidTransitionError{Entity: "sales_order", From: string(order.Status), To: string(to)}
			}
			switch to {
			case entity.OrderStatusPacked:
				active, err := repos.PickTasks.FindActiveByOrder(ctx, order.TenantID, order.ID)
				if err != nil {
					return err
				}
				if active != nil {
					return &domain.InvalidStateError{Entity: "sales_order", ID: order.ID, Status: string(order.Status), Operation: "pack"}
				}
			case entity.OrderStatusShipped:
				evs, err := uc.ship(ctx, repos, order, userID)
				if err != nil {
					return err
				}
				issued = evs
			}
			return uc.setStatus(ctx, repos, order, to)
		})
	if err != nil {
		return nil, err
	}
	for _, ev := range issued {
		uc.ledger.EmitApplied(ctx, ev)
	}
	return order, nil
}

func (uc *OrderUseCase) ship(ctx context.Context, repos repository.TxRepos, order *entity.SalesOrder, userID string) ([]*entity.InventoryEvent, error) {
	tasks, err := repos.PickTasks.ListByOrder(ctx, order.TenantID, order.ID)
	if err != nil {
		return nil, err
	}
	uoms := newBaseUomCache(repos.Items, order.TenantID)
	var events []*entity.InventoryEvent
	for _, t := range tasks {
		if t.Status != entity.PickTaskStatusCompleted || t.StagingLocationID == "" {
			continue
		}
		for _, pl := range t.Lines {
			uom, err := uoms.get(ctx, pl.ItemID)
			if err != nil {
				return nil, err
			}
			res, err := uc.ledger.ApplyInTx(ctx, repos, inventory.EventInput{
				TenantID:       order.TenantID,
				SiteID:         order.SiteID,
				UserID:         userID,
				Type:           entity.EventTypeIssue,
				ItemID:         pl.ItemID,
				Qty:            pl.QtyBase,
				Uom:            uom,
				FromLocationID: t.StagingLocationID,
				ReferenceID:    order.ID,
			})
			if err != nil {
				return nil, err
			}
			events = append(events, res.Event)
		}
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.Status != entity.LineStatusPicked {
			continue
		}
		line.QtyShipped = line.QtyPicked
		if err := domainfl.TransitionLine(line, entity.LineStatusShipped); err != nil {
			return nil, err
		}
		if err := repos.Orders.UpdateLine(ctx, line); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// setStatus valida la arista y la aplica con compare-and-set sobre el estado leído.
func (uc *OrderUseCase) setStatus(ctx context.Context, repos repository.TxRepos, order *entity.SalesOrder, to entity.OrderStatus) error {
	from := order.Status
	if err := domainfl.TransitionOrder(order, to); err != nil {
		return err
	}
	ok, err := repos.Orders.CompareAndSetStatus(ctx, order.TenantID, order.ID, from, to)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.InvalidStateError{Entity: "sales_order", ID: order.ID, Status: string(from), Operation: string(to)}
	}
	return nil
}

type orderMutation func(ctx context.Context, repos repository.TxRepos, order *entity.SalesOrder) error

func (uc *OrderUseCase) change(ctx context.Context, op, action, tenantID, orderID, userID string, fn orderMutation) (*entity.SalesOrder, error) {
	if tenantID == "" || orderID == "" {
		return nil, domain.NewValidationError("order_id", "requerido")
	}
	start := time.Now()
	var (
		out  *entity.SalesOrder
		from entity.OrderStatus
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		order, err := repos.Orders.GetForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		from = order.Status
		if err := fn(ctx, repos, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	uc.metrics.ObserveOperation(op, domain.Code(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	uc.audit.Emit(ctx, entity.AuditEntry{
		TenantID:   tenantID,
		UserID:     userID,
		Action:     action,
		EntityType: "sales_order",
		EntityID:   orderID,
		Payload:    map[string]any{"from": string(from), "to": string(out.Status)},
	})
	uc.log.Info().Str("tenant_id", tenantID).Str("order_id", orderID).
		Str("from", string(from)).Str("to", string(out.Status)).Msg("orden actualizada")
	return out, nil
}
