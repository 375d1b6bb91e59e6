package fulfillment

import (
	"context"
	"sort"
	"time"

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

// LineAllocation resultado de asignación de una línea.
type LineAllocation struct {
	LineID       string
	ItemID       string
	Needed       decimal.Decimal // pendiente antes de esta corrida
	Allocated    decimal.Decimal // asignado en esta corrida
	QtyAllocated decimal.Decimal // acumulado de la línea
	Shortfall    decimal.Decimal
	Status       entity.LineStatus
}

// AllocationResult resumen por orden.
type AllocationResult struct {
	OrderID        string
	Status         entity.OrderStatus
	FullyAllocated bool
	Lines          []LineAllocation
}

// AllocateUseCase reserva lógicamente disponibilidad para las líneas de una orden confirmada.
// No toca saldos: el decremento físico ocurre en el ledger al despachar.
type AllocateUseCase struct {
	tx      inventory.TxRunner
	audit   *audit.Emitter
	metrics ports.OperationRecorder
	log     *logger.Logger
}

// NewAllocateUseCase construye el caso de uso.
func NewAllocateUseCase(tx inventory.TxRunner, emitter *audit.Emitter, metrics ports.OperationRecorder, log *logger.Logger) *AllocateUseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if emitter == nil {
		emitter = audit.NewEmitter(nil, log)
	}
	return &AllocateUseCase{tx: tx, audit: emitter, metrics: metrics, log: log.Component("allocation")}
}

// Allocate asigna hasta min(pendiente, disponible) por línea. La orden pasa a ALLOCATED solo si
// todas sus líneas quedan completas; si no, sigue CONFIRMED con el faltante reportado.
// Sobre una orden ya ALLOCATED es un no-op.
func (uc *AllocateUseCase) Allocate(ctx context.Context, tenantID, orderID, userID string) (*AllocationResult, error) {
	if tenantID == "" || orderID == "" {
		return nil, domain.NewValidationError("order_id", "requerido")
	}
	start := time.Now()
	var (
		res     *AllocationResult
		changed bool
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		res, changed = nil, false
		order, err := repos.Orders.GetForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		switch order.Status {
		case entity.OrderStatusAllocated:
			res = snapshot(order)
			return nil
		case entity.OrderStatusConfirmed:
		default:
			return &domain.InvalidStateError{Entity: "sales_order", ID: orderID, Status: string(order.Status), Operation: "allocate"}
		}

		pool, err := loadAvailability(ctx, repos, order)
		if err != nil {
			return err
		}

		res = &AllocationResult{OrderID: order.ID, FullyAllocated: true}
		for i := range order.Lines {
			line := &order.Lines[i]
			if line.Status == entity.LineStatusCancelled {
				continue
			}
			needed := line.Outstanding()
			got, short := pool.Take(line.ItemID, needed)
			dirty := false
			if got.IsPositive() {
				line.QtyAllocated = line.QtyAllocated.Add(got)
				dirty = true
			}
			if !line.Outstanding().IsPositive() && line.Status == entity.LineStatusOpen {
				if err := domainfl.TransitionLine(line, entity.LineStatusAllocated); err != nil {
					return err
				}
				dirty = true
			}
			if dirty {
				if err := repos.Orders.UpdateLine(ctx, line); err != nil {
					return err
				}
				changed = true
			}
			if short.IsPositive() {
				res.FullyAllocated = false
			}
			res.Lines = append(res.Lines, LineAllocation{
				LineID: line.ID, ItemID: line.ItemID, Needed: decimal.Max(needed, decimal.Zero), Allocated: got,
				QtyAllocated: line.QtyAllocated, Shortfall: short, Status: line.Status,
			})
		}

		if res.FullyAllocated {
			if err := domainfl.TransitionOrder(order, entity.OrderStatusAllocated); err != nil {
				return err
			}
			ok, err := repos.Orders.CompareAndSetStatus(ctx, tenantID, orderID, entity.OrderStatusConfirmed, entity.OrderStatusAllocated)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.InvalidStateError{Entity: "sales_order", ID: orderID, Status: "desconocido", Operation: "allocate"}
			}
			changed = true
		}
		res.Status = order.Status
		return nil
	})
	uc.metrics.ObserveOperation("allocate", domain.Code(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	if changed {
		uc.audit.Emit(ctx, entity.AuditEntry{
			TenantID:   tenantID,
			UserID:     userID,
			Action:     audit.ActionOrderAllocated,
			EntityType: "sales_order",
			EntityID:   orderID,
			Payload: map[string]any{
				"status":          string(res.Status),
				"fully_allocated": res.FullyAllocated,
				"lines":           len(res.Lines),
			},
		})
	}
	if !res.FullyAllocated {
		uc.log.Info().Str("tenant_id", tenantID).Str("order_id", orderID).Msg("asignación parcial, la orden sigue CONFIRMED")
	}
	return res, nil
}

// loadAvailability bloquea cada ítem de la orden (en orden de ID) y calcula
// disponible = saldo elegible - cantidad reservada por órdenes vivas.
func loadAvailability(ctx context.Context, repos repository.TxRepos, order *entity.SalesOrder) (*domainfl.AvailabilityPool, error) {
	items := make([]string, 0, len(order.Lines))
	seen := make(map[string]bool)
	for _, l := range order.Lines {
		if l.Status == entity.LineStatusCancelled || seen[l.ItemID] {
			continue
		}
		seen[l.ItemID] = true
		items = append(items, l.ItemID)
	}
	sort.Strings(items)

	pool := domainfl.NewAvailabilityPool()
	for _, itemID := range items {
		if err := repos.Orders.LockItemAllocation(ctx, order.TenantID, order.SiteID, itemID); err != nil {
			return nil, err
		}
		eligible, err := repos.Balances.SumByItem(ctx, order.TenantID, order.SiteID, itemID, entity.AllocationEligibleTypes)
		if err != nil {
			return nil, err
		}
		reserved, err := repos.Orders.SumReserved(ctx, order.TenantID, order.SiteID, itemID)
		if err != nil {
			return nil, err
		}
		pool.Set(itemID, eligible.Sub(reserved))
	}
	return pool, nil
}

func snapshot(order *entity.SalesOrder) *AllocationResult {
	res := &AllocationResult{OrderID: order.ID, Status: order.Status, FullyAllocated: true}
	for _, l := range order.Lines {
		if l.Status == entity.LineStatusCancelled {
			continue
		}
		res.Lines = append(res.Lines, LineAllocation{
			LineID: l.ID, ItemID: l.ItemID, Needed: decimal.Zero, Allocated: decimal.Zero,
			QtyAllocated: l.QtyAllocated, Shortfall: decimal.Zero, Status: l.Status,
		})
	}
	return res
}
