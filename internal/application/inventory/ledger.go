package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fulfillment-ledger/internal/application/audit"
	"github.com/jhoicas/fulfillment-ledger/internal/application/ports"
	"github.com/jhoicas/fulfillment-ledger/internal/domain"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/fulfillment-ledger/internal/domain/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
	"github.com/jhoicas/fulfillment-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// EventInput entrada para registrar un evento en el ledger.
// RECEIVE: ToLocationID. MOVE: FromLocationID y ToLocationID. CONSUME/ISSUE: FromLocationID.
// ADJUST: LocationID y Direction. COUNT: LocationID con Qty = saldo contado.
type EventInput struct {
	TenantID       string
	SiteID         string
	UserID         string
	Type           entity.EventType
	ItemID         string
	Qty            decimal.Decimal
	Uom            string
	FromLocationID string
	ToLocationID   string
	LocationID     string
	Direction      entity.AdjustDirection
	ReferenceID    string
	UnitCost       *decimal.Decimal // solo RECEIVE, por unidad ingresada
}

// ApplyResult evento persistido y saldos resultantes de las ubicaciones tocadas.
type ApplyResult struct {
	Event    *entity.InventoryEvent
	Balances []entity.InventoryBalance
}

// LedgerOptions políticas del ledger.
type LedgerOptions struct {
	// AllowNegativeAdjustments permite que ADJUST deje un saldo bajo cero.
	AllowNegativeAdjustments bool
}

// LedgerUseCase única puerta de mutación de saldos: inserta el evento y actualiza los saldos
// en la misma transacción, con bloqueo de fila sobre cada saldo tocado.
type LedgerUseCase struct {
	tx      TxRunner
	opts    LedgerOptions
	audit   *audit.Emitter
	metrics ports.OperationRecorder
	log     *logger.Logger
	now     func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(tx TxRunner, opts LedgerOptions, emitter *audit.Emitter, metrics ports.OperationRecorder, log *logger.Logger) *LedgerUseCase {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if emitter == nil {
		emitter = audit.NewEmitter(nil, log)
	}
	return &LedgerUseCase{
		tx:      tx,
		opts:    opts,
		audit:   emitter,
		metrics: metrics,
		log:     log.Component("ledger"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests de orden FIFO).
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// ApplyEvent valida, resuelve la unidad base y aplica el evento de forma atómica.
func (uc *LedgerUseCase) ApplyEvent(ctx context.Context, in EventInput) (*ApplyResult, error) {
	start := time.Now()
	var res *ApplyResult
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		r, err := uc.ApplyInTx(ctx, repos, in)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	uc.metrics.ObserveOperation("apply_event", domain.Code(err), time.Since(start))
	if err != nil {
		uc.log.Debug().Err(err).Str("type", string(in.Type)).Str("item_id", in.ItemID).Msg("evento rechazado")
		return nil, err
	}
	uc.metrics.ObserveEvent(string(res.Event.Type))
	uc.EmitApplied(ctx, res.Event)
	return res, nil
}

// ApplyInTx aplica el evento dentro de una transacción abierta por el llamador.
// No emite auditoría; el llamador lo hace tras el commit con EmitApplied.
func (uc *LedgerUseCase) ApplyInTx(ctx context.Context, repos repository.TxRepos, in EventInput) (*ApplyResult, error) {
	in = normalizeInput(in)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	item, err := repos.Items.GetByID(ctx, in.TenantID, in.ItemID)
	if err != nil {
		return nil, err
	}

	ev := &entity.InventoryEvent{
		ID:          uuid.New().String(),
		TenantID:    in.TenantID,
		SiteID:      in.SiteID,
		Type:        in.Type,
		ItemID:      in.ItemID,
		Qty:         in.Qty,
		Uom:         in.Uom,
		ReferenceID: in.ReferenceID,
		CreatedAt:   uc.now(),
		CreatedBy:   in.UserID,
	}
	resolveLocations(ev, in)

	for _, locID := range []string{ev.FromLocationID, ev.ToLocationID} {
		if locID == "" {
			continue
		}
		loc, err := repos.Locations.GetByID(ctx, in.TenantID, locID)
		if err != nil {
			return nil, err
		}
		if loc.SiteID != in.SiteID {
			return nil, domain.NewValidationError("location_id", "la ubicación "+locID+" no pertenece al sitio")
		}
	}

	qtyBase, err := NewUomResolver(repos.Items, repos.Uoms).ConvertItemToBase(ctx, item, in.Qty, in.Uom)
	if err != nil {
		return nil, err
	}
	if in.Type != entity.EventTypeCount && !qtyBase.IsPositive() {
		return nil, domain.NewValidationError("qty", "la cantidad en unidad base debe ser mayor que cero")
	}
	ev.QtyBase = qtyBase
	if in.Type == entity.EventTypeAdjust && in.Direction == entity.AdjustSubtract {
		ev.QtyBase = qtyBase.Neg()
	}

	deltas, err := domaininv.Effects(ev)
	if err != nil {
		return nil, domain.NewValidationError("type", err.Error())
	}

	// Bloqueo en orden ascendente de ubicación para evitar deadlocks entre MOVE cruzados.
	locked, err := lockBalances(ctx, repos.Balances, in.TenantID, in.SiteID, in.ItemID, deltas)
	if err != nil {
		return nil, err
	}

	if in.Type == entity.EventTypeReceive && in.UnitCost != nil {
		if err := uc.updateItemCost(ctx, repos, item, in, qtyBase); err != nil {
			return nil, err
		}
		ev.UnitCost = decimal.NewNullDecimal(*in.UnitCost)
	}

	out := make([]entity.InventoryBalance, 0, len(deltas))
	for _, d := range deltas {
		bal := locked[d.LocationID]
		next := domaininv.RoundQty(d.Apply(bal.QtyBase))
		if next.IsNegative() && d.Amount.IsNegative() {
			switch {
			case domaininv.ChecksSource(ev.Type):
				return nil, &domain.InsufficientStockError{
					ItemID: in.ItemID, LocationID: d.LocationID, Available: bal.QtyBase, Requested: qtyBase,
				}
			case ev.Type == entity.EventTypeAdjust && !uc.opts.AllowNegativeAdjustments:
				return nil, &domain.InsufficientStockError{
					ItemID: in.ItemID, LocationID: d.LocationID, Available: bal.QtyBase, Requested: qtyBase,
				}
			}
		}
		bal.QtyBase = next
		bal.UpdatedAt = ev.CreatedAt
		if err := repos.Balances.Save(ctx, bal); err != nil {
			return nil, err
		}
		out = append(out, *bal)
	}

	if err := repos.Events.Create(ctx, ev); err != nil {
		return nil, err
	}
	return &ApplyResult{Event: ev, Balances: out}, nil
}

// EmitApplied envía el registro de auditoría de un evento ya confirmado.
func (uc *LedgerUseCase) EmitApplied(ctx context.Context, ev *entity.InventoryEvent) {
	uc.audit.Emit(ctx, entity.AuditEntry{
		TenantID:   ev.TenantID,
		UserID:     ev.CreatedBy,
		Action:     audit.ActionEventApplied,
		EntityType: "inventory_event",
		EntityID:   ev.ID,
		Payload: map[string]any{
			"type":             string(ev.Type),
			"site_id":          ev.SiteID,
			"item_id":          ev.ItemID,
			"qty_base":         ev.QtyBase.String(),
			"from_location_id": ev.FromLocationID,
			"to_location_id":   ev.ToLocationID,
			"reference_id":     ev.ReferenceID,
		},
	})
}

// ListEvents historial del ítem en el sitio en orden de aplicación.
func (uc *LedgerUseCase) ListEvents(ctx context.Context, tenantID, siteID, itemID string, limit int) ([]entity.InventoryEvent, error) {
	if tenantID == "" || siteID == "" || itemID == "" {
		return nil, domain.NewValidationError("", "tenant_id, site_id e item_id son requeridos")
	}
	var out []entity.InventoryEvent
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		evs, err := repos.Events.ListByItem(ctx, tenantID, siteID, itemID, limit)
		out = evs
		return err
	})
	return out, err
}

func (uc *LedgerUseCase) updateItemCost(ctx context.Context, repos repository.TxRepos, item *entity.Item, in EventInput, qtyBase decimal.Decimal) error {
	locked, err := repos.Items.GetForUpdate(ctx, in.TenantID, in.ItemID)
	if err != nil {
		return err
	}
	onHand, err := repos.Balances.SumOnHand(ctx, in.TenantID, in.ItemID)
	if err != nil {
		return err
	}
	// Costo por unidad base: el costo llega por unidad ingresada.
	unitBase := in.UnitCost.Mul(in.Qty).DivRound(qtyBase, domaininv.CostScale)
	current := decimal.Zero
	if locked.AverageCost.Valid {
		current = locked.AverageCost.Decimal
	}
	locked.AverageCost = decimal.NewNullDecimal(domaininv.CostCalculator(onHand, current, qtyBase, unitBase))
	locked.LastCost = decimal.NewNullDecimal(unitBase)
	locked.UpdatedAt = uc.now()
	if err := repos.Items.UpdateCosts(ctx, locked); err != nil {
		return err
	}
	*item = *locked
	return nil
}

func lockBalances(ctx context.Context, balances repository.BalanceRepository, tenantID, siteID, itemID string, deltas []domaininv.Delta) (map[string]*entity.InventoryBalance, error) {
	ids := make([]string, 0, len(deltas))
	for _, d := range deltas {
		ids = append(ids, d.LocationID)
	}
	sort.Strings(ids)
	locked := make(map[string]*entity.InventoryBalance, len(ids))
	for _, id := range ids {
		if _, ok := locked[id]; ok {
			continue
		}
		bal, err := balances.GetForUpdate(ctx, entity.BalanceKey{
			TenantID: tenantID, SiteID: siteID, ItemID: itemID, LocationID: id,
		})
		if err != nil {
			return nil, err
		}
		locked[id] = bal
	}
	return locked, nil
}

func normalizeInput(in EventInput) EventInput {
	in.Type = entity.EventType(domaininv.NormalizeCode(string(in.Type)))
	in.Direction = entity.AdjustDirection(domaininv.NormalizeCode(string(in.Direction)))
	in.Uom = domaininv.NormalizeCode(in.Uom)
	switch in.Type {
	case entity.EventTypeReceive:
		if in.ToLocationID == "" {
			in.ToLocationID = in.LocationID
		}
	case entity.EventTypeConsume, entity.EventTypeIssue:
		if in.FromLocationID == "" {
			in.FromLocationID = in.LocationID
		}
	case entity.EventTypeAdjust, entity.EventTypeCount:
		if in.LocationID == "" {
			in.LocationID = firstNonEmpty(in.ToLocationID, in.FromLocationID)
		}
	}
	return in
}

func validateInput(in EventInput) error {
	if in.TenantID == "" {
		return domain.NewValidationError("tenant_id", "requerido")
	}
	if in.SiteID == "" {
		return domain.NewValidationError("site_id", "requerido")
	}
	if in.ItemID == "" {
		return domain.NewValidationError("item_id", "requerido")
	}
	if in.Qty.IsNegative() {
		return domain.NewValidationError("qty", "no puede ser negativa")
	}
	if in.UnitCost != nil && (in.Type != entity.EventTypeReceive || in.UnitCost.IsNegative()) {
		return domain.NewValidationError("unit_cost", "solo se admite en RECEIVE y no puede ser negativo")
	}
	positive := func() error {
		if !in.Qty.IsPositive() {
			return domain.NewValidationError("qty", "debe ser mayor que cero")
		}
		return nil
	}
	switch in.Type {
	case entity.EventTypeReceive:
		if in.ToLocationID == "" {
			return domain.NewValidationError("to_location_id", "requerido en RECEIVE")
		}
		return positive()
	case entity.EventTypeMove:
		if in.FromLocationID == "" || in.ToLocationID == "" {
			return domain.NewValidationError("location_id", "MOVE requiere origen y destino")
		}
		if in.FromLocationID == in.ToLocationID {
			return domain.NewValidationError("to_location_id", "origen y destino deben ser distintos")
		}
		return positive()
	case entity.EventTypeConsume, entity.EventTypeIssue:
		if in.FromLocationID == "" {
			return domain.NewValidationError("from_location_id", "requerido en "+string(in.Type))
		}
		return positive()
	case entity.EventTypeAdjust:
		if in.LocationID == "" {
			return domain.NewValidationError("location_id", "requerido en ADJUST")
		}
		if in.Direction != entity.AdjustAdd && in.Direction != entity.AdjustSubtract {
			return domain.NewValidationError("direction", "debe ser ADD o SUBTRACT")
		}
		return positive()
	case entity.EventTypeCount:
		if in.LocationID == "" {
			return domain.NewValidationError("location_id", "requerido en COUNT")
		}
		return nil
	}
	return domain.NewValidationError("type", "tipo de evento desconocido: "+string(in.Type))
}

// resolveLocations fija origen/destino del evento según el tipo.
func resolveLocations(ev *entity.InventoryEvent, in EventInput) {
	switch in.Type {
	case entity.EventTypeAdjust:
		if in.Direction == entity.AdjustSubtract {
			ev.FromLocationID = in.LocationID
		} else {
			ev.ToLocationID = in.LocationID
		}
	case entity.EventTypeCount:
		ev.ToLocationID = in.LocationID
	default:
		ev.FromLocationID = in.FromLocationID
		ev.ToLocationID = in.ToLocationID
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
