package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fulfillment-ledger/internal/application/ports"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/pkg/logger"
)

// Acciones auditadas.
const (
	ActionEventApplied      = "inventory.event_applied"
	ActionOrderConfirmed    = "order.confirmed"
	ActionOrderAllocated    = "order.allocated"
	ActionOrderCancelled    = "order.cancelled"
	ActionOrderAdvanced     = "order.advanced"
	ActionPickTaskCreated   = "pick_task.created"
	ActionPickTaskStarted   = "pick_task.started"
	ActionPickTaskCompleted = "pick_task.completed"
)

// Emitter envía registros al AuditSink después del commit. Los fallos solo se registran en el log.
type Emitter struct {
	sink ports.AuditSink
	log  *logger.Logger
}

// NewEmitter construye el emisor; sink nil equivale a descartar.
func NewEmitter(sink ports.AuditSink, log *logger.Logger) *Emitter {
	if sink == nil {
		sink = ports.NopAuditSink{}
	}
	return &Emitter{sink: sink, log: log}
}

// Emit completa ID y fecha y entrega el registro.
func (e *Emitter) Emit(ctx context.Context, entry entity.AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := e.sink.Record(ctx, entry); err != nil && e.log != nil {
		e.log.Warn().
			Err(err).
			Str("action", entry.Action).
			Str("entity_id", entry.EntityID).
			Str("tenant_id", entry.TenantID).
			Msg("no se pudo registrar auditoría")
	}
}
