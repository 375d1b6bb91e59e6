package ports

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// AuditSink destino de los registros de auditoría. Se invoca después del commit;
// un error aquí se registra en el log y no revierte la operación.
type AuditSink interface {
	Record(ctx context.Context, entry entity.AuditEntry) error
}

// NopAuditSink descarta los registros.
type NopAuditSink struct{}

func (NopAuditSink) Record(context.Context, entity.AuditEntry) error { return nil }
