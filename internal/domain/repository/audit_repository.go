package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// AuditRepository persistencia de registros de auditoría (fuera de la transacción de negocio).
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
}
