package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/fulfillment-ledger/internal/application/ports"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
)

var (
	_ repository.AuditRepository = (*AuditRepo)(nil)
	_ ports.AuditSink            = (*AuditRepo)(nil)
)

// AuditRepo tabla audit_log. Se escribe fuera de la transacción de negocio.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO audit_log (id, tenant_id, user_id, action, entity_type, entity_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.TenantID, nullable(e.UserID), e.Action, e.EntityType, e.EntityID, payload, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit entry: %w", err)
	}
	return nil
}

// Record implementa ports.AuditSink.
func (r *AuditRepo) Record(ctx context.Context, e entity.AuditEntry) error {
	return r.Create(ctx, &e)
}
