package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/fulfillment-ledger/internal/application/ports"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

var _ ports.AuditSink = (*AuditLog)(nil)

// AuditLog AuditSink en memoria.
type AuditLog struct {
	mu      sync.Mutex
	entries []entity.AuditEntry
}

func (a *AuditLog) Record(_ context.Context, entry entity.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

// Entries copia de los registros recibidos.
func (a *AuditLog) Entries() []entity.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.AuditEntry(nil), a.entries...)
}

// Actions acciones recibidas en orden.
func (a *AuditLog) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}
