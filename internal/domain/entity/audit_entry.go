package entity

import "time"

// AuditEntry registro de auditoría emitido tras cada operación que cambia estado.
type AuditEntry struct {
	ID         string
	TenantID   string
	UserID     string
	Action     string // inventory.event_applied, order.allocated, pick_task.created, ...
	EntityType string
	EntityID   string
	Payload    map[string]any
	CreatedAt  time.Time
}
