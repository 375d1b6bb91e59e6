package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// PickTaskRepository tareas de picking.
type PickTaskRepository interface {
	// FindActiveByOrder devuelve la tarea OPEN o IN_PROGRESS de la orden, o (nil, nil).
	FindActiveByOrder(ctx context.Context, tenantID, orderID string) (*entity.PickTask, error)
	ListByOrder(ctx context.Context, tenantID, orderID string) ([]entity.PickTask, error)
	// NextTaskNumber incrementa y devuelve el consecutivo del tenant dentro de la transacción.
	NextTaskNumber(ctx context.Context, tenantID string) (int64, error)
	// Create devuelve domain.ErrActiveTaskExists si la orden ya tiene una tarea activa.
	Create(ctx context.Context, task *entity.PickTask) error
	GetByID(ctx context.Context, tenantID, taskID string) (*entity.PickTask, error)
	GetForUpdate(ctx context.Context, tenantID, taskID string) (*entity.PickTask, error)
	UpdateStatus(ctx context.Context, task *entity.PickTask) error
}
