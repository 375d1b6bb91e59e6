package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PickTaskStatus estado de una tarea de picking.
type PickTaskStatus string

const (
	PickTaskStatusOpen       PickTaskStatus = "OPEN"
	PickTaskStatusInProgress PickTaskStatus = "IN_PROGRESS"
	PickTaskStatusCompleted  PickTaskStatus = "COMPLETED"
	PickTaskStatusCancelled  PickTaskStatus = "CANCELLED"
)

// Active indica si la tarea bloquea la creación de otra para la misma orden.
func (s PickTaskStatus) Active() bool {
	return s == PickTaskStatusOpen || s == PickTaskStatusInProgress
}

// PickTask instrucción de recolección para una orden. TaskNumber tiene la forma PICK-000123,
// único por tenant y nunca reutilizado.
type PickTask struct {
	ID                string
	TenantID          string
	SiteID            string
	OrderID           string
	TaskNumber        string
	Status            PickTaskStatus
	StagingLocationID string // destino al completar; vacío mientras no se complete
	Lines             []PickTaskLine
	CreatedAt         time.Time
	CreatedBy         string
	UpdatedAt         time.Time
}

// PickTaskLine cantidad a tomar de una ubicación para una línea de la orden.
type PickTaskLine struct {
	ID          string
	TaskID      string
	OrderLineID string
	ItemID      string
	LocationID  string
	QtyBase     decimal.Decimal
	LotRef      string
}
