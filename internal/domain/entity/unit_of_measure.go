package entity

import "github.com/shopspring/decimal"

// UnitOfMeasure unidad registrada en el catálogo del tenant (UN, CJ, KG, ...).
type UnitOfMeasure struct {
	TenantID string
	Code     string
	Name     string
}

// UomConversion factor dirigido: 1 FromUom = Factor ToUom.
// ItemID vacío indica una conversión global del tenant; la del ítem tiene prioridad.
type UomConversion struct {
	ID       string
	TenantID string
	ItemID   string
	FromUom  string
	ToUom    string
	Factor   decimal.Decimal
}
