package inventory

import "github.com/shopspring/decimal"

// CostCalculator costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((SaldoActual * CostoActual) + (CantEntrada * CostoEntrada)) / (SaldoActual + CantEntrada)
// Un saldo actual negativo o nulo no aporta al promedio: el costo de la entrada se toma tal cual.
func CostCalculator(onHand, currentCost, qtyIn, unitCostIn decimal.Decimal) decimal.Decimal {
	if onHand.LessThanOrEqual(decimal.Zero) {
		if qtyIn.LessThanOrEqual(decimal.Zero) {
			return currentCost
		}
		return unitCostIn
	}
	sum := onHand.Add(qtyIn)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := onHand.Mul(currentCost).Add(qtyIn.Mul(unitCostIn))
	return num.Div(sum).Round(CostScale)
}
