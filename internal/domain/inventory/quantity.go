package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// QtyScale dígitos fraccionarios de toda cantidad persistida (NUMERIC(18,6)).
	QtyScale int32 = 6
	// CostScale dígitos fraccionarios de costos unitarios.
	CostScale int32 = 4
)

var upper = cases.Upper(language.Und)

// RoundQty redondea una cantidad a QtyScale.
func RoundQty(q decimal.Decimal) decimal.Decimal {
	return q.Round(QtyScale)
}

// NormalizeCode normaliza códigos de unidad y de tipo ("  cj " -> "CJ").
func NormalizeCode(code string) string {
	return upper.String(strings.TrimSpace(code))
}
