package inventory

import (
	"testing"

	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEffects(t *testing.T) {
	cases := []struct {
		name string
		ev   entity.InventoryEvent
		want []Delta
	}{
		{"receive", entity.InventoryEvent{Type: entity.EventTypeReceive, ToLocationID: "A", QtyBase: qty("10")},
			[]Delta{{LocationID: "A", Amount: qty("10")}}},
		{"move", entity.InventoryEvent{Type: entity.EventTypeMove, FromLocationID: "A", ToLocationID: "B", QtyBase: qty("4")},
			[]Delta{{LocationID: "A", Amount: qty("-4")}, {LocationID: "B", Amount: qty("4")}}},
		{"consume", entity.InventoryEvent{Type: entity.EventTypeConsume, FromLocationID: "A", QtyBase: qty("3")},
			[]Delta{{LocationID: "A", Amount: qty("-3")}}},
		{"issue", entity.InventoryEvent{Type: entity.EventTypeIssue, FromLocationID: "S", QtyBase: qty("1")},
			[]Delta{{LocationID: "S", Amount: qty("-1")}}},
		{"adjust add", entity.InventoryEvent{Type: entity.EventTypeAdjust, ToLocationID: "A", QtyBase: qty("2")},
			[]Delta{{LocationID: "A", Amount: qty("2")}}},
		{"adjust subtract", entity.InventoryEvent{Type: entity.EventTypeAdjust, FromLocationID: "A", QtyBase: qty("-2")},
			[]Delta{{LocationID: "A", Amount: qty("-2")}}},
		{"count", entity.InventoryEvent{Type: entity.EventTypeCount, ToLocationID: "A", QtyBase: qty("9")},
			[]Delta{{LocationID: "A", Amount: qty("9"), Absolute: true}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Effects(&tc.ev)
			require.NoError(t, err)
			require.Len(t, got, len(tc.want))
			for i := range got {
				assert.Equal(t, tc.want[i].LocationID, got[i].LocationID)
				assert.True(t, tc.want[i].Amount.Equal(got[i].Amount), "%s != %s", tc.want[i].Amount, got[i].Amount)
				assert.Equal(t, tc.want[i].Absolute, got[i].Absolute)
			}
		})
	}

	_, err := Effects(&entity.InventoryEvent{Type: "TELEPORT"})
	assert.Error(t, err)
}

func TestReplay_FoldsInOrder(t *testing.T) {
	events := []entity.InventoryEvent{
		{Type: entity.EventTypeReceive, ToLocationID: "A", QtyBase: qty("10")},
		{Type: entity.EventTypeConsume, FromLocationID: "A", QtyBase: qty("3")},
		{Type: entity.EventTypeMove, FromLocationID: "A", ToLocationID: "B", QtyBase: qty("2")},
		{Type: entity.EventTypeCount, ToLocationID: "B", QtyBase: qty("1.5")},
		{Type: entity.EventTypeAdjust, ToLocationID: "A", QtyBase: qty("0.25")},
	}
	got, err := Replay(events)
	require.NoError(t, err)
	assert.True(t, got["A"].Equal(qty("5.25")), got["A"].String())
	assert.True(t, got["B"].Equal(qty("1.5")), got["B"].String())
}

func TestChecksSource(t *testing.T) {
	assert.True(t, ChecksSource(entity.EventTypeMove))
	assert.True(t, ChecksSource(entity.EventTypeConsume))
	assert.True(t, ChecksSource(entity.EventTypeIssue))
	assert.False(t, ChecksSource(entity.EventTypeReceive))
	assert.False(t, ChecksSource(entity.EventTypeAdjust))
	assert.False(t, ChecksSource(entity.EventTypeCount))
}

func TestCostCalculator(t *testing.T) {
	// 10 u a 5 + 10 u a 7 -> 6
	assert.True(t, CostCalculator(qty("10"), qty("5"), qty("10"), qty("7")).Equal(qty("6")))
	// sin saldo previo: costo de la entrada
	assert.True(t, CostCalculator(decimal.Zero, qty("5"), qty("4"), qty("8")).Equal(qty("8")))
	assert.True(t, CostCalculator(qty("-2"), qty("5"), qty("4"), qty("8")).Equal(qty("8")))
	// 3 u a 1 + 1 u a 2 -> 1.25; 1 u a 1 + 2 u a 0 -> 0.3333 (4 decimales)
	assert.True(t, CostCalculator(qty("3"), qty("1"), qty("1"), qty("2")).Equal(qty("1.25")))
	assert.True(t, CostCalculator(qty("1"), qty("1"), qty("2"), qty("0")).Equal(qty("0.3333")))
}

func TestNormalizeCodeAndRound(t *testing.T) {
	assert.Equal(t, "CJ", NormalizeCode("  cj "))
	assert.Equal(t, "", NormalizeCode("   "))
	assert.True(t, RoundQty(qty("1.23456789")).Equal(qty("1.234568")))
}
