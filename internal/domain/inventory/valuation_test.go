package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escenario base: dos lotes (5 @ 10) y (5 @ 20), stock actual 7.
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func baseLots() []inventory.Lot {
	return []inventory.Lot{
		{MovementID: "m1", Quantity: 5, UnitCost: dec(10), Date: t0},
		{MovementID: "m2", Quantity: 5, UnitCost: dec(20), Date: t0.Add(time.Hour)},
	}
}

func TestValuate_FIFO_ConsumeLotesAntiguosPrimero(t *testing.T) {
	v := inventory.Valuate(inventory.MethodFIFO, 7, dec(12), dec(30), baseLots())

	assert.True(t, dec(90).Equal(v.TotalValue), "5×10 + 2×20 = 90, got %s", v.TotalValue)
	assert.Equal(t, inventory.MethodFIFO, v.EffectiveMethod)
	assert.Equal(t, int64(0), v.UncoveredUnits)
	assert.True(t, dec(90).Div(dec(7)).Equal(v.UnitValue))
}

func TestValuate_LIFO_ConsumeLotesRecientesPrimero(t *testing.T) {
	v := inventory.Valuate(inventory.MethodLIFO, 7, dec(12), dec(30), baseLots())

	assert.True(t, dec(120).Equal(v.TotalValue), "5×20 + 2×10 = 120, got %s", v.TotalValue)
	assert.Equal(t, inventory.MethodLIFO, v.EffectiveMethod)
}

func TestValuate_PromedioPonderado_UsaTodasLasEntradas(t *testing.T) {
	v := inventory.Valuate(inventory.MethodWeightedAverage, 7, dec(12), dec(30), baseLots())

	assert.True(t, dec(15).Equal(v.UnitValue), "(50+100)/10 = 15, got %s", v.UnitValue)
	assert.True(t, dec(105).Equal(v.TotalValue), "15×7 = 105, got %s", v.TotalValue)
}

func TestValuate_Current_UsaCostoDeReferencia(t *testing.T) {
	v := inventory.Valuate(inventory.MethodCurrent, 7, dec(12), dec(30), baseLots())

	assert.True(t, dec(12).Equal(v.UnitValue))
	assert.True(t, dec(84).Equal(v.TotalValue))
}

func TestValuate_SinEntradas_CaeACostoActual(t *testing.T) {
	for _, m := range []inventory.Method{inventory.MethodFIFO, inventory.MethodLIFO, inventory.MethodWeightedAverage} {
		t.Run(string(m), func(t *testing.T) {
			v := inventory.Valuate(m, 4, dec(8), dec(10), nil)

			assert.Equal(t, m, v.Method)
			assert.Equal(t, inventory.MethodCurrent, v.EffectiveMethod)
			assert.True(t, dec(32).Equal(v.TotalValue))
		})
	}
}

func TestValuate_IngresoYUtilidadPotencial(t *testing.T) {
	v := inventory.Valuate(inventory.MethodFIFO, 7, dec(12), dec(30), baseLots())

	assert.True(t, dec(210).Equal(v.PotentialRevenue), "7×30")
	assert.True(t, dec(120).Equal(v.PotentialProfit), "210−90")
}

func TestValuate_StockCero_ValorCero(t *testing.T) {
	v := inventory.Valuate(inventory.MethodFIFO, 0, dec(12), dec(30), baseLots())

	assert.True(t, v.TotalValue.IsZero())
	assert.True(t, v.UnitValue.IsZero())
}

func TestValuate_StockSinLoteQueLoRespalde(t *testing.T) {
	// 12 unidades en stock pero solo 10 con lote: el valor suma solo los lotes consumidos.
	for _, m := range []inventory.Method{inventory.MethodFIFO, inventory.MethodLIFO} {
		t.Run(string(m), func(t *testing.T) {
			v := inventory.Valuate(m, 12, dec(12), dec(30), baseLots())

			assert.Equal(t, int64(2), v.UncoveredUnits)
			assert.True(t, dec(150).Equal(v.TotalValue), "got %s", v.TotalValue)
			assert.True(t, dec(150).Div(dec(12)).Equal(v.UnitValue))
			assert.True(t, dec(360-150).Equal(v.PotentialProfit))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Métodos
// ──────────────────────────────────────────────────────────────────────────────

func TestParseMethod(t *testing.T) {
	cases := map[string]inventory.Method{
		"current":          inventory.MethodCurrent,
		"FIFO":             inventory.MethodFIFO,
		" lifo ":           inventory.MethodLIFO,
		"weighted_average": inventory.MethodWeightedAverage,
		"average":          inventory.MethodWeightedAverage,
	}
	for in, want := range cases {
		got, err := inventory.ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.True(t, got.IsValid())
	}

	_, err := inventory.ParseMethod("hifo")
	assert.Error(t, err)
	assert.False(t, inventory.Method("hifo").IsValid())
}

func TestWeightedAverageCost_SinUnidades(t *testing.T) {
	_, ok := inventory.WeightedAverageCost([]inventory.Lot{{Quantity: 0, UnitCost: dec(5)}})
	assert.False(t, ok)
}
