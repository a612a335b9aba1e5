package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateItem_StockInicialComoMovimiento(t *testing.T) {
	f := newFixture(t)
	it := f.createItem(t, "Tornillo", 12)

	assert.Equal(t, int64(12), it.CurrentStock)
	assert.Equal(t, string(entity.ItemStatusActive), it.Status)
	assert.Equal(t, "unidad", it.Unit)
	require.NotNil(t, it.LastRestocked)

	movs := f.ledger(t, it.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.ReasonInitialStock, movs[0].Reason)
	assert.Equal(t, entity.MovementTypeIn, movs[0].Type())
	assert.True(t, movs[0].UnitCost().Equal(dec(10)))

	empty := f.createItem(t, "Tuerca", 0)
	assert.Equal(t, string(entity.ItemStatusOutOfStock), empty.Status)
	assert.Empty(t, f.ledger(t, empty.ID))
}

func TestCreateItem_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createItem(t, "Tornillo", 0)

	_, err := f.items.Create(ctx, companyID, userID, dto.CreateItemRequest{Name: "tornillo"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.items.Create(ctx, companyID, userID, dto.CreateItemRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Create(ctx, companyID, userID, dto.CreateItemRequest{Name: "Clavo", MinimumStock: 5, MaximumStock: ptr(int64(2))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Create(ctx, companyID, userID, dto.CreateItemRequest{Name: "Clavo", InitialStock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestUpdateItem_CambioDeMinimoRecalculaEstado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.createItem(t, "Tornillo", 5)
	require.Equal(t, string(entity.ItemStatusActive), it.Status)

	upd, err := f.items.Update(ctx, companyID, it.ID, dto.UpdateItemRequest{MinimumStock: ptr(int64(8)), Location: ptr("B-2")})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ItemStatusLowStock), upd.Status)
	assert.Equal(t, int64(5), upd.CurrentStock)
	assert.Equal(t, "B-2", upd.Location)

	stored := f.item(t, it.ID)
	assert.Equal(t, entity.ItemStatusLowStock, stored.Status)
	assert.Equal(t, "B-2", stored.Location)
}

func TestDeleteItem_ConMovimientos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.createItem(t, "Tornillo", 5)

	err := f.items.Delete(ctx, companyID, it.ID, false)
	assert.ErrorIs(t, err, domain.ErrItemHasMovements)
	assert.Len(t, f.ledger(t, it.ID), 1)

	require.NoError(t, f.items.Delete(ctx, companyID, it.ID, true))
	gone, err := f.store.Items().GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Empty(t, f.ledger(t, it.ID))

	_, err = f.items.Get(ctx, companyID, it.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummary_TotalesPorEstado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createItem(t, "A", 10)
	f.createItem(t, "B", 2)
	f.createItem(t, "C", 0)

	sum, err := f.items.Summary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalItems)
	assert.Equal(t, 1, sum.ActiveItems)
	assert.Equal(t, 1, sum.LowStockItems)
	assert.Equal(t, 1, sum.OutOfStockItems)
	assert.Equal(t, int64(12), sum.TotalUnits)
	assert.True(t, sum.TotalCostValue.Equal(dec(120)))
	assert.True(t, sum.TotalRetailValue.Equal(dec(180)))
	assert.Equal(t, 1, sum.Categories)
}

// ──────────────────────────────────────────────────────────────────────────────
// Valoración
// ──────────────────────────────────────────────────────────────────────────────

// stockWithLots deja un ítem con 6 unidades: entradas 5@10 y 5@12, salida de 4.
func stockWithLots(t *testing.T, f *fixture) *dto.ItemResponse {
	t.Helper()
	ctx := context.Background()
	it := f.createItem(t, "Pintura", 0)
	_, err := f.register.StockIn(ctx, companyID, userID, dto.StockInRequest{ItemID: it.ID, Quantity: 5, UnitCost: ptr(dec(10))})
	require.NoError(t, err)
	_, err = f.register.StockIn(ctx, companyID, userID, dto.StockInRequest{ItemID: it.ID, Quantity: 5, UnitCost: ptr(dec(12))})
	require.NoError(t, err)
	_, err = f.register.StockOut(ctx, companyID, userID, dto.StockOutRequest{ItemID: it.ID, Quantity: 4})
	require.NoError(t, err)
	return it
}

func TestValuate_Metodos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := stockWithLots(t, f)

	expected := map[string]float64{
		"current":          60,
		"fifo":             62,
		"lifo":             70,
		"weighted_average": 66,
		"":                 60,
	}
	for method, total := range expected {
		v, err := f.valuation.Valuate(ctx, companyID, it.ID, method)
		require.NoError(t, err, method)
		assert.Equal(t, int64(6), v.CurrentStock)
		assert.True(t, v.TotalValue.Equal(dec(total)), "%s: %s", method, v.TotalValue)
		assert.True(t, v.PotentialRevenue.Equal(dec(90)), method)
		assert.True(t, v.PotentialProfit.Equal(dec(90-total)), method)
	}

	_, err := f.valuation.Valuate(ctx, companyID, it.ID, "promedio")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.valuation.Valuate(ctx, "otra", it.ID, "fifo")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestValuate_SinEntradasUsaCostoActual(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.Seed(&entity.Item{ID: "legacy", CompanyID: companyID, Name: "Heredado", CostPrice: dec(3), CurrentStock: 4})

	v, err := f.valuation.Valuate(ctx, companyID, "legacy", "lifo")
	require.NoError(t, err)
	assert.Equal(t, "lifo", v.Method)
	assert.Equal(t, "current", v.EffectiveMethod)
	assert.True(t, v.TotalValue.Equal(dec(12)))
}

func TestReport_ResumenYCategorias(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stockWithLots(t, f)
	_, err := f.items.Create(ctx, companyID, userID, dto.CreateItemRequest{
		Name: "Brocha", Category: "Accesorios", CostPrice: dec(4), SellingPrice: dec(6), InitialStock: 5,
	})
	require.NoError(t, err)

	rep, err := f.valuation.Report(ctx, companyID, "fifo", "")
	require.NoError(t, err)
	assert.Equal(t, "fifo", rep.Method)
	require.Len(t, rep.Items, 2)
	assert.Equal(t, 2, rep.Summary.TotalItems)
	assert.Equal(t, int64(11), rep.Summary.TotalQuantity)
	// 62 + 5×4
	assert.True(t, rep.Summary.TotalValue.Equal(dec(82)), rep.Summary.TotalValue.String())
	assert.True(t, rep.Summary.TotalPotentialRevenue.Equal(dec(120)))
	assert.True(t, rep.Summary.TotalPotentialProfit.Equal(dec(38)))
	assert.True(t, rep.Summary.ProfitMarginPct.Equal(dec(31.67)), rep.Summary.ProfitMarginPct.String())

	require.Len(t, rep.Categories, 2)
	assert.Equal(t, "Accesorios", rep.Categories[0].Category)
	assert.Equal(t, "Insumos", rep.Categories[1].Category)

	only, err := f.valuation.Report(ctx, companyID, "fifo", "Accesorios")
	require.NoError(t, err)
	assert.Len(t, only.Items, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestListItemMovements_AnaliticaDeLaPagina(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := stockWithLots(t, f)

	h, err := f.history.ListItemMovements(ctx, companyID, it.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, h.Page.Limit)
	assert.Equal(t, 3, h.Page.Total)
	require.Len(t, h.Movements, 3)
	assert.Equal(t, "out", h.Movements[0].Type)
	assert.Equal(t, "Pintura", h.Movements[0].ItemName)

	a := h.Analytics
	assert.Equal(t, 3, a.TotalMovements)
	assert.Equal(t, 2, a.MovementsByType["in"])
	assert.Equal(t, int64(10), a.TotalQuantityIn)
	assert.Equal(t, int64(4), a.TotalQuantityOut)
	assert.True(t, a.TotalValueIn.Equal(dec(110)))
	assert.True(t, a.TotalValueOut.Equal(dec(40)))
	assert.Equal(t, 1, a.ItemsAffected)
	assert.Equal(t, []string{"Insumos"}, a.CategoriesAffected)

	page, err := f.history.ListItemMovements(ctx, companyID, it.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Movements, 1)
	assert.Equal(t, 1, page.Analytics.TotalMovements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLowStockReport_PrioridadesYSugerencias(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	restocked := now.Add(-72 * time.Hour)
	seed := func(id string, stock int64) {
		f.store.Seed(&entity.Item{
			ID: id, CompanyID: companyID, Name: id, Category: "Insumos", CostPrice: dec(2),
			CurrentStock: stock, MinimumStock: 10, Status: entity.DeriveStatus(stock, 10), LastRestocked: &restocked,
		})
	}
	seed("medio", 8)
	seed("agotado", 0)
	seed("alto", 4)
	seed("sobrado", 20)

	uc := inventory.NewReplenishmentUseCase(f.store.Items()).WithClock(func() time.Time { return now })
	rep, err := uc.GetLowStockReport(ctx, companyID, "")
	require.NoError(t, err)

	require.Len(t, rep.Items, 3)
	assert.Equal(t, []string{"agotado", "alto", "medio"}, []string{rep.Items[0].ItemID, rep.Items[1].ItemID, rep.Items[2].ItemID})
	assert.Equal(t, inventory.PriorityCritical, rep.Items[0].Priority)
	assert.Equal(t, inventory.PriorityHigh, rep.Items[1].Priority)
	assert.Equal(t, inventory.PriorityMedium, rep.Items[2].Priority)

	alto := rep.Items[1]
	assert.Equal(t, int64(6), alto.StockDeficit)
	assert.Equal(t, int64(11), alto.SuggestedReorderQuantity)
	assert.True(t, alto.EstimatedOrderCost.Equal(dec(22)))
	require.NotNil(t, alto.DaysSinceLastRestock)
	assert.Equal(t, 3, *alto.DaysSinceLastRestock)

	assert.Equal(t, 3, rep.Summary.TotalItems)
	assert.Equal(t, 1, rep.Summary.CriticalItems)
	assert.Equal(t, 1, rep.Summary.HighPriorityItems)
	assert.Equal(t, 1, rep.Summary.MediumPriorityItems)
	// 15 + 11 + 7
	assert.Equal(t, int64(33), rep.Summary.TotalSuggestedQuantity)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, inventory.PriorityCritical, inventory.Priority(0, 4))
	assert.Equal(t, inventory.PriorityHigh, inventory.Priority(2, 4))
	assert.Equal(t, inventory.PriorityMedium, inventory.Priority(3, 4))
	assert.Equal(t, inventory.PriorityHigh, inventory.Priority(1, 3))
}

func TestLowStockRow_MinimoImparTruncaElStockIdeal(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		minimum, want int64
	}{
		{1, 1},
		{3, 4},
		{5, 7},
		{7, 10},
		{10, 15},
	}
	for _, tc := range cases {
		row := inventory.LowStockRow(&entity.Item{ID: "x", CostPrice: dec(1), MinimumStock: tc.minimum}, now)
		assert.Equal(t, tc.want, row.SuggestedReorderQuantity, "mínimo %d", tc.minimum)
		assert.Equal(t, tc.minimum, row.StockDeficit)
	}
}
