package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const (
	companyID = "co-1"
	userID    = "user-1"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

type fixture struct {
	store     *memory.Store
	register  *inventory.RegisterMovementUseCase
	items     *inventory.ItemUseCase
	recompute *inventory.RecomputeUseCase
	valuation *inventory.ValuationUseCase
	history   *inventory.HistoryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithExpenses(t, nil)
}

// newFixtureWithExpenses usa expenses como libro de gastos; nil usa el del almacén.
func newFixtureWithExpenses(t *testing.T, expenses repository.ExpenseRepository) *fixture {
	t.Helper()
	s := memory.NewStore()
	if expenses == nil {
		expenses = s.Expenses()
	}
	log := logger.NewNop()
	register := inventory.NewRegisterMovementUseCase(s, inventory.NewCostRecognizer(expenses), log)
	return &fixture{
		store:     s,
		register:  register,
		items:     inventory.NewItemUseCase(s, s.Items(), register, log),
		recompute: inventory.NewRecomputeUseCase(s, s.Items(), log),
		valuation: inventory.NewValuationUseCase(s, s.Items(), nil, "", log),
		history:   inventory.NewHistoryUseCase(s.Movements(), s.Items()),
	}
}

// createItem crea un ítem con costo 10, precio 15 y mínimo 3.
func (f *fixture) createItem(t *testing.T, name string, initial int64) *dto.ItemResponse {
	t.Helper()
	it, err := f.items.Create(context.Background(), companyID, userID, dto.CreateItemRequest{
		Name:         name,
		Category:     "Insumos",
		CostPrice:    dec(10),
		SellingPrice: dec(15),
		MinimumStock: 3,
		InitialStock: initial,
	})
	require.NoError(t, err)
	return it
}

func (f *fixture) ledger(t *testing.T, itemID string) []*entity.Movement {
	t.Helper()
	movs, err := f.store.Movements().ListByItem(context.Background(), itemID)
	require.NoError(t, err)
	return movs
}

func (f *fixture) item(t *testing.T, itemID string) *entity.Item {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), itemID)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

type failingExpenses struct{}

func (failingExpenses) CreateCogsEntry(context.Context, *entity.ExpenseEntry) error {
	return errors.New("libro de gastos no disponible")
}
