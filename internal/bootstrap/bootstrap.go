// Package bootstrap arma el grafo de dependencias compartido por la API y la CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Services casos de uso listos para usar. Pool es nil con el almacén en memoria.
type Services struct {
	Items         *inventory.ItemUseCase
	Register      *inventory.RegisterMovementUseCase
	Recompute     *inventory.RecomputeUseCase
	Valuation     *inventory.ValuationUseCase
	Replenishment *inventory.ReplenishmentUseCase
	History       *inventory.HistoryUseCase

	Pool  *pgxpool.Pool
	close func()
}

// Close libera las conexiones del almacén.
func (s *Services) Close() {
	if s.close != nil {
		s.close()
	}
}

// New construye los casos de uso sobre el almacén indicado en cfg.Inventory.Store.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	var (
		txRunner  inventory.TxRunner
		items     repository.ItemRepository
		movements repository.MovementRepository
		expenses  repository.ExpenseRepository
		svc       = &Services{}
	)

	switch cfg.Inventory.Store {
	case config.StoreMemory:
		store := memory.NewStore()
		txRunner, items, movements, expenses = store, store.Items(), store.Movements(), store.Expenses()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		svc.Pool, svc.close = pool, pool.Close
		txRunner = postgres.NewTxRunner(pool)
		items = postgres.NewItemRepository(pool)
		movements = postgres.NewMovementRepository(pool)
		expenses = postgres.NewExpenseRepository(pool)
	default:
		return nil, fmt.Errorf("almacén desconocido %q", cfg.Inventory.Store)
	}

	renderer := infrapdf.NewValuationReportPDF(cfg.Inventory.ReportLocale, cfg.Inventory.Currency)

	svc.Register = inventory.NewRegisterMovementUseCase(txRunner, inventory.NewCostRecognizer(expenses), log)
	svc.Items = inventory.NewItemUseCase(txRunner, items, svc.Register, log)
	svc.Recompute = inventory.NewRecomputeUseCase(txRunner, items, log)
	svc.Valuation = inventory.NewValuationUseCase(txRunner, items, renderer, cfg.Inventory.DefaultValuationMethod, log)
	svc.Replenishment = inventory.NewReplenishmentUseCase(items)
	svc.History = inventory.NewHistoryUseCase(movements, items)
	return svc, nil
}
