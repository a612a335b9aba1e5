package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	// Run abre una transacción de escritura. ItemRepository.GetForUpdate bloquea el ítem
	// hasta Commit/Rollback, lo que serializa los movimientos por ítem.
	Run(ctx context.Context, fn func(items repository.ItemRepository, movements repository.MovementRepository) error) error
	// ReadSnapshot abre una transacción de solo lectura con una vista consistente
	// del ítem y su historial.
	ReadSnapshot(ctx context.Context, fn func(items repository.ItemRepository, movements repository.MovementRepository) error) error
}

// ValuationReportRenderer genera la representación PDF del reporte de valoración.
type ValuationReportRenderer interface {
	RenderValuationReport(ctx context.Context, report *dto.ValuationReportDTO) ([]byte, error)
}
