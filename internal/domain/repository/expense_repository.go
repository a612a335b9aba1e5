package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ExpenseRepository puerto hacia el libro de gastos externo.
type ExpenseRepository interface {
	CreateCogsEntry(ctx context.Context, entry *entity.ExpenseEntry) error
}
