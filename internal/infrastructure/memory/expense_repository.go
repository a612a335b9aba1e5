package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo libro de gastos en memoria.
type ExpenseRepo struct {
	s *Store
}

// CreateCogsEntry agrega un gasto de costo de venta.
func (r *ExpenseRepo) CreateCogsEntry(_ context.Context, entry *entity.ExpenseEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	c := *entry
	c.Tags = slices.Clone(entry.Tags)
	r.s.mu.Lock()
	r.s.expenses = append(r.s.expenses, &c)
	r.s.mu.Unlock()
	return nil
}

// All devuelve una copia de los gastos registrados, en orden de inserción.
func (r *ExpenseRepo) All() []*entity.ExpenseEntry {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.ExpenseEntry, 0, len(r.s.expenses))
	for _, e := range r.s.expenses {
		c := *e
		out = append(out, &c)
	}
	return out
}
