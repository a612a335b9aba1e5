package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos en memoria. Solo inserción, salvo el borrado administrativo.
type MovementRepo struct {
	s  *Store
	tx *tx
}

// Append asigna secuencia (e ID si falta) e inserta en orden (fecha, secuencia).
func (r *MovementRepo) Append(_ context.Context, m *entity.Movement) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if _, ok := r.s.movByID[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.seq++
	m.Sequence = r.s.seq

	c := *m
	list := r.s.ledger[m.ItemID]
	i := sort.Search(len(list), func(i int) bool { return c.Before(list[i]) })
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = &c
	r.s.ledger[m.ItemID] = list
	r.s.movByID[c.ID] = &c

	r.tx.onRollback(func() {
		delete(r.s.movByID, c.ID)
		cur := r.s.ledger[c.ItemID]
		for j, x := range cur {
			if x.ID == c.ID {
				r.s.ledger[c.ItemID] = append(cur[:j:j], cur[j+1:]...)
				break
			}
		}
	})
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.movByID[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

// ListByItem historial completo del ítem en orden ascendente.
func (r *MovementRepo) ListByItem(_ context.Context, itemID string) ([]*entity.Movement, error) {
	return r.collect(itemID, func(*entity.Movement) bool { return true }), nil
}

// ListInbound entradas del ítem en orden ascendente.
func (r *MovementRepo) ListInbound(_ context.Context, itemID string) ([]*entity.Movement, error) {
	return r.collect(itemID, func(m *entity.Movement) bool { return m.Type() == entity.MovementTypeIn }), nil
}

func (r *MovementRepo) collect(itemID string, keep func(*entity.Movement) bool) []*entity.Movement {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.ledger[itemID]
	out := make([]*entity.Movement, 0, len(src))
	for _, m := range src {
		if keep(m) {
			c := *m
			out = append(out, &c)
		}
	}
	return out
}

// List historial filtrado, más reciente primero. Limit ≤ 0 devuelve todos.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	r.s.mu.RLock()
	matched := make([]*entity.Movement, 0)
	for itemID, list := range r.s.ledger {
		if f.ItemID != "" && itemID != f.ItemID {
			continue
		}
		if f.Category != "" {
			it, ok := r.s.items[itemID]
			if !ok || it.Category != f.Category {
				continue
			}
		}
		for _, m := range list {
			if f.CompanyID != "" && m.CompanyID != f.CompanyID {
				continue
			}
			if f.Type != "" && m.Type() != f.Type {
				continue
			}
			if f.From != nil && m.MovementDate.Before(*f.From) {
				continue
			}
			if f.To != nil && m.MovementDate.After(*f.To) {
				continue
			}
			c := *m
			matched = append(matched, &c)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[j].Before(matched[i]) })
	total := len(matched)
	return paginate(matched, f.Limit, f.Offset), total, nil
}

// CountByItem número de movimientos del ítem.
func (r *MovementRepo) CountByItem(_ context.Context, itemID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.ledger[itemID]), nil
}

// DeleteByItem borra el historial del ítem.
func (r *MovementRepo) DeleteByItem(_ context.Context, itemID string) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.ledger[itemID]
	if !ok {
		return nil
	}
	delete(r.s.ledger, itemID)
	for _, m := range prev {
		delete(r.s.movByID, m.ID)
	}
	r.tx.onRollback(func() {
		r.s.ledger[itemID] = prev
		for _, m := range prev {
			r.s.movByID[m.ID] = m
		}
	})
	return nil
}
