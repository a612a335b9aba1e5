package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository (con o sin transacción).
type ItemRepo struct {
	s  *Store
	tx *tx
}

// Create persiste un nuevo ítem.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, it := range r.s.items {
		if it.CompanyID == item.CompanyID && strings.EqualFold(it.Name, item.Name) {
			return domain.ErrDuplicate
		}
	}
	c := *item
	r.s.items[item.ID] = &c
	r.tx.onRollback(func() { delete(r.s.items, item.ID) })
	return nil
}

// GetByID obtiene un ítem por ID. En una lectura consistente bloquea el ítem.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	if r.tx != nil && r.tx.readOnly {
		r.tx.lockItem(id)
	}
	return r.get(id), nil
}

// GetForUpdate bloquea el ítem hasta el fin de la transacción.
func (r *ItemRepo) GetForUpdate(_ context.Context, id string) (*entity.Item, error) {
	r.tx.lockItem(id)
	return r.get(id), nil
}

func (r *ItemRepo) get(id string) *entity.Item {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil
	}
	c := *it
	return &c
}

// GetByCompanyAndName busca por nombre (sin distinguir mayúsculas) dentro de la empresa.
func (r *ItemRepo) GetByCompanyAndName(_ context.Context, companyID, name string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.items {
		if it.CompanyID == companyID && strings.EqualFold(it.Name, name) {
			c := *it
			return &c, nil
		}
	}
	return nil, nil
}

// Update actualiza atributos maestros. Los campos derivados y la versión se conservan.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	prev := *cur
	next := *item
	next.CurrentStock = prev.CurrentStock
	next.Status = prev.Status
	next.LastRestocked = prev.LastRestocked
	next.Version = prev.Version
	next.CreatedAt = prev.CreatedAt
	r.s.items[item.ID] = &next
	r.tx.onRollback(func() { r.s.items[item.ID] = &prev })
	return nil
}

// UpdateDerivedFields escribe los campos derivados si la versión coincide.
func (r *ItemRepo) UpdateDerivedFields(_ context.Context, id string, fields entity.DerivedFields, expectedVersion int64) (int64, error) {
	if err := r.tx.writable(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return 0, &domain.ConcurrencyConflictError{ItemID: id, ExpectedVersion: expectedVersion, ActualVersion: cur.Version}
	}
	prev := *cur
	next := *cur
	next.ApplyDerived(fields, r.s.now().UTC())
	r.s.items[id] = &next
	r.tx.onRollback(func() { r.s.items[id] = &prev })
	return next.Version, nil
}

// List filtra y pagina por nombre. Limit ≤ 0 devuelve todos.
func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	r.s.mu.RLock()
	matched := make([]*entity.Item, 0)
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, it := range r.s.items {
		if f.CompanyID != "" && it.CompanyID != f.CompanyID {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if f.LowStockOnly && !it.IsLowStock() {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		c := *it
		matched = append(matched, &c)
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})
	total := len(matched)
	return paginate(matched, f.Limit, f.Offset), total, nil
}

// ListLowStock ítems con stock actual ≤ mínimo, del menor stock al mayor.
func (r *ItemRepo) ListLowStock(ctx context.Context, companyID, category string) ([]*entity.Item, error) {
	list, _, err := r.List(ctx, repository.ItemFilter{CompanyID: companyID, Category: category, LowStockOnly: true})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CurrentStock < list[j].CurrentStock })
	return list, nil
}

// Delete elimina un ítem por ID.
func (r *ItemRepo) Delete(_ context.Context, id string) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[id]
	if !ok {
		return nil
	}
	delete(r.s.items, id)
	r.tx.onRollback(func() { r.s.items[id] = cur })
	return nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
