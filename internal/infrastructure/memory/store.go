// Package memory implementa los puertos de persistencia en memoria.
// Sirve para desarrollo local (INVENTORY_STORE=memory), la CLI y los tests de casos de uso.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

var errReadOnly = errors.New("memoria: escritura en transacción de solo lectura")

// Store guarda ítems, libro de movimientos y gastos. Los mapas se protegen con mu durante
// secciones cortas; la serialización por ítem la dan los locks de itemLocks, que una
// transacción mantiene hasta terminar.
type Store struct {
	mu        sync.RWMutex
	items     map[string]*entity.Item
	ledger    map[string][]*entity.Movement // por ítem, orden (fecha, secuencia)
	movByID   map[string]*entity.Movement
	expenses  []*entity.ExpenseEntry
	seq       int64
	itemLocks *keyedMutex
	now       func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]*entity.Item),
		ledger:    make(map[string][]*entity.Movement),
		movByID:   make(map[string]*entity.Movement),
		itemLocks: newKeyedMutex(),
		now:       time.Now,
	}
}

// Run ejecuta fn en una transacción: las escrituras se aplican al momento y se deshacen si fn falla.
// GetForUpdate bloquea el ítem hasta que Run termina.
func (s *Store) Run(ctx context.Context, fn func(items repository.ItemRepository, movements repository.MovementRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{s: s, held: map[string]func(){}}
	defer t.release()
	if err := fn(&ItemRepo{s: s, tx: t}, &MovementRepo{s: s, tx: t}); err != nil {
		t.rollback()
		return err
	}
	return nil
}

// ReadSnapshot ejecuta fn en modo lectura; cada ítem leído queda bloqueado hasta el final,
// por lo que el ítem y su historial forman una vista consistente.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(items repository.ItemRepository, movements repository.MovementRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{s: s, readOnly: true, held: map[string]func(){}}
	defer t.release()
	return fn(&ItemRepo{s: s, tx: t}, &MovementRepo{s: s, tx: t})
}

// Items repositorio fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Movements repositorio fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Expenses repositorio del libro de gastos.
func (s *Store) Expenses() *ExpenseRepo { return &ExpenseRepo{s: s} }

// Seed inserta un ítem tal cual, incluidos sus campos derivados (datos cargados fuera del libro).
func (s *Store) Seed(item *entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *item
	s.items[item.ID] = &c
}

type tx struct {
	s        *Store
	readOnly bool
	held     map[string]func()
	undo     []func() // se ejecutan con s.mu tomado
}

func (t *tx) lockItem(id string) {
	if t == nil {
		return
	}
	if _, ok := t.held[id]; ok {
		return
	}
	t.held[id] = t.s.itemLocks.Lock(id)
}

func (t *tx) onRollback(fn func()) {
	if t != nil {
		t.undo = append(t.undo, fn)
	}
}

func (t *tx) writable() error {
	if t != nil && t.readOnly {
		return errReadOnly
	}
	return nil
}

func (t *tx) rollback() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *tx) release() {
	for id, unlock := range t.held {
		unlock()
		delete(t.held, id)
	}
}
