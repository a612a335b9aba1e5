package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	CompanyID string
	ItemID    string
	Type      entity.MovementType
	Category  string
	From      *time.Time
	To        *time.Time
	Limit     int // <= 0 sin límite
	Offset    int
}

// MovementRepository puerto del libro de movimientos (solo inserción).
type MovementRepository interface {
	// Append persiste el movimiento y le asigna ID (si falta) y Sequence.
	Append(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// ListByItem devuelve todos los movimientos del ítem en orden ascendente (fecha, secuencia).
	ListByItem(ctx context.Context, itemID string) ([]*entity.Movement, error)
	// ListInbound devuelve las entradas del ítem en orden ascendente.
	ListInbound(ctx context.Context, itemID string) ([]*entity.Movement, error)
	// List historial filtrado, más reciente primero, con el total sin paginar.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, int, error)
	CountByItem(ctx context.Context, itemID string) (int, error)
	// DeleteByItem borrado administrativo; fuera de las garantías del libro.
	DeleteByItem(ctx context.Context, itemID string) error
}
