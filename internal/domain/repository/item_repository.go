package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ItemFilter filtros para listar ítems de una empresa.
type ItemFilter struct {
	CompanyID    string
	Category     string
	Status       entity.ItemStatus
	Search       string // coincidencia parcial sobre el nombre
	LowStockOnly bool
	Limit        int // <= 0 sin límite
	Offset       int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Los métodos devuelven (nil, nil) cuando el ítem no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate obtiene el ítem y lo bloquea hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	GetByCompanyAndName(ctx context.Context, companyID, name string) (*entity.Item, error)
	// Update modifica solo atributos maestros; nunca los campos derivados.
	Update(ctx context.Context, item *entity.Item) error
	// UpdateDerivedFields escribe stock, estado y última reposición si la versión coincide.
	// Devuelve la nueva versión o *domain.ConcurrencyConflictError.
	UpdateDerivedFields(ctx context.Context, id string, fields entity.DerivedFields, expectedVersion int64) (int64, error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, int, error)
	ListLowStock(ctx context.Context, companyID, category string) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
}
