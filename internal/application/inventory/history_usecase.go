package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// HistoryUseCase consulta el libro de movimientos con filtros y analítica.
type HistoryUseCase struct {
	movements repository.MovementRepository
	items     repository.ItemRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(movements repository.MovementRepository, items repository.ItemRepository) *HistoryUseCase {
	return &HistoryUseCase{movements: movements, items: items}
}

// ListMovements devuelve la página de movimientos (más reciente primero) y la analítica de esa página.
func (uc *HistoryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) (*dto.MovementHistoryResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	list, total, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	itemsByID := map[string]*entity.Item{}
	out := &dto.MovementHistoryResponse{
		Movements: make([]dto.MovementResponse, 0, len(list)),
		Page:      dto.NewPageResponse(page, len(list), total),
	}
	for _, m := range list {
		item, ok := itemsByID[m.ItemID]
		if !ok {
			item, err = uc.items.GetByID(ctx, m.ItemID)
			if err != nil {
				return nil, err
			}
			itemsByID[m.ItemID] = item
		}
		out.Movements = append(out.Movements, ToMovementResponse(m, item))
	}
	out.Analytics = Analyze(out.Movements)
	return out, nil
}

// ListItemMovements historial de un ítem de la empresa.
func (uc *HistoryUseCase) ListItemMovements(ctx context.Context, companyID, itemID string, limit, offset int) (*dto.MovementHistoryResponse, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.ListMovements(ctx, repository.MovementFilter{CompanyID: companyID, ItemID: itemID, Limit: limit, Offset: offset})
}

// Analyze agrega conteos por tipo, valores y cantidades de entrada/salida, ítems y categorías afectadas.
func Analyze(movs []dto.MovementResponse) dto.MovementAnalyticsDTO {
	a := dto.MovementAnalyticsDTO{
		MovementsByType: map[string]int{},
		TotalValueIn:    decimal.Zero,
		TotalValueOut:   decimal.Zero,
	}
	itemSet := map[string]struct{}{}
	catSet := map[string]struct{}{}
	for _, m := range movs {
		a.TotalMovements++
		a.MovementsByType[m.Type]++
		switch entity.MovementType(m.Type) {
		case entity.MovementTypeIn:
			a.TotalQuantityIn += m.Quantity
			a.TotalValueIn = a.TotalValueIn.Add(m.TotalCost)
		case entity.MovementTypeOut:
			a.TotalQuantityOut += m.Quantity
			a.TotalValueOut = a.TotalValueOut.Add(m.TotalCost)
		}
		itemSet[m.ItemID] = struct{}{}
		if m.Category != "" {
			catSet[m.Category] = struct{}{}
		}
	}
	a.ItemsAffected = len(itemSet)
	a.CategoriesAffected = make([]string, 0, len(catSet))
	for c := range catSet {
		a.CategoriesAffected = append(a.CategoriesAffected, c)
	}
	sort.Strings(a.CategoriesAffected)
	return a
}
