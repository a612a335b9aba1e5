package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ItemUseCase casos de uso CRUD para ítems. Stock y estado se manejan vía movimientos.
type ItemUseCase struct {
	txRunner TxRunner
	items    repository.ItemRepository
	register *RegisterMovementUseCase
	log      *logger.Logger
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner TxRunner, items repository.ItemRepository, register *RegisterMovementUseCase, log *logger.Logger) *ItemUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &ItemUseCase{txRunner: txRunner, items: items, register: register, log: log.Component("items"), now: time.Now}
}

// Create crea el ítem con stock 0 y, si hay stock inicial, registra una entrada initial_stock
// al costo de referencia en la misma transacción.
func (uc *ItemUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if companyID == "" {
		return nil, domain.NewValidationError("company_id", "requerido")
	}
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	if err := validateThresholds(in.CostPrice, in.SellingPrice, in.MinimumStock, in.MaximumStock); err != nil {
		return nil, err
	}
	if in.InitialStock < 0 {
		return nil, &domain.ValidationError{Field: "initial_stock", Message: "no puede ser negativo", Err: domain.ErrInvalidQuantity}
	}
	if in.Unit == "" {
		in.Unit = "unidad"
	}

	now := uc.now().UTC()
	item := &entity.Item{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         in.Name,
		Category:     in.Category,
		Unit:         in.Unit,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		Supplier:     in.Supplier,
		Location:     in.Location,
		MinimumStock: in.MinimumStock,
		MaximumStock: in.MaximumStock,
		Status:       entity.DeriveStatus(0, in.MinimumStock),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var created *entity.Item
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		existing, err := items.GetByCompanyAndName(ctx, companyID, in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := items.Create(ctx, item); err != nil {
			return err
		}
		created = item
		if in.InitialStock == 0 {
			return nil
		}
		locked, err := items.GetForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}
		cost := in.CostPrice
		_, updated, err := uc.register.appendLocked(ctx, items, movements, locked, entity.MovementTypeIn, MovementInputDTO{
			CompanyID: companyID,
			UserID:    userID,
			ItemID:    item.ID,
			Type:      string(entity.MovementTypeIn),
			Quantity:  in.InitialStock,
			UnitCost:  &cost,
			Reason:    entity.ReasonInitialStock,
			Reference: "Initial Stock",
			Notes:     "Stock inicial al crear el ítem",
		})
		if err != nil {
			return err
		}
		created = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", created.ID).Str("company_id", companyID).Int64("initial_stock", in.InitialStock).Msg("ítem creado")
	out := ToItemResponse(created)
	return &out, nil
}

// Get obtiene un ítem de la empresa.
func (uc *ItemUseCase) Get(ctx context.Context, companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	out := ToItemResponse(item)
	return &out, nil
}

// List lista ítems con filtros y paginación.
func (uc *ItemUseCase) List(ctx context.Context, filter repository.ItemFilter) (*dto.ItemListResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	list, total, err := uc.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(list)),
		Page:  dto.NewPageResponse(page, len(list), total),
	}
	for _, it := range list {
		out.Items = append(out.Items, ToItemResponse(it))
	}
	return out, nil
}

// Update modifica atributos maestros. Si cambia el stock mínimo, el estado se recalcula desde el libro.
func (uc *ItemUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return domain.ErrForbidden
		}

		thresholdChanged := in.MinimumStock != nil && *in.MinimumStock != item.MinimumStock
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.NewValidationError("name", "no puede estar vacío")
			}
			if name != item.Name {
				dup, err := items.GetByCompanyAndName(ctx, companyID, name)
				if err != nil {
					return err
				}
				if dup != nil && dup.ID != item.ID {
					return domain.ErrDuplicate
				}
			}
			item.Name = name
		}
		if in.Category != nil {
			item.Category = *in.Category
		}
		if in.Unit != nil {
			item.Unit = *in.Unit
		}
		if in.CostPrice != nil {
			item.CostPrice = *in.CostPrice
		}
		if in.SellingPrice != nil {
			item.SellingPrice = *in.SellingPrice
		}
		if in.MinimumStock != nil {
			item.MinimumStock = *in.MinimumStock
		}
		if in.MaximumStock != nil {
			item.MaximumStock = in.MaximumStock
		}
		if in.Supplier != nil {
			item.Supplier = *in.Supplier
		}
		if in.Location != nil {
			item.Location = *in.Location
		}
		if err := validateThresholds(item.CostPrice, item.SellingPrice, item.MinimumStock, item.MaximumStock); err != nil {
			return err
		}
		now := uc.now().UTC()
		item.UpdatedAt = now
		if err := items.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		if !thresholdChanged {
			return nil
		}
		history, err := movements.ListByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			// ítem sin libro: solo cambia el estado derivado del stock cacheado
			fields := entity.DerivedFields{
				CurrentStock:  item.CurrentStock,
				Status:        entity.DeriveStatus(item.CurrentStock, item.MinimumStock),
				LastRestocked: item.LastRestocked,
			}
			version, err := items.UpdateDerivedFields(ctx, item.ID, fields, item.Version)
			if err != nil {
				return err
			}
			item.ApplyDerived(fields, now)
			item.Version = version
			return nil
		}
		updated, err = refreshDerivedFields(ctx, items, item, history, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := ToItemResponse(updated)
	return &out, nil
}

// Delete elimina el ítem. Si tiene movimientos se rechaza salvo force, que borra también su historial
// (anulación administrativa fuera de las garantías del libro).
func (uc *ItemUseCase) Delete(ctx context.Context, companyID, id string, force bool) error {
	var removed int
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return domain.ErrForbidden
		}
		removed, err = movements.CountByItem(ctx, id)
		if err != nil {
			return err
		}
		if removed > 0 {
			if !force {
				return domain.ErrItemHasMovements
			}
			if err := movements.DeleteByItem(ctx, id); err != nil {
				return err
			}
		}
		return items.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	if removed > 0 {
		uc.log.Warn().Str("item_id", id).Int("movements", removed).Msg("ítem eliminado con su historial (force)")
	}
	return nil
}

// Summary totales del inventario de la empresa.
func (uc *ItemUseCase) Summary(ctx context.Context, companyID string) (*dto.InventorySummaryDTO, error) {
	all, _, err := uc.items.List(ctx, repository.ItemFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	out := &dto.InventorySummaryDTO{TotalCostValue: decimal.Zero, TotalRetailValue: decimal.Zero}
	categories := map[string]struct{}{}
	for _, it := range all {
		out.TotalItems++
		switch it.Status {
		case entity.ItemStatusOutOfStock:
			out.OutOfStockItems++
		case entity.ItemStatusLowStock:
			out.LowStockItems++
		default:
			out.ActiveItems++
		}
		qty := decimal.NewFromInt(it.CurrentStock)
		out.TotalUnits += it.CurrentStock
		out.TotalCostValue = out.TotalCostValue.Add(it.CostPrice.Mul(qty))
		out.TotalRetailValue = out.TotalRetailValue.Add(it.SellingPrice.Mul(qty))
		categories[it.Category] = struct{}{}
	}
	out.Categories = len(categories)
	return out, nil
}

func validateThresholds(cost, selling decimal.Decimal, minimum int64, maximum *int64) error {
	if cost.IsNegative() {
		return domain.NewValidationError("cost_price", "no puede ser negativo")
	}
	if selling.IsNegative() {
		return domain.NewValidationError("selling_price", "no puede ser negativo")
	}
	if minimum < 0 {
		return domain.NewValidationError("minimum_stock", "no puede ser negativo")
	}
	if maximum != nil && *maximum < minimum {
		return domain.NewValidationError("maximum_stock", "debe ser mayor o igual al mínimo")
	}
	return nil
}
