package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (in, out, adjustment) con bloqueo del ítem (SELECT FOR UPDATE) y Commit/Rollback.
// Tras el commit, las salidas generan el gasto de costo de venta (best effort).
type RegisterMovementUseCase struct {
	txRunner TxRunner
	cogs     *CostRecognizer
	log      *logger.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. cogs puede ser nil (sin reconocimiento de costo).
func NewRegisterMovementUseCase(txRunner TxRunner, cogs *CostRecognizer, log *logger.Logger) *RegisterMovementUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		cogs:     cogs,
		log:      log.Component("movements"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *RegisterMovementUseCase) WithClock(now func() time.Time) *RegisterMovementUseCase {
	uc.now = now
	return uc
}

// MovementInputDTO entrada para registrar un movimiento.
// Quantity son unidades para in/out y el nivel objetivo absoluto para adjustment.
// UnitCost solo aplica a entradas; si es nil se usa el costo de referencia del ítem.
type MovementInputDTO struct {
	CompanyID string
	UserID    string
	ItemID    string
	Type      string
	Quantity  int64
	UnitCost  *decimal.Decimal
	Reason    string
	Reference string
	Notes     string

	Supplier      string
	PurchaseOrder string
	Customer      string
	SalesOrder    string
	SellingPrice  *decimal.Decimal

	// RequireChange rechaza ajustes que no modifican el stock.
	RequireChange bool
}

// MovementResult movimiento registrado, ítem con campos derivados actualizados
// y avisos de efectos secundarios fallidos.
type MovementResult struct {
	Movement *entity.Movement
	Item     *entity.Item
	Expense  *entity.ExpenseEntry
	Warnings []string
}

// RecordMovement valida la entrada, bloquea el ítem, calcula stockBefore/stockAfter, agrega el
// movimiento al libro y refresca los campos derivados en la misma transacción.
// Errores: *domain.ValidationError, domain.ErrNotFound, domain.ErrForbidden,
// *domain.InsufficientStockError, *domain.ConcurrencyConflictError.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, input MovementInputDTO) (*MovementResult, error) {
	mt, err := validateMovementInput(input)
	if err != nil {
		return nil, err
	}

	var result MovementResult
	err = uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		// Bloquea el ítem hasta el fin de la transacción para serializar movimientos concurrentes
		item, err := items.GetForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.CompanyID != input.CompanyID {
			return domain.ErrForbidden
		}

		mov, updated, err := uc.appendLocked(ctx, items, movements, item, mt, input)
		if err != nil {
			return err
		}
		result.Movement = mov
		result.Item = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("item_id", result.Item.ID).
		Str("movement_id", result.Movement.ID).
		Str("type", string(mt)).
		Int64("stock_before", result.Movement.StockBefore).
		Int64("stock_after", result.Movement.StockAfter).
		Msg("movimiento registrado")

	uc.recognizeCost(ctx, &result)
	return &result, nil
}

// recognizeCost registra el COGS de una salida ya confirmada. Un fallo queda como aviso.
func (uc *RegisterMovementUseCase) recognizeCost(ctx context.Context, result *MovementResult) {
	if result.Movement.Type() == entity.MovementTypeOut && uc.cogs != nil {
		entry, err := uc.cogs.Recognize(ctx, result.Item, result.Movement)
		if err != nil {
			sideErr := &domain.SideEffectError{Effect: "registro de costo de venta", MovementID: result.Movement.ID, Err: err}
			uc.log.Warn().Err(err).
				Str("item_id", result.Item.ID).
				Str("movement_id", result.Movement.ID).
				Msg("no se pudo registrar el gasto COGS; el movimiento se mantiene")
			result.Warnings = append(result.Warnings, sideErr.Error())
		} else {
			result.Expense = entry
		}
	}
}

// appendLocked agrega el movimiento sobre un ítem ya bloqueado por la transacción en curso
// y refresca sus campos derivados.
func (uc *RegisterMovementUseCase) appendLocked(
	ctx context.Context,
	items repository.ItemRepository,
	movements repository.MovementRepository,
	item *entity.Item,
	mt entity.MovementType,
	input MovementInputDTO,
) (*entity.Movement, *entity.Item, error) {
	history, err := movements.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, nil, err
	}
	now := uc.clockAfter(history)

	// Ítems con stock cargado fuera del libro: se abre la cadena con un ajuste al saldo existente
	if len(history) == 0 && item.CurrentStock > 0 {
		opening := openingBalance(item, input.UserID, now)
		if err := movements.Append(ctx, opening); err != nil {
			return nil, nil, err
		}
		history = append(history, opening)
		uc.log.Info().Str("item_id", item.ID).Int64("stock", item.CurrentStock).Msg("saldo inicial registrado en el libro")
	}

	before := inventory.Replay(history).CurrentStock
	if before != item.CurrentStock {
		uc.log.Warn().Str("item_id", item.ID).
			Int64("cached_stock", item.CurrentStock).
			Int64("replayed_stock", before).
			Msg("stock cacheado desincronizado; se usa el libro")
	}

	payload, err := buildPayload(mt, input, item)
	if err != nil {
		return nil, nil, err
	}
	after := payload.Apply(before)
	if mt == entity.MovementTypeOut && after < 0 {
		return nil, nil, &domain.InsufficientStockError{
			ItemID:       item.ID,
			CurrentStock: before,
			Requested:    input.Quantity,
			Shortfall:    -after,
		}
	}
	if mt == entity.MovementTypeAdjustment && input.RequireChange && after == before {
		return nil, nil, &domain.ValidationError{Field: "new_quantity", Message: "el nuevo nivel es igual al stock actual", Err: domain.ErrInvalidQuantity}
	}

	mov := &entity.Movement{
		ID:           uuid.New().String(),
		CompanyID:    item.CompanyID,
		ItemID:       item.ID,
		Payload:      payload,
		Reason:       input.Reason,
		Reference:    input.Reference,
		Notes:        input.Notes,
		StockBefore:  before,
		StockAfter:   after,
		MovementDate: now,
		CreatedAt:    now,
		CreatedBy:    input.UserID,
	}
	if err := movements.Append(ctx, mov); err != nil {
		return nil, nil, err
	}
	history = append(history, mov)

	updated, err := refreshDerivedFields(ctx, items, item, history, now)
	if err != nil {
		return nil, nil, err
	}
	return mov, updated, nil
}

// clockAfter devuelve la hora actual sin retroceder respecto al último movimiento del ítem.
func (uc *RegisterMovementUseCase) clockAfter(history []*entity.Movement) time.Time {
	now := uc.now().UTC()
	if n := len(history); n > 0 && history[n-1].MovementDate.After(now) {
		return history[n-1].MovementDate
	}
	return now
}

func validateMovementInput(input MovementInputDTO) (entity.MovementType, error) {
	if input.CompanyID == "" {
		return "", domain.NewValidationError("company_id", "requerido")
	}
	if input.ItemID == "" {
		return "", domain.NewValidationError("item_id", "requerido")
	}
	mt, err := entity.ParseMovementType(input.Type)
	if err != nil {
		return "", &domain.ValidationError{Field: "type", Message: "debe ser in, out o adjustment", Err: domain.ErrInvalidMovementType}
	}
	switch mt {
	case entity.MovementTypeIn, entity.MovementTypeOut:
		if input.Quantity <= 0 {
			return "", &domain.ValidationError{Field: "quantity", Message: "debe ser un entero positivo", Err: domain.ErrInvalidQuantity}
		}
	case entity.MovementTypeAdjustment:
		if input.Quantity < 0 {
			return "", &domain.ValidationError{Field: "quantity", Message: "el nivel objetivo no puede ser negativo", Err: domain.ErrInvalidQuantity}
		}
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return "", domain.NewValidationError("unit_cost", "no puede ser negativo")
	}
	return mt, nil
}

func buildPayload(mt entity.MovementType, input MovementInputDTO, item *entity.Item) (entity.MovementPayload, error) {
	switch mt {
	case entity.MovementTypeIn:
		unitCost := item.CostPrice
		if input.UnitCost != nil {
			unitCost = *input.UnitCost
		}
		return entity.InPayload{
			Quantity:      input.Quantity,
			UnitCost:      unitCost,
			Supplier:      input.Supplier,
			PurchaseOrder: input.PurchaseOrder,
		}, nil
	case entity.MovementTypeOut:
		return entity.OutPayload{
			Quantity:     input.Quantity,
			UnitCost:     item.CostPrice,
			Customer:     input.Customer,
			SalesOrder:   input.SalesOrder,
			SellingPrice: input.SellingPrice,
		}, nil
	case entity.MovementTypeAdjustment:
		return entity.AdjustmentPayload{TargetLevel: input.Quantity, AdjustedBy: input.UserID}, nil
	}
	return nil, fmt.Errorf("tipo de movimiento %q: %w", mt, domain.ErrInvalidMovementType)
}

func openingBalance(item *entity.Item, userID string, now time.Time) *entity.Movement {
	return &entity.Movement{
		ID:           uuid.New().String(),
		CompanyID:    item.CompanyID,
		ItemID:       item.ID,
		Payload:      entity.AdjustmentPayload{TargetLevel: item.CurrentStock, AdjustedBy: userID},
		Reason:       entity.ReasonOpeningBalance,
		Reference:    "Saldo inicial",
		StockBefore:  0,
		StockAfter:   item.CurrentStock,
		MovementDate: now,
		CreatedAt:    now,
		CreatedBy:    userID,
	}
}
