package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

const referenceLayout = "20060102150405"

// RecordMovementFromRequest adapta el request HTTP al caso de uso RecordMovement(ctx, MovementInputDTO).
// Usar desde handlers HTTP o desde otros casos de uso que tengan companyID, userID y dto.RecordMovementRequest.
func (uc *RegisterMovementUseCase) RecordMovementFromRequest(ctx context.Context, companyID, userID string, in dto.RecordMovementRequest) (*MovementResult, error) {
	return uc.RecordMovement(ctx, MovementInputDTO{
		CompanyID:     companyID,
		UserID:        userID,
		ItemID:        in.ItemID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		Reason:        in.Reason,
		Reference:     in.Reference,
		Notes:         in.Notes,
		Supplier:      in.Supplier,
		PurchaseOrder: in.PurchaseOrder,
		Customer:      in.Customer,
		SalesOrder:    in.SalesOrder,
		SellingPrice:  in.SellingPrice,
	})
}

// StockIn registra una entrada de mercancía (compra o devolución de proveedor).
func (uc *RegisterMovementUseCase) StockIn(ctx context.Context, companyID, userID string, in dto.StockInRequest) (*MovementResult, error) {
	return uc.RecordMovement(ctx, MovementInputDTO{
		CompanyID:     companyID,
		UserID:        userID,
		ItemID:        in.ItemID,
		Type:          string(entity.MovementTypeIn),
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		Reason:        entity.ReasonStockIn,
		Reference:     uc.defaultReference(in.Reference, "Stock In"),
		Notes:         in.Notes,
		Supplier:      in.Supplier,
		PurchaseOrder: in.PurchaseOrder,
	})
}

// StockOut registra una salida (venta o consumo). Genera el gasto COGS.
func (uc *RegisterMovementUseCase) StockOut(ctx context.Context, companyID, userID string, in dto.StockOutRequest) (*MovementResult, error) {
	reason := in.Reason
	if reason == "" {
		reason = entity.ReasonStockOut
	}
	return uc.RecordMovement(ctx, MovementInputDTO{
		CompanyID:    companyID,
		UserID:       userID,
		ItemID:       in.ItemID,
		Type:         string(entity.MovementTypeOut),
		Quantity:     in.Quantity,
		Reason:       reason,
		Reference:    uc.defaultReference(in.Reference, "Stock Out"),
		Notes:        in.Notes,
		Customer:     in.Customer,
		SalesOrder:   in.SalesOrder,
		SellingPrice: in.SellingPrice,
	})
}

// StockAdjustment fija el stock en NewQuantity (conteo físico). Exige motivo y un cambio real.
func (uc *RegisterMovementUseCase) StockAdjustment(ctx context.Context, companyID, userID string, in dto.StockAdjustmentRequest) (*MovementResult, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.NewValidationError("reason", "requerido para un ajuste")
	}
	return uc.RecordMovement(ctx, MovementInputDTO{
		CompanyID:     companyID,
		UserID:        userID,
		ItemID:        in.ItemID,
		Type:          string(entity.MovementTypeAdjustment),
		Quantity:      in.NewQuantity,
		Reason:        in.Reason,
		Reference:     "Stock Adjustment - " + uc.now().UTC().Format(referenceLayout),
		Notes:         in.Notes,
		RequireChange: true,
	})
}

func (uc *RegisterMovementUseCase) defaultReference(ref, prefix string) string {
	if ref != "" {
		return ref
	}
	return prefix + " - " + uc.now().UTC().Format(referenceLayout)
}
