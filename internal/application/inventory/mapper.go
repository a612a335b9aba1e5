package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ToItemResponse convierte la entidad al DTO de salida.
func ToItemResponse(i *entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:            i.ID,
		CompanyID:     i.CompanyID,
		Name:          i.Name,
		Category:      i.Category,
		Unit:          i.Unit,
		CostPrice:     i.CostPrice,
		SellingPrice:  i.SellingPrice,
		MinimumStock:  i.MinimumStock,
		MaximumStock:  i.MaximumStock,
		CurrentStock:  i.CurrentStock,
		Status:        string(i.Status),
		LastRestocked: i.LastRestocked,
		Supplier:      i.Supplier,
		Location:      i.Location,
		Version:       i.Version,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// ToMovementResponse convierte un movimiento; item es opcional (nombre y categoría).
func ToMovementResponse(m *entity.Movement, item *entity.Item) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:           m.ID,
		ItemID:       m.ItemID,
		Type:         string(m.Type()),
		Quantity:     m.Quantity(),
		Delta:        m.Delta(),
		UnitCost:     m.UnitCost(),
		TotalCost:    m.TotalCost(),
		Reason:       m.Reason,
		Reference:    m.Reference,
		Notes:        m.Notes,
		StockBefore:  m.StockBefore,
		StockAfter:   m.StockAfter,
		MovementDate: m.MovementDate,
		CreatedBy:    m.CreatedBy,
	}
	if item != nil {
		out.ItemName = item.Name
		out.Category = item.Category
	}
	switch p := m.Payload.(type) {
	case entity.InPayload:
		out.Supplier = p.Supplier
		out.PurchaseOrder = p.PurchaseOrder
	case entity.OutPayload:
		out.Customer = p.Customer
		out.SalesOrder = p.SalesOrder
		out.SellingPrice = p.SellingPrice
	case entity.AdjustmentPayload:
		target := p.TargetLevel
		out.TargetLevel = &target
		out.AdjustedBy = p.AdjustedBy
	}
	return out
}

// ToMovementResultResponse convierte el resultado de registrar un movimiento.
func ToMovementResultResponse(r *MovementResult) dto.MovementResultResponse {
	return dto.MovementResultResponse{
		Movement: ToMovementResponse(r.Movement, r.Item),
		Item:     ToItemResponse(r.Item),
		Warnings: r.Warnings,
	}
}
