package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Prioridades de reposición.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
)

// idealStockFactor el stock ideal tras reponer es 1.5 veces el mínimo, truncado a unidades enteras.
var idealStockFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera el reporte de ítems en o bajo su stock mínimo.
// Vista derivada y no persistida sobre el almacén de ítems.
type ReplenishmentUseCase struct {
	items repository.ItemRepository
	now   func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(items repository.ItemRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{items: items, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReplenishmentUseCase) WithClock(now func() time.Time) *ReplenishmentUseCase {
	uc.now = now
	return uc
}

// GetLowStockReport devuelve los ítems con stock actual ≤ mínimo, del menor stock al mayor,
// con déficit, cantidad sugerida de pedido y prioridad. category vacío = todas.
func (uc *ReplenishmentUseCase) GetLowStockReport(ctx context.Context, companyID, category string) (*dto.LowStockReportDTO, error) {
	rawItems, err := uc.items.ListLowStock(ctx, companyID, category)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	report := &dto.LowStockReportDTO{
		Items:   make([]dto.LowStockItemDTO, 0, len(rawItems)),
		Summary: dto.LowStockSummaryDTO{EstimatedTotalCost: decimal.Zero},
	}
	for _, item := range rawItems {
		if !item.IsLowStock() {
			continue
		}
		row := LowStockRow(item, now)
		report.Items = append(report.Items, row)

		report.Summary.TotalItems++
		report.Summary.TotalSuggestedQuantity += row.SuggestedReorderQuantity
		report.Summary.EstimatedTotalCost = report.Summary.EstimatedTotalCost.Add(row.EstimatedOrderCost)
		switch row.Priority {
		case PriorityCritical:
			report.Summary.CriticalItems++
		case PriorityHigh:
			report.Summary.HighPriorityItems++
		default:
			report.Summary.MediumPriorityItems++
		}
	}

	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].CurrentStock < report.Items[j].CurrentStock
	})
	return report, nil
}

// LowStockRow calcula la sugerencia de reposición de un ítem:
// déficit = max(0, mínimo − actual); sugerido = max(0, ⌊1.5 × mínimo⌋ − actual).
func LowStockRow(item *entity.Item, now time.Time) dto.LowStockItemDTO {
	deficit := max(0, item.MinimumStock-item.CurrentStock)
	ideal := decimal.NewFromInt(item.MinimumStock).Mul(idealStockFactor).IntPart()
	suggested := max(0, ideal-item.CurrentStock)

	row := dto.LowStockItemDTO{
		ItemID:                   item.ID,
		ItemName:                 item.Name,
		Category:                 item.Category,
		Unit:                     item.Unit,
		Supplier:                 item.Supplier,
		CurrentStock:             item.CurrentStock,
		MinimumStock:             item.MinimumStock,
		StockDeficit:             deficit,
		SuggestedReorderQuantity: suggested,
		EstimatedOrderCost:       item.CostPrice.Mul(decimal.NewFromInt(suggested)),
		Priority:                 Priority(item.CurrentStock, item.MinimumStock),
		Status:                   string(item.Status),
		LastRestocked:            item.LastRestocked,
	}
	if item.LastRestocked != nil {
		days := int(now.Sub(*item.LastRestocked).Hours() / 24)
		row.DaysSinceLastRestock = &days
	}
	return row
}

// Priority critical si no hay stock, high si el stock es a lo sumo la mitad del mínimo, si no medium.
func Priority(currentStock, minimumStock int64) string {
	switch {
	case currentStock <= 0:
		return PriorityCritical
	case 2*currentStock <= minimumStock:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}
