package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements.
// Para type=adjustment, quantity es el nivel de stock objetivo (absoluto), no un delta.
type RecordMovementRequest struct {
	ItemID        string           `json:"item_id"`
	Type          string           `json:"type"`
	Quantity      int64            `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Supplier      string           `json:"supplier,omitempty"`
	PurchaseOrder string           `json:"purchase_order,omitempty"`
	Customer      string           `json:"customer,omitempty"`
	SalesOrder    string           `json:"sales_order,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
}

// StockInRequest body para POST /api/inventory/stock-in.
type StockInRequest struct {
	ItemID        string           `json:"item_id"`
	Quantity      int64            `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Supplier      string           `json:"supplier,omitempty"`
	PurchaseOrder string           `json:"purchase_order,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// StockOutRequest body para POST /api/inventory/stock-out.
type StockOutRequest struct {
	ItemID       string           `json:"item_id"`
	Quantity     int64            `json:"quantity"`
	Reason       string           `json:"reason,omitempty"`
	Customer     string           `json:"customer,omitempty"`
	SalesOrder   string           `json:"sales_order,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	Reference    string           `json:"reference,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// StockAdjustmentRequest body para POST /api/inventory/stock-adjustment.
type StockAdjustmentRequest struct {
	ItemID      string `json:"item_id"`
	NewQuantity int64  `json:"new_quantity"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes,omitempty"`
}

// MovementResponse movimiento del libro.
type MovementResponse struct {
	ID            string           `json:"id"`
	ItemID        string           `json:"item_id"`
	ItemName      string           `json:"item_name,omitempty"`
	Category      string           `json:"category,omitempty"`
	Type          string           `json:"type"`
	Quantity      int64            `json:"quantity"`
	TargetLevel   *int64           `json:"target_level,omitempty"`
	Delta         int64            `json:"delta"`
	UnitCost      decimal.Decimal  `json:"unit_cost"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	Reason        string           `json:"reason,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Supplier      string           `json:"supplier,omitempty"`
	PurchaseOrder string           `json:"purchase_order,omitempty"`
	Customer      string           `json:"customer,omitempty"`
	SalesOrder    string           `json:"sales_order,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	AdjustedBy    string           `json:"adjusted_by,omitempty"`
	StockBefore   int64            `json:"stock_before"`
	StockAfter    int64            `json:"stock_after"`
	MovementDate  time.Time        `json:"movement_date"`
	CreatedBy     string           `json:"created_by,omitempty"`
}

// MovementResultResponse respuesta al registrar un movimiento.
// Warnings lista efectos secundarios fallidos; el movimiento quedó registrado igualmente.
type MovementResultResponse struct {
	Movement MovementResponse `json:"movement"`
	Item     ItemResponse     `json:"item"`
	Warnings []string         `json:"warnings,omitempty"`
}

// MovementAnalyticsDTO agregados del historial filtrado.
type MovementAnalyticsDTO struct {
	TotalMovements     int             `json:"total_movements"`
	MovementsByType    map[string]int  `json:"movements_by_type"`
	TotalValueIn       decimal.Decimal `json:"total_value_in"`
	TotalValueOut      decimal.Decimal `json:"total_value_out"`
	TotalQuantityIn    int64           `json:"total_quantity_in"`
	TotalQuantityOut   int64           `json:"total_quantity_out"`
	ItemsAffected      int             `json:"items_affected"`
	CategoriesAffected []string        `json:"categories_affected"`
}

// MovementHistoryResponse historial paginado con analítica.
type MovementHistoryResponse struct {
	Movements []MovementResponse   `json:"movements"`
	Page      PageResponse         `json:"page"`
	Analytics MovementAnalyticsDTO `json:"analytics"`
}

// ChainBreakDTO eslabón roto detectado por la auditoría.
type ChainBreakDTO struct {
	MovementID     string `json:"movement_id"`
	Position       int    `json:"position"`
	ExpectedBefore int64  `json:"expected_before"`
	ActualBefore   int64  `json:"actual_before"`
	ExpectedAfter  int64  `json:"expected_after"`
	ActualAfter    int64  `json:"actual_after"`
}

// AuditReportDTO comparación entre el stock cacheado y el reproducido desde el libro.
type AuditReportDTO struct {
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name"`
	CachedStock    int64           `json:"cached_stock"`
	ReplayedStock  int64           `json:"replayed_stock"`
	CachedStatus   string          `json:"cached_status"`
	ReplayedStatus string          `json:"replayed_status"`
	Movements      int             `json:"movements"`
	InSync         bool            `json:"in_sync"`
	ChainBreaks    []ChainBreakDTO `json:"chain_breaks,omitempty"`
}

// ItemValuationDTO valoración de un ítem.
type ItemValuationDTO struct {
	ItemID           string          `json:"item_id"`
	ItemName         string          `json:"item_name"`
	Category         string          `json:"category"`
	Unit             string          `json:"unit"`
	CurrentStock     int64           `json:"current_stock"`
	Method           string          `json:"method"`
	EffectiveMethod  string          `json:"effective_method"`
	UnitValue        decimal.Decimal `json:"unit_value"`
	TotalValue       decimal.Decimal `json:"total_value"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	SellingPrice     decimal.Decimal `json:"selling_price"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
	PotentialProfit  decimal.Decimal `json:"potential_profit"`
	UncoveredUnits   int64           `json:"uncovered_units,omitempty"`
}

// ValuationSummaryDTO totales del reporte de valoración.
type ValuationSummaryDTO struct {
	TotalItems            int             `json:"total_items"`
	TotalQuantity         int64           `json:"total_quantity"`
	TotalValue            decimal.Decimal `json:"total_value"`
	TotalPotentialRevenue decimal.Decimal `json:"total_potential_revenue"`
	TotalPotentialProfit  decimal.Decimal `json:"total_potential_profit"`
	ProfitMarginPct       decimal.Decimal `json:"profit_margin_pct"`
}

// CategoryValuationDTO desglose por categoría.
type CategoryValuationDTO struct {
	Category         string          `json:"category"`
	Items            int             `json:"items"`
	Quantity         int64           `json:"quantity"`
	TotalValue       decimal.Decimal `json:"total_value"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
}

// ValuationReportDTO reporte de valoración de inventario.
type ValuationReportDTO struct {
	CompanyID         string                 `json:"company_id"`
	Method            string                 `json:"method"`
	MethodDescription string                 `json:"method_description"`
	Category          string                 `json:"category,omitempty"`
	GeneratedAt       time.Time              `json:"generated_at"`
	Items             []ItemValuationDTO     `json:"items"`
	Summary           ValuationSummaryDTO    `json:"summary"`
	Categories        []CategoryValuationDTO `json:"category_breakdown"`
}

// LowStockItemDTO ítem bajo el mínimo con sugerencia de reposición.
type LowStockItemDTO struct {
	ItemID                   string          `json:"item_id"`
	ItemName                 string          `json:"item_name"`
	Category                 string          `json:"category"`
	Unit                     string          `json:"unit"`
	Supplier                 string          `json:"supplier,omitempty"`
	CurrentStock             int64           `json:"current_stock"`
	MinimumStock             int64           `json:"minimum_stock"`
	StockDeficit             int64           `json:"stock_deficit"`
	SuggestedReorderQuantity int64           `json:"suggested_reorder_quantity"`
	EstimatedOrderCost       decimal.Decimal `json:"estimated_order_cost"`
	Priority                 string          `json:"priority"` // critical | high | medium
	Status                   string          `json:"status"`
	LastRestocked            *time.Time      `json:"last_restocked,omitempty"`
	DaysSinceLastRestock     *int            `json:"days_since_last_restock,omitempty"`
}

// LowStockSummaryDTO conteos del reporte de reposición.
type LowStockSummaryDTO struct {
	TotalItems             int             `json:"total_items"`
	CriticalItems          int             `json:"critical_items"`
	HighPriorityItems      int             `json:"high_priority_items"`
	MediumPriorityItems    int             `json:"medium_priority_items"`
	TotalSuggestedQuantity int64           `json:"total_suggested_quantity"`
	EstimatedTotalCost     decimal.Decimal `json:"estimated_total_cost"`
}

// LowStockReportDTO reporte de reposición.
type LowStockReportDTO struct {
	Items   []LowStockItemDTO  `json:"items"`
	Summary LowStockSummaryDTO `json:"summary"`
}
