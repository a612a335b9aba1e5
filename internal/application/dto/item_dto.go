package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/inventory/items.
// InitialStock se registra como un movimiento de entrada, nunca como escritura directa del stock.
type CreateItemRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	MinimumStock int64           `json:"minimum_stock"`
	MaximumStock *int64          `json:"maximum_stock,omitempty"`
	InitialStock int64           `json:"initial_stock"`
	Supplier     string          `json:"supplier,omitempty"`
	Location     string          `json:"location,omitempty"`
}

// UpdateItemRequest body para PUT /api/inventory/items/:id. Solo atributos maestros.
type UpdateItemRequest struct {
	Name         *string          `json:"name,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	CostPrice    *decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice *decimal.Decimal `json:"selling_price,omitempty"`
	MinimumStock *int64           `json:"minimum_stock,omitempty"`
	MaximumStock *int64           `json:"maximum_stock,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
	Location     *string          `json:"location,omitempty"`
}

// ItemResponse ítem con sus campos derivados.
type ItemResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	MinimumStock  int64           `json:"minimum_stock"`
	MaximumStock  *int64          `json:"maximum_stock,omitempty"`
	CurrentStock  int64           `json:"current_stock"`
	Status        string          `json:"status"`
	LastRestocked *time.Time      `json:"last_restocked,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
	Location      string          `json:"location,omitempty"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse listado paginado.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// InventorySummaryDTO totales del inventario de una empresa.
type InventorySummaryDTO struct {
	TotalItems       int             `json:"total_items"`
	ActiveItems      int             `json:"active_items"`
	LowStockItems    int             `json:"low_stock_items"`
	OutOfStockItems  int             `json:"out_of_stock_items"`
	TotalUnits       int64           `json:"total_units"`
	TotalCostValue   decimal.Decimal `json:"total_cost_value"`
	TotalRetailValue decimal.Decimal `json:"total_retail_value"`
	Categories       int             `json:"categories"`
}
