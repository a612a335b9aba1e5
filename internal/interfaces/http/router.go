package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Items            *inventory.ItemUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Recompute        *inventory.RecomputeUseCase
	Valuation        *inventory.ValuationUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	History          *inventory.HistoryUseCase
	JWTSecret        string
	JWTIssuer        string
}

// Router registra las rutas de la API. Todo /api/inventory requiere Bearer Token;
// las operaciones que alteran el libro exigen además rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	inv := api.Group("/inventory", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	warehouse := RequireRole(RoleAdmin, RoleBodeguero)
	anyRole := RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor)
	adminOnly := RequireRole(RoleAdmin)

	// Ítems
	itemHandler := NewItemHandler(deps.Items)
	inv.Post("/items", warehouse, itemHandler.Create)
	inv.Get("/items", itemHandler.List)
	inv.Get("/items/:id", itemHandler.GetByID)
	inv.Put("/items/:id", warehouse, itemHandler.Update)
	inv.Delete("/items/:id", adminOnly, itemHandler.Delete)

	// Movimientos y reportes
	h := NewInventoryHandler(deps.RegisterMovement, deps.Recompute, deps.Valuation, deps.Replenishment, deps.History, deps.Items)
	inv.Post("/movements", warehouse, h.RecordMovement)
	inv.Get("/movements", h.ListMovements)
	inv.Post("/stock-in", warehouse, h.StockIn)
	inv.Post("/stock-out", anyRole, h.StockOut)
	inv.Post("/stock-adjustment", warehouse, h.StockAdjustment)

	inv.Get("/items/:id/movements", h.ItemMovements)
	inv.Post("/items/:id/recompute", adminOnly, h.Recompute)
	inv.Get("/items/:id/audit", h.Audit)
	inv.Get("/items/:id/valuation", h.ItemValuation)

	inv.Get("/valuation", h.ValuationReport)
	inv.Get("/valuation/pdf", h.ValuationPDF)
	inv.Get("/low-stock", h.LowStock)
	inv.Get("/summary", h.Summary)
}
