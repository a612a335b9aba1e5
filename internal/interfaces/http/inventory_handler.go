package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP del libro de movimientos y sus reportes (protegido).
type InventoryHandler struct {
	register      *inventory.RegisterMovementUseCase
	recompute     *inventory.RecomputeUseCase
	valuation     *inventory.ValuationUseCase
	replenishment *inventory.ReplenishmentUseCase
	history       *inventory.HistoryUseCase
	items         *inventory.ItemUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	register *inventory.RegisterMovementUseCase,
	recompute *inventory.RecomputeUseCase,
	valuation *inventory.ValuationUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	history *inventory.HistoryUseCase,
	items *inventory.ItemUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		register:      register,
		recompute:     recompute,
		valuation:     valuation,
		replenishment: replenishment,
		history:       history,
		items:         items,
	}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  type in|out|adjustment. Para adjustment, quantity es el nivel objetivo absoluto.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "item_id, type, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.register.RecordMovementFromRequest(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResultResponse(res))
}

// StockIn godoc
// @Summary      Entrada de mercancía
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "item_id, quantity, unit_cost opcional"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-in [post]
func (h *InventoryHandler) StockIn(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.register.StockIn(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResultResponse(res))
}

// StockOut godoc
// @Summary      Salida de mercancía
// @Description  Registra además el gasto de costo de venta; si falla, la respuesta trae warnings.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOutRequest  true  "item_id, quantity"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-out [post]
func (h *InventoryHandler) StockOut(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.register.StockOut(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResultResponse(res))
}

// StockAdjustment godoc
// @Summary      Ajuste por conteo físico
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "item_id, new_quantity, reason"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-adjustment [post]
func (h *InventoryHandler) StockAdjustment(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.register.StockAdjustment(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResultResponse(res))
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  Más reciente primero. La analítica se calcula sobre la página devuelta.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id   query  string  false  "ID del ítem"
// @Param        type      query  string  false  "in | out | adjustment"
// @Param        category  query  string  false  "Categoría del ítem"
// @Param        from      query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit     query  int     false  "Límite (default 20)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementHistoryResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	filter := repository.MovementFilter{
		CompanyID: companyID,
		ItemID:    c.Query("item_id"),
		Category:  c.Query("category"),
		Limit:     c.QueryInt("limit", 0),
		Offset:    c.QueryInt("offset", 0),
	}
	if t := c.Query("type"); t != "" {
		mt, err := entity.ParseMovementType(t)
		if err != nil {
			return writeError(c, domain.NewValidationError("type", "debe ser in, out o adjustment"))
		}
		filter.Type = mt
	}
	var err error
	if filter.From, err = queryTime(c, "from", false); err != nil {
		return writeError(c, err)
	}
	if filter.To, err = queryTime(c, "to", true); err != nil {
		return writeError(c, err)
	}
	out, err := h.history.ListMovements(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ItemMovements godoc
// @Summary      Historial de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/movements [get]
func (h *InventoryHandler) ItemMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.history.ListItemMovements(c.UserContext(), companyID, c.Params("id"), c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Recompute godoc
// @Summary      Recalcular stock desde el libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/recompute [post]
func (h *InventoryHandler) Recompute(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	item, err := h.recompute.Recompute(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToItemResponse(item))
}

// Audit godoc
// @Summary      Auditar ítem contra su libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.AuditReportDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/audit [get]
func (h *InventoryHandler) Audit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.recompute.Audit(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ItemValuation godoc
// @Summary      Valorar un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        method  query  string  false  "current | fifo | lifo | weighted_average"
// @Success      200  {object}  dto.ItemValuationDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/valuation [get]
func (h *InventoryHandler) ItemValuation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.valuation.Valuate(c.UserContext(), companyID, c.Params("id"), c.Query("method"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ValuationReport godoc
// @Summary      Reporte de valoración de la empresa
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        method    query  string  false  "current | fifo | lifo | weighted_average"
// @Param        category  query  string  false  "Categoría"
// @Success      200  {object}  dto.ValuationReportDTO
// @Router       /api/inventory/valuation [get]
func (h *InventoryHandler) ValuationReport(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.valuation.Report(c.UserContext(), companyID, c.Query("method"), c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ValuationPDF godoc
// @Summary      Reporte de valoración en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        method    query  string  false  "current | fifo | lifo | weighted_average"
// @Param        category  query  string  false  "Categoría"
// @Success      200  {file}  binary
// @Router       /api/inventory/valuation/pdf [get]
func (h *InventoryHandler) ValuationPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	doc, err := h.valuation.ReportPDF(c.UserContext(), companyID, c.Query("method"), c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="valoracion-inventario.pdf"`)
	return c.Send(doc)
}

// LowStock godoc
// @Summary      Reporte de reposición
// @Description  Ítems con stock ≤ mínimo, del menor stock al mayor, con cantidad sugerida y prioridad.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Categoría"
// @Success      200  {object}  dto.LowStockReportDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.replenishment.GetLowStockReport(c.UserContext(), companyID, c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryDTO
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.items.Summary(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// queryTime acepta RFC3339 o YYYY-MM-DD; con endOfDay una fecha sola cubre el día completo.
func queryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "fecha inválida")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
