package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/reports"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// invalidator lo cumple *reports.ReportUseCase: descarta resúmenes cacheados tras mover stock.
type invalidator interface {
	Invalidate(ctx context.Context)
}

// InventoryHandler lotes, ajustes de inventario, libro y consultas de vencimiento y reposición.
type InventoryHandler struct {
	batches       *inventory.BatchUseCase
	engine        *inventory.Engine
	replenishment *inventory.ReplenishmentUseCase
	export        *reports.ExportUseCase
	cache         invalidator
	now           func() time.Time
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	batches *inventory.BatchUseCase,
	engine *inventory.Engine,
	replenishment *inventory.ReplenishmentUseCase,
	export *reports.ExportUseCase,
	cache invalidator,
) *InventoryHandler {
	return &InventoryHandler{
		batches:       batches,
		engine:        engine,
		replenishment: replenishment,
		export:        export,
		cache:         cache,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateBatch godoc
// @Summary      Registrar lote manual
// @Description  Crea el lote y deja un asiento restock.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddBatchRequest  true  "Lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *InventoryHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.AddBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	b, err := h.batches.AddBatch(c.Context(), GetUserID(c), inventory.AddBatchInput{
		ProductID:       in.ProductID,
		ProductFlavorID: in.ProductFlavorID,
		StoreID:         in.StoreID,
		SupplierID:      in.SupplierID,
		BatchNumber:     in.BatchNumber,
		ExpirationDate:  parseDate(in.ExpirationDate),
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		Location:        in.Location,
		DateReceived:    parseDate(in.DateReceived),
		Notes:           in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context())
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(b, h.now()))
}

// GetBatch godoc
// @Summary      Obtener lote
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *InventoryHandler) GetBatch(c *fiber.Ctx) error {
	b, err := h.batches.GetBatch(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBatchResponse(b, h.now()))
}

// ListBatches godoc
// @Summary      Listar lotes (orden FIFO)
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        store_id     query  string  false  "Tienda"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        grn_id       query  string  false  "GRN de origen"
// @Param        in_stock     query  bool    false  "Solo con existencia"
// @Param        active_only  query  bool    false  "Solo activos"
// @Success      200  {object}  dto.BatchListResponse
// @Router       /api/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	p := page(c)
	list, err := h.batches.ListBatches(c.Context(), repository.BatchFilter{
		ProductID:  c.Query("product_id"),
		StoreID:    c.Query("store_id"),
		SupplierID: c.Query("supplier_id"),
		GRNID:      c.Query("grn_id"),
		InStock:    c.QueryBool("in_stock", false),
		ActiveOnly: c.QueryBool("active_only", false),
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BatchListResponse{Items: toBatchResponses(list, h.now()), Page: p})
}

// UpdateBatch godoc
// @Summary      Actualizar metadatos del lote
// @Description  La cantidad no se cambia aquí; usar /adjust.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.UpdateBatchRequest  true  "Cambios"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/batches/{id} [put]
func (h *InventoryHandler) UpdateBatch(c *fiber.Ctx) error {
	var in dto.UpdateBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	b, err := h.batches.UpdateBatch(c.Context(), c.Params("id"), inventory.UpdateBatchInput{
		BatchNumber:     in.BatchNumber,
		ExpirationDate:  parseDatePtr(in.ExpirationDate),
		ClearExpiration: in.ClearExpiration,
		Location:        in.Location,
		SupplierID:      in.SupplierID,
		Notes:           in.Notes,
		IsActive:        in.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context())
	return c.JSON(toBatchResponse(b, h.now()))
}

// AdjustBatch godoc
// @Summary      Ajustar cantidad del lote
// @Description  Fija la cantidad absoluta; la diferencia queda como asiento adjustment.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.AdjustBatchRequest  true  "Nueva cantidad"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/batches/{id}/adjust [post]
func (h *InventoryHandler) AdjustBatch(c *fiber.Ctx) error {
	var in dto.AdjustBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	b, err := h.batches.AdjustQuantity(c.Context(), GetUserID(c), c.Params("id"), in.Quantity, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context())
	return c.JSON(toBatchResponse(b, h.now()))
}

// Deduct godoc
// @Summary      Retiro manual de inventario
// @Description  Con batch_id descuenta de ese lote; sin él asigna FIFO.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeductionRequest  true  "Retiro"
// @Success      200   {array}   dto.AllocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/deduct [post]
func (h *InventoryHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	allocs, err := h.engine.AllocateDeduction(c.Context(), GetUserID(c), inventory.DeductionInput{
		ProductID:       in.ProductID,
		StoreID:         in.StoreID,
		ProductFlavorID: in.ProductFlavorID,
		BatchID:         in.BatchID,
		Quantity:        in.Quantity,
		Reference:       in.Reference,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context())
	return c.JSON(toAllocationResponses(allocs))
}

// Credit godoc
// @Summary      Crédito manual a un lote
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreditRequest  true  "Crédito"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/inventory/credit [post]
func (h *InventoryHandler) Credit(c *fiber.Ctx) error {
	var in dto.CreditRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	b, err := h.engine.CreditBatch(c.Context(), GetUserID(c), inventory.CreditInput{
		BatchID:   in.BatchID,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context())
	return c.JSON(toBatchResponse(b, h.now()))
}

// AverageCost godoc
// @Summary      Costo unitario promedio
// @Description  Promedio ponderado de los lotes disponibles del producto en la tienda.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id         query  string  true   "Producto"
// @Param        store_id           query  string  true   "Tienda"
// @Param        product_flavor_id  query  string  false  "Sabor"
// @Success      200  {object}  dto.AverageCostResponse
// @Router       /api/inventory/average-cost [get]
func (h *InventoryHandler) AverageCost(c *fiber.Ctx) error {
	scope := repository.BatchScope{
		ProductID:       c.Query("product_id"),
		StoreID:         c.Query("store_id"),
		ProductFlavorID: optionalQuery(c, "product_flavor_id"),
	}
	avg, err := h.engine.AverageUnitCostFor(c.Context(), scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AverageCostResponse{
		ProductID:       scope.ProductID,
		StoreID:         scope.StoreID,
		ProductFlavorID: scope.ProductFlavorID,
		AverageUnitCost: avg,
	})
}

// Ledger godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        store_id    query  string  false  "Tienda"
// @Param        batch_id    query  string  false  "Lote"
// @Param        kind        query  string  false  "sale, restock, adjustment, return, transfer-out, transfer-in"
// @Param        reference   query  string  false  "Factura, GRN o traslado"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.LedgerListResponse
// @Router       /api/inventory/ledger [get]
func (h *InventoryHandler) Ledger(c *fiber.Ctx) error {
	from, to, ok := queryRange(c)
	if !ok {
		return badRequest(c, "VALIDATION", "from/to deben tener formato YYYY-MM-DD")
	}
	kind := entity.LedgerKind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		return badRequest(c, "VALIDATION", "kind inválido")
	}
	p := page(c)
	list, err := h.batches.ListLedger(c.Context(), repository.LedgerFilter{
		ProductID: c.Query("product_id"),
		StoreID:   c.Query("store_id"),
		BatchID:   c.Query("batch_id"),
		Kind:      kind,
		Reference: c.Query("reference"),
		From:      from,
		To:        to,
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LedgerListResponse{Items: toLedgerResponses(list), Page: p})
}

// Expired godoc
// @Summary      Lotes vencidos con existencia
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Tienda; vacío = cadena"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/inventory/expired [get]
func (h *InventoryHandler) Expired(c *fiber.Ctx) error {
	now := h.now()
	list, err := h.batches.ListExpired(c.Context(), c.Query("store_id"), now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBatchResponses(list, now))
}

// ExpiringSoon godoc
// @Summary      Lotes por vencer
// @Description  Ventana configurada por EXPIRING_SOON_DAYS.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Tienda; vacío = cadena"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/expiring [get]
func (h *InventoryHandler) ExpiringSoon(c *fiber.Ctx) error {
	now := h.now()
	list, err := h.batches.ListExpiringSoon(c.Context(), c.Query("store_id"), now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"days":    h.batches.ExpiringDays(),
		"batches": toBatchResponses(list, now),
	})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos activos bajo su punto de reorden con la cantidad sugerida de pedido,
//
//	ordenados por déficit.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Tienda. Vacío = stock de la cadena."
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), c.Query("store_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// Export godoc
// @Summary      Exportar inventario a Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        store_id  query  string  false  "Tienda; vacío = cadena"
// @Success      200  {file}  binary
// @Router       /api/inventory/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	data, filename, err := h.export.ExportInventory(c.Context(), c.Query("store_id"), h.now())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
