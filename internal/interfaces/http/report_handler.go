package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suplementos-api/internal/application/reports"
)

// ReportHandler resúmenes de inventario, ventas y recepciones.
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// InventorySummary godoc
// @Summary      Resumen de inventario
// @Description  Unidades, valor al costo y a precio de venta, vencidos, por vencer y bajo punto de reorden.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Tienda; vacío = cadena"
// @Success      200  {object}  dto.InventorySummaryDTO
// @Router       /api/reports/inventory-summary [get]
func (h *ReportHandler) InventorySummary(c *fiber.Ctx) error {
	s, err := h.uc.InventorySummary(c.Context(), c.Query("store_id"), time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// SalesSummary godoc
// @Summary      Resumen de ventas
// @Description  Excluye ventas anuladas.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Tienda"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.SaleSummaryResponse
// @Router       /api/reports/sales-summary [get]
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	f, ok := saleFilter(c)
	if !ok {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	f.Limit, f.Offset = 0, 0
	s, err := h.uc.SalesSummary(c.Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// GRNSummary godoc
// @Summary      Resumen de recepciones
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        store_id     query  string  false  "Tienda"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.GRNSummaryResponse
// @Router       /api/reports/grn-summary [get]
func (h *ReportHandler) GRNSummary(c *fiber.Ctx) error {
	f, ok := grnFilter(c)
	if !ok {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	f.Limit, f.Offset = 0, 0
	s, err := h.uc.GRNSummary(c.Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}
