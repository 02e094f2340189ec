package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// SaleHandler ventas, anulaciones y comprobante PDF.
type SaleHandler struct {
	uc       *sales.SaleUseCase
	receipts *sales.ReceiptUseCase
	cache    invalidator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, receipts *sales.ReceiptUseCase, cache invalidator) *SaleHandler {
	return &SaleHandler{uc: uc, receipts: receipts, cache: cache}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Cada línea descuenta stock: del lote indicado o FIFO. Todo o nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	items := make([]sales.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sales.ItemInput{
			ProductID:       it.ProductID,
			ProductFlavorID: it.ProductFlavorID,
			BatchID:         it.BatchID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			Discount:        it.Discount,
		})
	}
	sale, err := h.uc.Create(c.Context(), GetUserID(c), sales.CreateInput{
		StoreID:        in.StoreID,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		CustomerEmail:  in.CustomerEmail,
		TaxAmount:      in.TaxAmount,
		DiscountAmount: in.DiscountAmount,
		PaymentMethod:  in.PaymentMethod,
		PaymentStatus:  entity.PaymentStatus(in.PaymentStatus),
		Notes:          in.Notes,
		Items:          items,
	})
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context())
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// Get godoc
// @Summary      Obtener venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	sale, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

func saleFilter(c *fiber.Ctx) (repository.SaleFilter, bool) {
	from, to, ok := queryRange(c)
	if !ok {
		return repository.SaleFilter{}, false
	}
	status := entity.PaymentStatus(c.Query("payment_status"))
	if status != "" && !status.Valid() {
		return repository.SaleFilter{}, false
	}
	p := page(c)
	return repository.SaleFilter{
		StoreID:       c.Query("store_id"),
		PaymentStatus: status,
		From:          from,
		To:            to,
		Limit:         p.Limit,
		Offset:        p.Offset,
	}, true
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        store_id        query  string  false  "Tienda"
// @Param        payment_status  query  string  false  "paid, pending, partial, voided"
// @Param        from            query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to              query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	f, ok := saleFilter(c)
	if !ok {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	list, err := h.uc.List(c.Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSaleResponse(s))
	}
	return c.JSON(dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}})
}

// Update godoc
// @Summary      Editar datos de cliente, estado de pago o notas
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.UpdateSaleRequest  true  "Cambios"
// @Success      200   {object}  dto.SaleResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	upd := sales.UpdateInput{
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Notes:         in.Notes,
	}
	if in.PaymentStatus != nil {
		st := entity.PaymentStatus(*in.PaymentStatus)
		upd.PaymentStatus = &st
	}
	sale, err := h.uc.Update(c.Context(), c.Params("id"), upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// Void godoc
// @Summary      Anular venta
// @Description  Devuelve cada línea al lote del que salió.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SaleResponse
// @Failure      409  {object}  dto.ErrorResponse  "Ya anulada"
// @Router       /api/sales/{id}/void [post]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	sale, err := h.uc.Void(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context())
	return c.JSON(toSaleResponse(sale))
}

// Receipt godoc
// @Summary      Comprobante PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	data, filename, err := h.receipts.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}
