package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/receiving"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// GRNHandler notas de recepción: received → verified → completed.
type GRNHandler struct {
	uc    *receiving.GRNUseCase
	cache invalidator
}

// NewGRNHandler construye el handler.
func NewGRNHandler(uc *receiving.GRNUseCase, cache invalidator) *GRNHandler {
	return &GRNHandler{uc: uc, cache: cache}
}

func grnItems(items []dto.GRNItemRequest) []receiving.ItemInput {
	out := make([]receiving.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, receiving.ItemInput{
			ProductID:        it.ProductID,
			ProductFlavorID:  it.ProductFlavorID,
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			UnitCost:         it.UnitCost,
			BatchNumber:      it.BatchNumber,
			ExpirationDate:   parseDate(it.ExpirationDate),
			Location:         it.Location,
			Notes:            it.Notes,
		})
	}
	return out
}

// Create godoc
// @Summary      Registrar GRN
// @Description  Queda en estado received; el stock entra al verificar.
// @Tags         grns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGRNRequest  true  "GRN"
// @Success      201   {object}  dto.GRNResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/grns [post]
func (h *GRNHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGRNRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	grn, err := h.uc.Create(c.Context(), GetUserID(c), receiving.CreateInput{
		StoreID:             in.StoreID,
		SupplierID:          in.SupplierID,
		PurchaseOrderNumber: in.PurchaseOrderNumber,
		InvoiceNumber:       in.InvoiceNumber,
		ReceivedDate:        parseDate(in.ReceivedDate),
		Notes:               in.Notes,
		Items:               grnItems(in.Items),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toGRNResponse(grn))
}

// Get godoc
// @Summary      Obtener GRN con sus líneas
// @Tags         grns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.GRNResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/grns/{id} [get]
func (h *GRNHandler) Get(c *fiber.Ctx) error {
	grn, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toGRNResponse(grn))
}

func grnFilter(c *fiber.Ctx) (repository.GRNFilter, bool) {
	from, to, ok := queryRange(c)
	if !ok {
		return repository.GRNFilter{}, false
	}
	status := entity.GRNStatus(c.Query("status"))
	switch status {
	case "", entity.GRNStatusReceived, entity.GRNStatusVerified, entity.GRNStatusCompleted:
	default:
		return repository.GRNFilter{}, false
	}
	p := page(c)
	return repository.GRNFilter{
		StoreID:    c.Query("store_id"),
		SupplierID: c.Query("supplier_id"),
		Status:     status,
		From:       from,
		To:         to,
		Limit:      p.Limit,
		Offset:     p.Offset,
	}, true
}

// List godoc
// @Summary      Listar GRN
// @Tags         grns
// @Security     Bearer
// @Produce      json
// @Param        store_id     query  string  false  "Tienda"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        status       query  string  false  "received, verified, completed"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.GRNListResponse
// @Router       /api/grns [get]
func (h *GRNHandler) List(c *fiber.Ctx) error {
	f, ok := grnFilter(c)
	if !ok {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	list, err := h.uc.List(c.Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.GRNResponse, 0, len(list))
	for _, g := range list {
		items = append(items, toGRNResponse(g))
	}
	return c.JSON(dto.GRNListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}})
}

// Update godoc
// @Summary      Editar GRN en estado received
// @Description  Si llegan items, reemplazan todas las líneas.
// @Tags         grns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.UpdateGRNRequest  true  "Cambios"
// @Success      200   {object}  dto.GRNResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/grns/{id} [put]
func (h *GRNHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateGRNRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	upd := receiving.UpdateInput{
		PurchaseOrderNumber: in.PurchaseOrderNumber,
		InvoiceNumber:       in.InvoiceNumber,
		ReceivedDate:        parseDatePtr(in.ReceivedDate),
		Notes:               in.Notes,
	}
	if in.Items != nil {
		items := grnItems(*in.Items)
		upd.Items = &items
	}
	grn, err := h.uc.Update(c.Context(), c.Params("id"), upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toGRNResponse(grn))
}

// Delete godoc
// @Summary      Eliminar GRN
// @Description  Solo en estado received.
// @Tags         grns
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/grns/{id} [delete]
func (h *GRNHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Verify godoc
// @Summary      Verificar GRN
// @Description  Crea un lote por línea con su asiento restock.
// @Tags         grns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.GRNResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/grns/{id}/verify [post]
func (h *GRNHandler) Verify(c *fiber.Ctx) error {
	grn, err := h.uc.Verify(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context())
	return c.JSON(toGRNResponse(grn))
}

// Complete godoc
// @Summary      Cerrar GRN verificado
// @Tags         grns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.GRNResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/grns/{id}/complete [post]
func (h *GRNHandler) Complete(c *fiber.Ctx) error {
	grn, err := h.uc.Complete(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toGRNResponse(grn))
}
