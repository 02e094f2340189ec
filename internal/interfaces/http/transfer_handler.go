package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/transfers"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// TransferHandler traslados entre tiendas.
type TransferHandler struct {
	uc    *transfers.TransferUseCase
	cache invalidator
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfers.TransferUseCase, cache invalidator) *TransferHandler {
	return &TransferHandler{uc: uc, cache: cache}
}

// Create godoc
// @Summary      Solicitar traslado
// @Description  Queda pendiente; la disponibilidad en origen se valida ahora pero el stock se mueve al aprobar.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Traslado"
// @Success      201   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	items := make([]transfers.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, transfers.ItemInput{
			ProductID:       it.ProductID,
			ProductFlavorID: it.ProductFlavorID,
			BatchID:         it.BatchID,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			Notes:           it.Notes,
		})
	}
	t, err := h.uc.Create(c.Context(), GetUserID(c), transfers.CreateInput{
		FromStoreID: in.FromStoreID,
		ToStoreID:   in.ToStoreID,
		Notes:       in.Notes,
		Items:       items,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(t))
}

// Get godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.TransferResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	t, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// List godoc
// @Summary      Listar traslados
// @Description  store_id coincide con origen o destino.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Tienda"
// @Param        status    query  string  false  "pending, in_transit, completed, cancelled"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	from, to, ok := queryRange(c)
	if !ok {
		return badRequest(c, "VALIDATION", "from/to deben tener formato YYYY-MM-DD")
	}
	status := entity.TransferStatus(c.Query("status"))
	switch status {
	case "", entity.TransferStatusPending, entity.TransferStatusInTransit,
		entity.TransferStatusCompleted, entity.TransferStatusCancelled:
	default:
		return badRequest(c, "VALIDATION", "status inválido")
	}
	p := page(c)
	list, err := h.uc.List(c.Context(), repository.TransferFilter{
		StoreID: c.Query("store_id"),
		Status:  status,
		From:    from,
		To:      to,
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransferResponse(t))
	}
	return c.JSON(dto.TransferListResponse{Items: items, Page: p})
}

// Update godoc
// @Summary      Editar notas del traslado
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.UpdateTransferRequest  true  "Notas"
// @Success      200   {object}  dto.TransferResponse
// @Router       /api/transfers/{id} [put]
func (h *TransferHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTransferRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if in.Notes == nil {
		return badRequest(c, "VALIDATION", "notes es obligatorio")
	}
	t, err := h.uc.UpdateNotes(c.Context(), c.Params("id"), *in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// Approve godoc
// @Summary      Aprobar traslado
// @Description  Descuenta del origen y crea lotes en destino conservando costo y vencimiento.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	t, err := h.uc.Approve(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidate(c.Context())
	return c.JSON(toTransferResponse(t))
}

// Cancel godoc
// @Summary      Cancelar traslado pendiente
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	t, err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(t))
}
