package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP del catálogo: productos, sabores y variantes.
type ProductHandler struct {
	uc      *usecase.ProductUseCase
	flavors *usecase.FlavorUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, flavors *usecase.FlavorUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, flavors: flavors}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "SKU o nombre"
// @Param        active_only  query  bool    false  "Solo activos"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.List(c.Context(), c.Query("search"), c.QueryBool("active_only", false), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  El SKU solo puede cambiar mientras el producto no tenga lotes.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Si tiene lotes o documentos se desactiva en lugar de borrarse.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.DeleteResult
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Sabores ─────────────────────────────────────────────────────────────────

// CreateFlavor godoc
// @Summary      Crear sabor
// @Tags         flavors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FlavorRequest  true  "Sabor"
// @Success      201   {object}  dto.FlavorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/flavors [post]
func (h *ProductHandler) CreateFlavor(c *fiber.Ctx) error {
	var in dto.FlavorRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.flavors.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListFlavors godoc
// @Summary      Listar sabores
// @Tags         flavors
// @Security     Bearer
// @Produce      json
// @Param        active_only  query  bool  false  "Solo activos"
// @Success      200  {array}  dto.FlavorResponse
// @Router       /api/flavors [get]
func (h *ProductHandler) ListFlavors(c *fiber.Ctx) error {
	out, err := h.flavors.List(c.Context(), c.QueryBool("active_only", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateFlavor godoc
// @Summary      Actualizar sabor
// @Tags         flavors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del sabor"
// @Param        body  body  dto.UpdateFlavorRequest  true  "Cambios"
// @Success      200   {object}  dto.FlavorResponse
// @Router       /api/flavors/{id} [put]
func (h *ProductHandler) UpdateFlavor(c *fiber.Ctx) error {
	var in dto.UpdateFlavorRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.flavors.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteFlavor godoc
// @Summary      Eliminar sabor
// @Tags         flavors
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del sabor"
// @Success      200  {object}  dto.DeleteResult
// @Router       /api/flavors/{id} [delete]
func (h *ProductHandler) DeleteFlavor(c *fiber.Ctx) error {
	out, err := h.flavors.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddFlavor godoc
// @Summary      Vincular sabor a producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ProductFlavorRequest  true  "Sabor y sufijo de SKU"
// @Success      201   {object}  dto.ProductFlavorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/flavors [post]
func (h *ProductHandler) AddFlavor(c *fiber.Ctx) error {
	var in dto.ProductFlavorRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.flavors.AddToProduct(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListProductFlavors godoc
// @Summary      Variantes de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id           path   string  true   "ID del producto"
// @Param        active_only  query  bool    false  "Solo activas"
// @Success      200  {array}  dto.ProductFlavorResponse
// @Router       /api/products/{id}/flavors [get]
func (h *ProductHandler) ListProductFlavors(c *fiber.Ctx) error {
	out, err := h.flavors.ListForProduct(c.Context(), c.Params("id"), c.QueryBool("active_only", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveFlavor godoc
// @Summary      Quitar variante producto+sabor
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id                 path  string  true  "ID del producto"
// @Param        product_flavor_id  path  string  true  "ID de la variante"
// @Success      200  {object}  dto.DeleteResult
// @Router       /api/products/{id}/flavors/{product_flavor_id} [delete]
func (h *ProductHandler) RemoveFlavor(c *fiber.Ctx) error {
	out, err := h.flavors.RemoveFromProduct(c.Context(), c.Params("product_flavor_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
