package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP de productos, cantidades e historial (protegido).
type ProductHandler struct {
	ledger  *inventory.Ledger
	history inventory.HistoryView
	report  *inventory.HistoryReportUseCase
	log     *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(ledger *inventory.Ledger, history inventory.HistoryView, report *inventory.HistoryReportUseCase, log *logger.Logger) *ProductHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductHandler{ledger: ledger, history: history, report: report, log: log}
}

// Create godoc
// @Summary      Crear producto con su cantidad inicial
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
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	p, err := h.ledger.Create(c.UserContext(), in.Fields(), in.Quantity, GetUsername(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(p))
}

// GetByID godoc
// @Summary      Obtener producto activo por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	p, err := h.ledger.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Replace godoc
// @Summary      Reemplazar campos y cantidad de un producto
// @Description  La cantidad se escribe sin validar el stock mínimo; el movimiento registra la magnitud del cambio.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.ReplaceProductRequest  true  "Producto completo"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Replace(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	var in dto.ReplaceProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	p, err := h.ledger.ReplaceFields(c.UserContext(), id, in.Fields(), in.Quantity, GetUsername(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Deactivate godoc
// @Summary      Desactivar producto (borrado lógico)
// @Tags         products
// @Security     Bearer
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	if _, err := h.ledger.Deactivate(c.UserContext(), id, GetUsername(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApplyDelta godoc
// @Summary      Reponer o consumir stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id     path   int  true  "ID del producto"
// @Param        delta  query  int  true  "Cambio con signo"
// @Success      200    {object}  dto.ProductResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/products/{id}/quantity [put]
func (h *ProductHandler) ApplyDelta(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	raw := c.Query("delta")
	if raw == "" {
		return badRequest(c, "VALIDATION", "delta es requerido")
	}
	delta, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return badRequest(c, "VALIDATION", "delta debe ser un entero")
	}
	p, err := h.ledger.ApplyDelta(c.UserContext(), id, delta, GetUsername(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// History godoc
// @Summary      Historial de cantidad (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id    path   int  true   "ID del producto"
// @Param        page  query  int  false  "Página (desde 0)"  default(0)
// @Param        size  query  int  false  "Tamaño de página"  default(10)
// @Success      200   {object}  dto.Page[dto.QuantityHistoryResponse]
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/history [get]
func (h *ProductHandler) History(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return badRequest(c, "INVALID_PAGE", err.Error())
	}
	size, err := queryInt(c, "size", dto.DefaultPageSize)
	if err != nil {
		return badRequest(c, "INVALID_PAGE", err.Error())
	}
	out, err := h.history.Page(c.UserContext(), id, page, size)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// HistoryReport godoc
// @Summary      Kardex del producto en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/history/report [get]
func (h *ProductHandler) HistoryReport(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, "INVALID_ID", err.Error())
	}
	pdf, err := h.report.Generate(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="kardex-%d.pdf"`, id))
	return c.Send(pdf)
}

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id debe ser un entero positivo")
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s debe ser un entero", key)
	}
	return n, nil
}
