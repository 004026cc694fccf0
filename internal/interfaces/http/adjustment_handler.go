package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// AdjustmentHandler ajustes manuales de inventario (solo admin).
type AdjustmentHandler struct {
	responder
	stock *inventory.StockUseCase
	query *inventory.QueryUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(stock *inventory.StockUseCase, query *inventory.QueryUseCase, log *logger.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{responder: responder{log: log}, stock: stock, query: query}
}

// Create godoc
// @Summary      Registrar ajuste de inventario
// @Description  quantity positiva genera adjustment_in, negativa adjustment_out. Un ajuste que deje saldo negativo se rechaza completo.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateAdjustmentRequest  true  "store_id, reason, items"
// @Success      201   {object}  entity.Adjustment
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAdjustmentRequest
	if err := bindBody(c, &req); err != nil {
		return h.fail(c, err)
	}
	in := inventory.AdjustInput{StoreID: req.StoreID, Reason: req.Reason, UserID: GetUserID(c)}
	for _, it := range req.Items {
		in.Items = append(in.Items, inventory.AdjustItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	adj, err := h.stock.AdjustStock(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(adj)
}

// GetByID godoc
// @Summary      Obtener ajuste
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del ajuste"
// @Success      200  {object}  entity.Adjustment
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	adj, err := h.query.GetAdjustment(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(adj)
}
