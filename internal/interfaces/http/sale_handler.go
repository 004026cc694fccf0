package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// SaleHandler ventas (protegido).
type SaleHandler struct {
	responder
	stock *inventory.StockUseCase
	query *inventory.QueryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(stock *inventory.StockUseCase, query *inventory.QueryUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{responder: responder{log: log}, stock: stock, query: query}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Verifica disponibilidad en la tienda, crea la venta y descuenta el stock. Si falta stock no se persiste nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSaleRequest  true  "store_id, client_id, items"
// @Success      201   {object}  entity.Sale
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK o CONCURRENCY_CONFLICT"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSaleRequest
	if err := bindBody(c, &req); err != nil {
		return h.fail(c, err)
	}
	in := inventory.SellInput{
		StoreID:      req.StoreID,
		ClientID:     req.ClientID,
		DeliveryType: req.DeliveryType,
		TrackingCode: req.TrackingCode,
		Status:       req.Status,
		SaleDate:     req.SaleDate,
		UserID:       GetUserID(c),

		PredictedDelivery: req.PredictedDelivery,
		DeliveredAt:       req.DeliveredAt,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, inventory.SellItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	sale, err := h.stock.SellStock(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        store_id    query  string  false  "Tienda"
// @Param        partner_id  query  string  false  "Cliente"
// @Param        status      query  string  false  "pending|completed|cancelled"
// @Param        limit       query  int     false  "Máximo 100 (default 10)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.DocumentQuery
	if err := bindQuery(c, &q); err != nil {
		return h.fail(c, err)
	}
	q.DefaultPage()
	list, err := h.query.ListSales(c.UserContext(), documentFilter(q))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewListResponse(list, q.Limit, q.Offset))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  entity.Sale
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.query.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sale)
}
