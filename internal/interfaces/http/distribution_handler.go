package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// DistributionHandler distribuciones internas entre tiendas (protegido).
type DistributionHandler struct {
	responder
	stock *inventory.StockUseCase
	query *inventory.QueryUseCase
}

// NewDistributionHandler construye el handler.
func NewDistributionHandler(stock *inventory.StockUseCase, query *inventory.QueryUseCase, log *logger.Logger) *DistributionHandler {
	return &DistributionHandler{responder: responder{log: log}, stock: stock, query: query}
}

// Create godoc
// @Summary      Registrar distribución interna
// @Description  Traslada mercancía de from_store_id a to_store_id (transfer_out + transfer_in por línea).
// @Tags         internal-distributions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateDistributionRequest  true  "from_store_id, to_store_id, items"
// @Success      201   {object}  entity.Distribution
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/internal-distributions [post]
func (h *DistributionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDistributionRequest
	if err := bindBody(c, &req); err != nil {
		return h.fail(c, err)
	}
	in := inventory.TransferInput{
		FromStoreID:      req.FromStoreID,
		ToStoreID:        req.ToStoreID,
		Status:           req.Status,
		DistributionDate: req.DistributionDate,
		UserID:           GetUserID(c),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, inventory.TransferItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	dist, err := h.stock.TransferStock(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dist)
}

// List godoc
// @Summary      Listar distribuciones internas
// @Tags         internal-distributions
// @Security     Bearer
// @Produce      json
// @Param        store_id     query  string  false  "Tienda origen"
// @Param        to_store_id  query  string  false  "Tienda destino"
// @Param        status       query  string  false  "pending|completed|cancelled"
// @Param        limit        query  int     false  "Máximo 100 (default 10)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/internal-distributions [get]
func (h *DistributionHandler) List(c *fiber.Ctx) error {
	var q dto.DocumentQuery
	if err := bindQuery(c, &q); err != nil {
		return h.fail(c, err)
	}
	q.DefaultPage()
	list, err := h.query.ListDistributions(c.UserContext(), documentFilter(q))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewListResponse(list, q.Limit, q.Offset))
}

// GetByID godoc
// @Summary      Obtener distribución interna
// @Tags         internal-distributions
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la distribución"
// @Success      200  {object}  entity.Distribution
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/internal-distributions/{id} [get]
func (h *DistributionHandler) GetByID(c *fiber.Ctx) error {
	dist, err := h.query.GetDistribution(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dist)
}
