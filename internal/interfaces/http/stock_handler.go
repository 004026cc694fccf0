package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// StockHandler saldos por tienda y producto.
type StockHandler struct {
	responder
	query *inventory.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(query *inventory.QueryUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{responder: responder{log: log}, query: query}
}

// List godoc
// @Summary      Listar saldos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        store_id    query  string  false  "Tienda"
// @Param        product_id  query  string  false  "Producto"
// @Param        limit       query  int     false  "Máximo 100 (default 10)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var q dto.BalanceQuery
	if err := bindQuery(c, &q); err != nil {
		return h.fail(c, err)
	}
	q.DefaultPage()
	list, err := h.query.ListBalances(c.UserContext(), repository.BalanceFilter{
		StoreID:   q.StoreID,
		ProductID: q.ProductID,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewListResponse(list, q.Limit, q.Offset))
}

// Get godoc
// @Summary      Saldo de un producto en una tienda
// @Description  Devuelve cantidad 0 si el producto nunca tuvo movimientos en la tienda.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        store_id    path  string  true  "Tienda"
// @Param        product_id  path  string  true  "Producto"
// @Success      200  {object}  entity.StockBalance
// @Router       /api/stock/stores/{store_id}/products/{product_id} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	b, err := h.query.GetBalance(c.UserContext(), entity.StockKey{StoreID: c.Params("store_id"), ProductID: c.Params("product_id")})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(b)
}

// Verify godoc
// @Summary      Verificar el ledger
// @Description  Reproduce el historial de cada saldo y devuelve las claves con diferencias.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/stock/verify [get]
func (h *StockHandler) Verify(c *fiber.Ctx) error {
	drifts, err := h.query.VerifyLedger(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	if len(drifts) > 0 {
		h.log.Warn().Int("drifts", len(drifts)).Msg("el ledger no coincide con los saldos")
	}
	return c.JSON(fiber.Map{
		"healthy": len(drifts) == 0,
		"drifts":  drifts,
	})
}
