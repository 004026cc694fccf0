package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// MovementHandler consulta del historial de movimientos (solo lectura).
type MovementHandler struct {
	responder
	query *inventory.QueryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(query *inventory.QueryUseCase, log *logger.Logger) *MovementHandler {
	return &MovementHandler{responder: responder{log: log}, query: query}
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Del más reciente al más antiguo. Todos los filtros son opcionales.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Producto"
// @Param        store_id        query  string  false  "Tienda"
// @Param        movement_type   query  string  false  "entry|sale|transfer_out|transfer_in|adjustment_in|adjustment_out"
// @Param        reference_type  query  string  false  "entry|sale|distribution|adjustment"
// @Param        reference_id    query  string  false  "ID del documento"
// @Param        limit           query  int     false  "Máximo 100 (default 10)"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	filter, q, err := h.parseFilter(c)
	if err != nil {
		return h.fail(c, err)
	}
	q.DefaultPage()
	filter.Limit, filter.Offset = q.Limit, q.Offset
	list, err := h.query.QueryMovements(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewListResponse(list, q.Limit, q.Offset))
}

// ListAll godoc
// @Summary      Historial completo de movimientos
// @Description  Igual que /api/movements pero sin paginación.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Producto"
// @Param        store_id        query  string  false  "Tienda"
// @Param        movement_type   query  string  false  "Tipo de movimiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/movements/all [get]
func (h *MovementHandler) ListAll(c *fiber.Ctx) error {
	filter, _, err := h.parseFilter(c)
	if err != nil {
		return h.fail(c, err)
	}
	list, err := h.query.QueryMovements(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewListResponse(list, 0, 0))
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del movimiento"
// @Success      200  {object}  entity.StockMovement
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.query.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(m)
}

// ByReference godoc
// @Summary      Movimientos de un documento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "entry|sale|distribution|adjustment"
// @Param        id    path  string  true  "ID del documento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/by-reference/{type}/{id} [get]
func (h *MovementHandler) ByReference(c *fiber.Ctx) error {
	ref := entity.Reference{Type: entity.ReferenceType(c.Params("type")), ID: c.Params("id")}
	list, err := h.query.MovementsByReference(c.UserContext(), ref)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewListResponse(list, 0, 0))
}

func (h *MovementHandler) parseFilter(c *fiber.Ctx) (repository.MovementFilter, dto.MovementQuery, error) {
	var q dto.MovementQuery
	if err := bindQuery(c, &q); err != nil {
		return repository.MovementFilter{}, q, err
	}
	filter := repository.MovementFilter{
		ProductID:     q.ProductID,
		StoreID:       q.StoreID,
		ReferenceType: entity.ReferenceType(q.ReferenceType),
		ReferenceID:   q.ReferenceID,
	}
	if q.MovementType != "" {
		t, err := entity.ParseMovementType(q.MovementType)
		if err != nil {
			return repository.MovementFilter{}, q, err
		}
		filter.Type = t
	}
	return filter, q, nil
}
