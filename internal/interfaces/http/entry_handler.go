package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// EntryHandler entradas de mercancía (protegido).
type EntryHandler struct {
	responder
	stock *inventory.StockUseCase
	query *inventory.QueryUseCase
}

// NewEntryHandler construye el handler.
func NewEntryHandler(stock *inventory.StockUseCase, query *inventory.QueryUseCase, log *logger.Logger) *EntryHandler {
	return &EntryHandler{responder: responder{log: log}, stock: stock, query: query}
}

// Create godoc
// @Summary      Registrar entrada de mercancía
// @Description  Crea la entrada con sus líneas y suma el stock de cada producto en la tienda.
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateEntryRequest  true  "store_id, supplier_id, items"
// @Success      201   {object}  entity.Entry
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entries [post]
func (h *EntryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEntryRequest
	if err := bindBody(c, &req); err != nil {
		return h.fail(c, err)
	}
	in := inventory.ReceiveInput{
		StoreID:       req.StoreID,
		SupplierID:    req.SupplierID,
		InvoiceNumber: req.InvoiceNumber,
		Status:        req.Status,
		EntryDate:     req.EntryDate,
		UserID:        GetUserID(c),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, inventory.ReceiveItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	entry, err := h.stock.ReceiveStock(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// List godoc
// @Summary      Listar entradas
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        store_id    query  string  false  "Tienda"
// @Param        partner_id  query  string  false  "Proveedor"
// @Param        status      query  string  false  "pending|completed|cancelled"
// @Param        limit       query  int     false  "Máximo 100 (default 10)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/entries [get]
func (h *EntryHandler) List(c *fiber.Ctx) error {
	var q dto.DocumentQuery
	if err := bindQuery(c, &q); err != nil {
		return h.fail(c, err)
	}
	q.DefaultPage()
	list, err := h.query.ListEntries(c.UserContext(), documentFilter(q))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.NewListResponse(list, q.Limit, q.Offset))
}

// GetByID godoc
// @Summary      Obtener entrada
// @Tags         entries
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la entrada"
// @Success      200  {object}  entity.Entry
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entries/{id} [get]
func (h *EntryHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.query.GetEntry(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(entry)
}

func documentFilter(q dto.DocumentQuery) repository.DocumentFilter {
	return repository.DocumentFilter{
		StoreID:   q.StoreID,
		ToStoreID: q.ToStoreID,
		PartnerID: q.PartnerID,
		Status:    q.Status,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
}
