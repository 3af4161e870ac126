package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// StockHandler expone el motor de mutaciones y la consulta de ledger/auditoría (protegido).
type StockHandler struct {
	engine     *stock.MutationEngine
	batch      *stock.BatchOrchestrator
	ledgerRepo repository.LedgerRepository
	auditRepo  repository.AuditRepository
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *stock.MutationEngine, batch *stock.BatchOrchestrator, ledgerRepo repository.LedgerRepository, auditRepo repository.AuditRepository) *StockHandler {
	return &StockHandler{engine: engine, batch: batch, ledgerRepo: ledgerRepo, auditRepo: auditRepo}
}

// mutationError mapea los errores del motor a respuestas HTTP:
// "stock insuficiente", "producto desconocido" y "petición inválida" llegan
// al cliente como errores distintos y accionables.
func mutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "acción o cantidad inválida"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "TRANSACTION_FAILURE", Message: err.Error()})
	}
}

func toMutationResponse(res *stock.MutationResult) dto.MutationResponse {
	return dto.MutationResponse{
		Product:          dto.ToProductResponse(res.Product),
		LedgerEntry:      dto.ToLedgerEntryResponse(res.LedgerEntry),
		PreviousQuantity: res.PreviousQuantity,
		NewQuantity:      res.NewQuantity,
	}
}

func mutationContext(in dto.MutationRequest) stock.MutationContext {
	return stock.MutationContext{
		TransactionType:     in.TransactionType,
		SourceLocation:      in.SourceLocation,
		DestinationLocation: in.DestinationLocation,
		Reference:           in.Reference,
		Notes:               in.Notes,
	}
}

// Mutate godoc
// @Summary   Mutar stock de un producto
// @Tags      stock
// @Security  Bearer
// @Accept    json
// @Produce   json
// @Param     body  body  dto.MutationRequest  true  "product_id, action (STOCK_IN|STOCK_OUT|ADJUSTMENT|TRANSFER), quantity, contexto"
// @Success   201   {object}  dto.MutationResponse
// @Failure   400   {object}  dto.ErrorResponse
// @Failure   404   {object}  dto.ErrorResponse
// @Failure   409   {object}  dto.ErrorResponse
// @Router    /api/stock/mutations [post]
func (h *StockHandler) Mutate(c *fiber.Ctx) error {
	var in dto.MutationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.engine.Mutate(c.Context(), stock.MutationInput{
		ProductID: in.ProductID,
		Action:    in.Action,
		Quantity:  in.Quantity,
		Actor:     GetActor(c),
		Context:   mutationContext(in),
	})
	if err != nil {
		return mutationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMutationResponse(res))
}

// BatchMutate godoc
// @Summary      Mutar stock en lote
// @Description  Procesa los ítems en orden, con aislamiento por ítem: un fallo
//               no revierte los ya confirmados ni bloquea los siguientes.
// @Tags      stock
// @Security  Bearer
// @Accept    json
// @Produce   json
// @Param     body  body  dto.BatchMutationRequest  true  "items"
// @Success   200   {array}   dto.BatchItemResponse
// @Failure   400   {object}  dto.ErrorResponse
// @Router    /api/stock/mutations/batch [post]
func (h *StockHandler) BatchMutate(c *fiber.Ctx) error {
	var in dto.BatchMutationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]stock.BatchItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, stock.BatchItem{
			ProductID: item.ProductID,
			Action:    item.Action,
			Quantity:  item.Quantity,
			Context:   mutationContext(item),
		})
	}
	results, err := h.batch.BatchMutate(c.Context(), items, GetActor(c))
	if err != nil {
		// Solo errores estructurales del lote llegan aquí (lote vacío).
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lote vacío"})
	}
	out := make([]dto.BatchItemResponse, 0, len(results))
	for _, r := range results {
		item := dto.BatchItemResponse{
			ProductID:    r.ProductID,
			Success:      r.Success,
			ErrorMessage: r.ErrorMessage,
		}
		if r.Result != nil {
			resp := toMutationResponse(r.Result)
			item.Result = &resp
		}
		out = append(out, item)
	}
	return c.JSON(fiber.Map{"total": len(out), "results": out})
}

// ListLedger godoc
// @Summary   Historial de stock de un producto
// @Tags      stock
// @Security  Bearer
// @Produce   json
// @Param     productID  path   string  true   "ID del producto"
// @Param     from       query  string  false  "RFC3339"
// @Param     to         query  string  false  "RFC3339"
// @Success   200  {array}  dto.LedgerEntryResponse
// @Router    /api/stock/{productID}/ledger [get]
func (h *StockHandler) ListLedger(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC3339"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC3339"})
		}
		to = &t
	}

	entries, err := h.ledgerRepo.ListByProduct(c.Params("productID"), from, to, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToLedgerEntryResponse(e))
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

// ListAudit godoc
// @Summary   Registros de auditoría
// @Tags      audit
// @Security  Bearer
// @Produce   json
// @Param     entity     query  string  false  "filtrar por entidad (ej. product)"
// @Param     entity_id  query  string  false  "filtrar por ID de entidad"
// @Success   200  {array}  dto.AuditRecordResponse
// @Router    /api/audit [get]
func (h *StockHandler) ListAudit(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	entityName := c.Query("entity")
	entityID := c.Query("entity_id")

	var (
		records []*entity.AuditRecord
		err     error
	)
	if entityName != "" && entityID != "" {
		records, err = h.auditRepo.ListByEntity(entityName, entityID, page.Limit, page.Offset)
	} else {
		records, err = h.auditRepo.List(page.Limit, page.Offset)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.AuditRecordResponse, 0, len(records))
	for _, a := range records {
		out = append(out, dto.ToAuditRecordResponse(a))
	}
	return c.JSON(fiber.Map{"total": len(out), "records": out})
}
