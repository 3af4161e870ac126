package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	domstock "github.com/jhoicas/Almacen-api/internal/domain/stock"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// Options políticas configurables del motor.
type Options struct {
	// RejectDiscontinued rechaza mutaciones sobre productos DISCONTINUED con
	// ErrInvalidInput. Por defecto false: se permite mutar y el estado
	// DISCONTINUED se preserva.
	RejectDiscontinued bool
	// NotifyOnTransitionOnly dispara la alerta solo al entrar en LOW_STOCK.
	// Por defecto false: se re-notifica en cada mutación que deja el producto
	// en LOW_STOCK (comportamiento histórico de la aplicación).
	NotifyOnTransitionOnly bool
}

// AuditAppender subconjunto append-only del repositorio de auditoría que el
// motor usa fuera de la transacción (auditorías de fallo y de alerta, que
// deben sobrevivir al rollback de la mutación).
type AuditAppender interface {
	Create(record *entity.AuditRecord) error
}

// MutationEngine es el único dueño de la ruta de escritura de Quantity:
// ejecuta la lectura-modificación-escritura del stock junto con el registro
// en ledger y auditoría como una sola unidad atómica.
type MutationEngine struct {
	txRunner  TxRunner
	auditRepo AuditAppender
	notifier  Notifier
	opts      Options
	log       *logger.Logger
}

// NewMutationEngine construye el motor.
func NewMutationEngine(txRunner TxRunner, auditRepo AuditAppender, notifier Notifier, opts Options, log *logger.Logger) *MutationEngine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &MutationEngine{txRunner: txRunner, auditRepo: auditRepo, notifier: notifier, opts: opts, log: log}
}

// MutationContext metadatos que acompañan una mutación.
type MutationContext struct {
	TransactionType     string // purchase, sale, return, damage, adjustment, transfer
	SourceLocation      string // obligatorio en TRANSFER
	DestinationLocation string // obligatorio en TRANSFER
	Reference           string // documento relacionado
	Notes               string
}

// MutationInput entrada de Mutate.
type MutationInput struct {
	ProductID string
	Action    string // STOCK_IN, STOCK_OUT, ADJUSTMENT, TRANSFER
	Quantity  decimal.Decimal
	Actor     entity.Actor
	Context   MutationContext
}

// MutationResult único valor que devuelve el motor en caso de éxito.
type MutationResult struct {
	Product          *entity.Product
	LedgerEntry      *entity.LedgerEntry
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
}

// stockSnapshot vista del registro de stock serializada en OldData/NewData.
type stockSnapshot struct {
	Quantity        decimal.Decimal `json:"quantity"`
	Status          string          `json:"status"`
	MinStockLevel   decimal.Decimal `json:"min_stock_level"`
	LastRestockedAt *time.Time      `json:"last_restocked_at,omitempty"`
}

func snapshot(p *entity.Product) json.RawMessage {
	raw, _ := json.Marshal(stockSnapshot{
		Quantity:        p.Quantity,
		Status:          p.Status,
		MinStockLevel:   p.MinStockLevel,
		LastRestockedAt: p.LastRestockedAt,
	})
	return raw
}

// validateInput re-verifica defensivamente lo que la capa HTTP ya validó:
// acción conocida, cantidad positiva (ADJUSTMENT admite cero) y ubicaciones
// origen/destino presentes en TRANSFER.
func validateInput(input MutationInput) error {
	if input.ProductID == "" {
		return domain.ErrInvalidInput
	}
	switch input.Action {
	case entity.LedgerActionStockIn, entity.LedgerActionStockOut:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.LedgerActionAdjustment:
		if input.Quantity.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.LedgerActionTransfer:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if input.Context.SourceLocation == "" || input.Context.DestinationLocation == "" {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// Mutate aplica una mutación de stock: valida, bloquea la fila del producto
// (SELECT FOR UPDATE), calcula la nueva cantidad según la acción, deriva el
// estado y persiste stock + ledger + auditoría en una sola transacción.
// Tras el commit, si el producto quedó en LOW_STOCK se dispara la alerta
// fuera de la frontera atómica: su fallo nunca revierte la mutación.
func (e *MutationEngine) Mutate(ctx context.Context, input MutationInput) (*MutationResult, error) {
	if err := validateInput(input); err != nil {
		e.writeFailureAudit(input, err)
		return nil, err
	}

	var result *MutationResult
	var previousStatus string

	err := e.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		ledgerRepo repository.LedgerRepository,
		auditRepo repository.AuditRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if e.opts.RejectDiscontinued && product.Status == entity.StockStatusDiscontinued {
			return domain.ErrInvalidInput
		}

		previousStatus = product.Status
		previous := product.Quantity

		var next decimal.Decimal
		switch input.Action {
		case entity.LedgerActionStockIn:
			next = previous.Add(input.Quantity)
		case entity.LedgerActionStockOut, entity.LedgerActionTransfer:
			// TRANSFER mueve Quantity fuera de la ubicación origen: misma
			// aritmética y misma guarda de stock insuficiente que STOCK_OUT.
			if previous.LessThan(input.Quantity) {
				return domain.ErrInsufficientStock
			}
			next = previous.Sub(input.Quantity)
		case entity.LedgerActionAdjustment:
			// Ajuste absoluto: fija la cantidad, no aplica un delta.
			next = input.Quantity
		}

		oldData := snapshot(product)
		now := time.Now()

		product.Quantity = next
		product.Status = domstock.NextStatus(previousStatus, next, product.MinStockLevel)
		if input.Action == entity.LedgerActionStockIn && product.Status == entity.StockStatusInStock {
			restocked := now
			product.LastRestockedAt = &restocked
		}
		product.UpdatedAt = now

		if err := productRepo.UpdateStock(product); err != nil {
			return err
		}

		entry := &entity.LedgerEntry{
			ID:                  uuid.New().String(),
			ProductID:           product.ID,
			Action:              input.Action,
			QuantityDelta:       next.Sub(previous),
			PreviousQuantity:    previous,
			NewQuantity:         next,
			TransactionType:     transactionType(input),
			SourceLocation:      input.Context.SourceLocation,
			DestinationLocation: input.Context.DestinationLocation,
			Reference:           input.Context.Reference,
			Notes:               input.Context.Notes,
			PerformedByID:       input.Actor.ID,
			PerformedByName:     input.Actor.DisplayName,
			PerformedByRole:     input.Actor.RoleLabel,
			CreatedAt:           now,
		}
		if err := ledgerRepo.Create(entry); err != nil {
			return err
		}

		if err := auditRepo.Create(&entity.AuditRecord{
			ID:              uuid.New().String(),
			Action:          entity.AuditActionStockMutation,
			Entity:          "product",
			EntityID:        product.ID,
			Description:     fmt.Sprintf("%s de %s (%s -> %s)", input.Action, input.Quantity, previous, next),
			PerformedByID:   input.Actor.ID,
			PerformedByName: input.Actor.DisplayName,
			OldData:         oldData,
			NewData:         snapshot(product),
			Changes:         changedFields(previousStatus, product),
			Status:          entity.AuditStatusSuccess,
			CreatedAt:       now,
		}); err != nil {
			return err
		}

		result = &MutationResult{
			Product:          product,
			LedgerEntry:      entry,
			PreviousQuantity: previous,
			NewQuantity:      next,
		}
		return nil
	})
	if err != nil {
		e.writeFailureAudit(input, err)
		if !isDomainError(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailure, err)
		}
		return nil, err
	}

	if result.Product.Status == entity.StockStatusLowStock &&
		(!e.opts.NotifyOnTransitionOnly || previousStatus != entity.StockStatusLowStock) {
		e.notifyLowStock(ctx, result.Product, input.Actor)
	}
	return result, nil
}

// transactionType devuelve el tipo de transacción del contexto, con un
// default razonable por acción si el caller no lo indicó.
func transactionType(input MutationInput) string {
	if input.Context.TransactionType != "" {
		return input.Context.TransactionType
	}
	switch input.Action {
	case entity.LedgerActionStockIn:
		return entity.TransactionTypePurchase
	case entity.LedgerActionStockOut:
		return entity.TransactionTypeSale
	case entity.LedgerActionTransfer:
		return entity.TransactionTypeTransfer
	default:
		return entity.TransactionTypeAdjustment
	}
}

func changedFields(previousStatus string, p *entity.Product) []string {
	changes := []string{"quantity"}
	if p.Status != previousStatus {
		changes = append(changes, "status")
	}
	return changes
}

// writeFailureAudit registra el intento fallido fuera de la transacción.
// Un fallo al escribir esta auditoría solo se loguea: no debe enmascarar el
// error original de la mutación.
func (e *MutationEngine) writeFailureAudit(input MutationInput, cause error) {
	record := &entity.AuditRecord{
		ID:              uuid.New().String(),
		Action:          entity.AuditActionStockMutation,
		Entity:          "product",
		EntityID:        input.ProductID,
		Description:     fmt.Sprintf("%s de %s rechazado", input.Action, input.Quantity),
		PerformedByID:   input.Actor.ID,
		PerformedByName: input.Actor.DisplayName,
		Status:          entity.AuditStatusFailure,
		ErrorMessage:    cause.Error(),
		CreatedAt:       time.Now(),
	}
	if err := e.auditRepo.Create(record); err != nil && e.log != nil {
		e.log.Error().Err(err).Str("product_id", input.ProductID).Msg("auditoría de fallo no registrada")
	}
}

// notifyLowStock invoca al colaborador de notificaciones y audita el
// resultado. Cualquier error del canal se registra y se traga: nunca llega
// al caller de la mutación.
func (e *MutationEngine) notifyLowStock(ctx context.Context, product *entity.Product, actor entity.Actor) {
	record := &entity.AuditRecord{
		ID:              uuid.New().String(),
		Action:          entity.AuditActionAlert,
		Entity:          "product",
		EntityID:        product.ID,
		Description:     fmt.Sprintf("alerta de stock bajo: %s (%s <= %s)", product.SKU, product.Quantity, product.MinStockLevel),
		PerformedByID:   actor.ID,
		PerformedByName: actor.DisplayName,
		Status:          entity.AuditStatusSuccess,
		CreatedAt:       time.Now(),
	}
	if err := e.notifier.Send(ctx, product, product.MinStockLevel); err != nil {
		record.Status = entity.AuditStatusFailure
		record.ErrorMessage = err.Error()
		if e.log != nil {
			e.log.Warn().Err(err).Str("product_id", product.ID).Msg("notificación de stock bajo falló")
		}
	}
	if err := e.auditRepo.Create(record); err != nil && e.log != nil {
		e.log.Error().Err(err).Str("product_id", product.ID).Msg("auditoría de alerta no registrada")
	}
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrInsufficientStock,
		domain.ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
