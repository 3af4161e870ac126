package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MutationRequest body para POST /api/stock/mutations.
type MutationRequest struct {
	ProductID           string          `json:"product_id"`
	Action              string          `json:"action"` // STOCK_IN, STOCK_OUT, ADJUSTMENT, TRANSFER
	Quantity            decimal.Decimal `json:"quantity"`
	TransactionType     string          `json:"transaction_type,omitempty"`
	SourceLocation      string          `json:"source_location,omitempty"`
	DestinationLocation string          `json:"destination_location,omitempty"`
	Reference           string          `json:"reference,omitempty"`
	Notes               string          `json:"notes,omitempty"`
}

// BatchMutationRequest body para POST /api/stock/mutations/batch.
type BatchMutationRequest struct {
	Items []MutationRequest `json:"items"`
}

// LedgerEntryResponse entrada del ledger en respuestas HTTP.
type LedgerEntryResponse struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	Action              string          `json:"action"`
	QuantityDelta       decimal.Decimal `json:"quantity_delta"`
	PreviousQuantity    decimal.Decimal `json:"previous_quantity"`
	NewQuantity         decimal.Decimal `json:"new_quantity"`
	TransactionType     string          `json:"transaction_type"`
	SourceLocation      string          `json:"source_location,omitempty"`
	DestinationLocation string          `json:"destination_location,omitempty"`
	Reference           string          `json:"reference,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	PerformedByID       string          `json:"performed_by_id"`
	PerformedByName     string          `json:"performed_by_name"`
	PerformedByRole     string          `json:"performed_by_role"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ToLedgerEntryResponse mapea la entidad al DTO de salida.
func ToLedgerEntryResponse(e *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:                  e.ID,
		ProductID:           e.ProductID,
		Action:              e.Action,
		QuantityDelta:       e.QuantityDelta,
		PreviousQuantity:    e.PreviousQuantity,
		NewQuantity:         e.NewQuantity,
		TransactionType:     e.TransactionType,
		SourceLocation:      e.SourceLocation,
		DestinationLocation: e.DestinationLocation,
		Reference:           e.Reference,
		Notes:               e.Notes,
		PerformedByID:       e.PerformedByID,
		PerformedByName:     e.PerformedByName,
		PerformedByRole:     e.PerformedByRole,
		CreatedAt:           e.CreatedAt,
	}
}

// MutationResponse resultado de una mutación exitosa.
type MutationResponse struct {
	Product          ProductResponse     `json:"product"`
	LedgerEntry      LedgerEntryResponse `json:"ledger_entry"`
	PreviousQuantity decimal.Decimal     `json:"previous_quantity"`
	NewQuantity      decimal.Decimal     `json:"new_quantity"`
}

// BatchItemResponse resultado de un ítem del lote, posición a posición con la entrada.
type BatchItemResponse struct {
	ProductID    string            `json:"product_id"`
	Success      bool              `json:"success"`
	Result       *MutationResponse `json:"result,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// AuditRecordResponse registro de auditoría en respuestas HTTP.
type AuditRecordResponse struct {
	ID              string    `json:"id"`
	Action          string    `json:"action"`
	Entity          string    `json:"entity"`
	EntityID        string    `json:"entity_id"`
	Description     string    `json:"description"`
	PerformedByID   string    `json:"performed_by_id"`
	PerformedByName string    `json:"performed_by_name"`
	OldData         any       `json:"old_data,omitempty"`
	NewData         any       `json:"new_data,omitempty"`
	Changes         []string  `json:"changes,omitempty"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToAuditRecordResponse mapea la entidad al DTO de salida.
func ToAuditRecordResponse(a *entity.AuditRecord) AuditRecordResponse {
	resp := AuditRecordResponse{
		ID:              a.ID,
		Action:          a.Action,
		Entity:          a.Entity,
		EntityID:        a.EntityID,
		Description:     a.Description,
		PerformedByID:   a.PerformedByID,
		PerformedByName: a.PerformedByName,
		Changes:         a.Changes,
		Status:          a.Status,
		ErrorMessage:    a.ErrorMessage,
		CreatedAt:       a.CreatedAt,
	}
	if len(a.OldData) > 0 {
		resp.OldData = a.OldData
	}
	if len(a.NewData) > 0 {
		resp.NewData = a.NewData
	}
	return resp
}
