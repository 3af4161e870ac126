package entity

import (
	"encoding/json"
	"time"
)

// Estados de un registro de auditoría.
const (
	AuditStatusSuccess = "SUCCESS"
	AuditStatusFailure = "FAILURE"
	AuditStatusWarning = "WARNING"
)

// Acciones auditadas por el núcleo de stock.
const (
	AuditActionStockMutation = "STOCK_MUTATION"
	AuditActionAlert         = "ALERT"
)

// AuditRecord es el registro genérico de una acción para trazabilidad.
// Se escribe uno por intento de mutación (exitoso o fallido) y uno adicional
// por cada evento de alerta de stock bajo.
type AuditRecord struct {
	ID              string
	Action          string // STOCK_MUTATION, ALERT, ...
	Entity          string // nombre de la entidad afectada ("product")
	EntityID        string
	Description     string
	PerformedByID   string
	PerformedByName string
	OldData         json.RawMessage // snapshot antes de la mutación
	NewData         json.RawMessage // snapshot después de la mutación
	Changes         []string        // campos modificados
	Status          string          // SUCCESS, FAILURE, WARNING
	ErrorMessage    string
	CreatedAt       time.Time
}
