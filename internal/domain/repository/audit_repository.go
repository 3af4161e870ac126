package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AuditRepository define el puerto append-only de auditoría.
type AuditRepository interface {
	Create(record *entity.AuditRecord) error
	List(limit, offset int) ([]*entity.AuditRecord, error)
	ListByEntity(entityName, entityID string, limit, offset int) ([]*entity.AuditRecord, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
