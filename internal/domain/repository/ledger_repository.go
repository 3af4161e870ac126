package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// LedgerRepository define el puerto append-only del ledger de stock.
// No expone update ni delete de negocio; la única limpieza permitida es la
// retención por antigüedad.
type LedgerRepository interface {
	Create(entry *entity.LedgerEntry) error
	GetByID(id string) (*entity.LedgerEntry, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
