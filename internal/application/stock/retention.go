package stock

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// RetentionUseCase aplica la retención por antigüedad sobre ledger y
// auditoría: la única forma permitida de limpieza (nunca lógica de negocio).
type RetentionUseCase struct {
	ledgerRepo repository.LedgerRepository
	auditRepo  repository.AuditRepository
	log        *logger.Logger
}

// NewRetentionUseCase construye el caso de uso de retención.
func NewRetentionUseCase(ledgerRepo repository.LedgerRepository, auditRepo repository.AuditRepository, log *logger.Logger) *RetentionUseCase {
	return &RetentionUseCase{ledgerRepo: ledgerRepo, auditRepo: auditRepo, log: log}
}

// Purge borra entradas de ledger y auditoría anteriores al corte.
func (uc *RetentionUseCase) Purge(retention time.Duration) {
	cutoff := time.Now().Add(-retention)

	if n, err := uc.ledgerRepo.DeleteOlderThan(cutoff); err != nil {
		uc.log.Error().Err(err).Msg("retención de ledger")
	} else if n > 0 {
		uc.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("retención de ledger aplicada")
	}

	if n, err := uc.auditRepo.DeleteOlderThan(cutoff); err != nil {
		uc.log.Error().Err(err).Msg("retención de auditoría")
	} else if n > 0 {
		uc.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("retención de auditoría aplicada")
	}
}
