package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

const auditColumns = `id, action, entity, entity_id, description, performed_by_id, performed_by_name, old_data, new_data, changes, status, error_message, created_at`

// AuditRepo implementación append-only de auditoría sobre PostgreSQL
// (usable con pool o tx: las auditorías de mutación van dentro de la tx,
// las de fallo y alerta directas al pool).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste un registro de auditoría.
func (r *AuditRepo) Create(record *entity.AuditRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_log (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.Action, record.Entity, record.EntityID, record.Description,
		record.PerformedByID, record.PerformedByName,
		record.OldData, record.NewData, record.Changes,
		record.Status, nullIfEmpty(record.ErrorMessage), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit record: %w", err)
	}
	return nil
}

func scanAuditRecord(row pgx.Row) (*entity.AuditRecord, error) {
	var a entity.AuditRecord
	var errMsg *string
	err := row.Scan(
		&a.ID, &a.Action, &a.Entity, &a.EntityID, &a.Description,
		&a.PerformedByID, &a.PerformedByName,
		&a.OldData, &a.NewData, &a.Changes,
		&a.Status, &errMsg, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ErrorMessage = deref(errMsg)
	return &a, nil
}

// List lista registros de auditoría con paginación (más recientes primero).
func (r *AuditRepo) List(limit, offset int) ([]*entity.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListByEntity lista la auditoría de una entidad concreta.
func (r *AuditRepo) ListByEntity(entityName, entityID string, limit, offset int) ([]*entity.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE entity = $1 AND entity_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	return r.list(query, entityName, entityID, limit, offset)
}

func (r *AuditRepo) list(query string, args ...any) ([]*entity.AuditRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []*entity.AuditRecord
	for rows.Next() {
		a, err := scanAuditRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// DeleteOlderThan borra registros anteriores al corte (retención por antigüedad).
func (r *AuditRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM audit_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old audit records: %w", err)
	}
	return cmd.RowsAffected(), nil
}
