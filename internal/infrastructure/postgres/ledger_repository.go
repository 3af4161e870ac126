package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, product_id, action, quantity_delta, previous_quantity, new_quantity, transaction_type, source_location, destination_location, reference, notes, performed_by_id, performed_by_name, performed_by_role, created_at`

// LedgerRepo implementación append-only del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla no recibe UPDATE ni DELETE de negocio; solo INSERT y la limpieza
// por retención.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create persiste una entrada del ledger.
func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.Action, entry.QuantityDelta,
		entry.PreviousQuantity, entry.NewQuantity, entry.TransactionType,
		nullIfEmpty(entry.SourceLocation), nullIfEmpty(entry.DestinationLocation),
		nullIfEmpty(entry.Reference), nullIfEmpty(entry.Notes),
		entry.PerformedByID, entry.PerformedByName, entry.PerformedByRole,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

func scanLedgerEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var source, destination, reference, notes *string
	err := row.Scan(
		&e.ID, &e.ProductID, &e.Action, &e.QuantityDelta,
		&e.PreviousQuantity, &e.NewQuantity, &e.TransactionType,
		&source, &destination, &reference, &notes,
		&e.PerformedByID, &e.PerformedByName, &e.PerformedByRole,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.SourceLocation = deref(source)
	e.DestinationLocation = deref(destination)
	e.Reference = deref(reference)
	e.Notes = deref(notes)
	return &e, nil
}

// GetByID obtiene una entrada por ID.
func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE id = $1`
	e, err := scanLedgerEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// ListByProduct lista la historia de un producto en un rango de fechas.
func (r *LedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger by product: %w", err)
	}
	defer rows.Close()

	var entries []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteOlderThan borra entradas anteriores al corte (retención por antigüedad).
func (r *LedgerRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_ledger WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old ledger entries: %w", err)
	}
	return cmd.RowsAffected(), nil
}
