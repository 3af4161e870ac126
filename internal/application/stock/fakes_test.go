package stock_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional real: Run trabaja sobre una
// copia del estado y solo la publica en el commit. Un error dentro de fn
// descarta la copia completa (rollback), igual que la transacción PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products map[string]entity.Product
	ledger   []entity.LedgerEntry
	audits   []entity.AuditRecord

	// Inyección de fallos para los tests de atomicidad.
	failLedger bool
	failAudit  bool
}

func newFakeStore(products ...entity.Product) *fakeStore {
	s := &fakeStore{products: make(map[string]entity.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) clone() *fakeStore {
	c := &fakeStore{
		products:   make(map[string]entity.Product, len(s.products)),
		ledger:     append([]entity.LedgerEntry(nil), s.ledger...),
		audits:     append([]entity.AuditRecord(nil), s.audits...),
		failLedger: s.failLedger,
		failAudit:  s.failAudit,
	}
	for id, p := range s.products {
		c.products[id] = p
	}
	return c
}

func (s *fakeStore) commit(tx *fakeStore) {
	s.products = tx.products
	s.ledger = tx.ledger
	s.audits = tx.audits
}

func (s *fakeStore) quantityOf(productID string) decimal.Decimal {
	return s.products[productID].Quantity
}

func (s *fakeStore) auditsByAction(action string) []entity.AuditRecord {
	var out []entity.AuditRecord
	for _, a := range s.audits {
		if a.Action == action {
			out = append(out, a)
		}
	}
	return out
}

// ── repositorios ─────────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) UpdateStock(p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) UpdateStatus(id, status string) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	r.s.products[id] = p
	return nil
}

type fakeLedgerRepo struct{ s *fakeStore }

func (r *fakeLedgerRepo) Create(e *entity.LedgerEntry) error {
	if r.s.failLedger {
		return errors.New("ledger caído")
	}
	r.s.ledger = append(r.s.ledger, *e)
	return nil
}

func (r *fakeLedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	for _, e := range r.s.ledger {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for i := range r.s.ledger {
		if r.s.ledger[i].ProductID == productID {
			out = append(out, &r.s.ledger[i])
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var kept []entity.LedgerEntry
	var deleted int64
	for _, e := range r.s.ledger {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.s.ledger = kept
	return deleted, nil
}

type fakeAuditRepo struct{ s *fakeStore }

func (r *fakeAuditRepo) Create(a *entity.AuditRecord) error {
	if r.s.failAudit {
		return errors.New("auditoría caída")
	}
	r.s.audits = append(r.s.audits, *a)
	return nil
}

func (r *fakeAuditRepo) List(limit, offset int) ([]*entity.AuditRecord, error) {
	var out []*entity.AuditRecord
	for i := range r.s.audits {
		out = append(out, &r.s.audits[i])
	}
	return out, nil
}

func (r *fakeAuditRepo) ListByEntity(entityName, entityID string, limit, offset int) ([]*entity.AuditRecord, error) {
	var out []*entity.AuditRecord
	for i := range r.s.audits {
		if r.s.audits[i].Entity == entityName && r.s.audits[i].EntityID == entityID {
			out = append(out, &r.s.audits[i])
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var kept []entity.AuditRecord
	var deleted int64
	for _, a := range r.s.audits {
		if a.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.s.audits = kept
	return deleted, nil
}

// ── tx runner ────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx := r.s.clone()
	if err := fn(&fakeProductRepo{s: tx}, &fakeLedgerRepo{s: tx}, &fakeAuditRepo{s: tx}); err != nil {
		return err
	}
	r.s.commit(tx)
	return nil
}

// ── notificador ──────────────────────────────────────────────────────────────

type fakeNotifier struct {
	calls []string // product IDs notificados, en orden
	err   error
}

func (n *fakeNotifier) Send(ctx context.Context, product *entity.Product, threshold decimal.Decimal) error {
	n.calls = append(n.calls, product.ID)
	return n.err
}
