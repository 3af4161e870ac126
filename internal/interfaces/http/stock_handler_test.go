package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
)

// Fakes mínimos para ejercitar el mapeo de errores HTTP del motor. No simulan
// rollback: esa semántica ya está cubierta en los tests del motor.

type stubProductRepo struct{ products map[string]entity.Product }

func (r *stubProductRepo) Create(p *entity.Product) error { r.products[p.ID] = *p; return nil }
func (r *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
func (r *stubProductRepo) GetBySKU(string) (*entity.Product, error)      { return nil, nil }
func (r *stubProductRepo) List(int, int) ([]*entity.Product, error)      { return nil, nil }
func (r *stubProductRepo) Update(p *entity.Product) error                { r.products[p.ID] = *p; return nil }
func (r *stubProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}
func (r *stubProductRepo) UpdateStock(p *entity.Product) error { r.products[p.ID] = *p; return nil }
func (r *stubProductRepo) UpdateStatus(id, status string) error {
	p := r.products[id]
	p.Status = status
	r.products[id] = p
	return nil
}

type stubLedgerRepo struct{ entries []entity.LedgerEntry }

func (r *stubLedgerRepo) Create(e *entity.LedgerEntry) error { r.entries = append(r.entries, *e); return nil }
func (r *stubLedgerRepo) GetByID(string) (*entity.LedgerEntry, error) { return nil, nil }
func (r *stubLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for i := range r.entries {
		if r.entries[i].ProductID == productID {
			out = append(out, &r.entries[i])
		}
	}
	return out, nil
}
func (r *stubLedgerRepo) DeleteOlderThan(time.Time) (int64, error) { return 0, nil }

type stubAuditRepo struct{ records []entity.AuditRecord }

func (r *stubAuditRepo) Create(a *entity.AuditRecord) error { r.records = append(r.records, *a); return nil }
func (r *stubAuditRepo) List(int, int) ([]*entity.AuditRecord, error) {
	var out []*entity.AuditRecord
	for i := range r.records {
		out = append(out, &r.records[i])
	}
	return out, nil
}
func (r *stubAuditRepo) ListByEntity(string, string, int, int) ([]*entity.AuditRecord, error) {
	return nil, nil
}
func (r *stubAuditRepo) DeleteOlderThan(time.Time) (int64, error) { return 0, nil }

type stubTxRunner struct {
	products *stubProductRepo
	ledger   *stubLedgerRepo
	audit    *stubAuditRepo
}

func (r *stubTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	auditRepo repository.AuditRepository,
) error) error {
	return fn(r.products, r.ledger, r.audit)
}

func stockTestApp(products ...entity.Product) *fiber.App {
	productRepo := &stubProductRepo{products: make(map[string]entity.Product)}
	for _, p := range products {
		productRepo.products[p.ID] = p
	}
	ledgerRepo := &stubLedgerRepo{}
	auditRepo := &stubAuditRepo{}
	runner := &stubTxRunner{products: productRepo, ledger: ledgerRepo, audit: auditRepo}
	engine := stock.NewMutationEngine(runner, auditRepo, nil, stock.Options{}, nil)
	handler := apphttp.NewStockHandler(engine, stock.NewBatchOrchestrator(engine), ledgerRepo, auditRepo)

	app := fiber.New()
	app.Post("/mutations", handler.Mutate)
	app.Post("/mutations/batch", handler.BatchMutate)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func mutationBody(productID, action string, qty int64) map[string]any {
	return map[string]any{
		"product_id": productID,
		"action":     action,
		"quantity":   decimal.NewFromInt(qty),
	}
}

// Mapeo de errores del motor a HTTP: 400 VALIDATION, 404 NOT_FOUND,
// 409 INSUFFICIENT_STOCK; el éxito responde 201 con producto y ledger.
func TestStockMutate_MapeoDeErrores(t *testing.T) {
	inStock := entity.Product{
		ID:            "p1",
		SKU:           "SKU-001",
		Name:          "Tornillo 3/8",
		Quantity:      decimal.NewFromInt(12),
		Unit:          "und",
		MinStockLevel: decimal.NewFromInt(10),
		Status:        entity.StockStatusInStock,
	}

	t.Run("201 en mutación válida", func(t *testing.T) {
		app := stockTestApp(inStock)
		resp := postJSON(t, app, "/mutations", mutationBody("p1", entity.LedgerActionStockOut, 3))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		product := body["product"].(map[string]any)
		assert.Equal(t, "9", product["quantity"])
		assert.Equal(t, entity.StockStatusLowStock, product["status"])
	})

	t.Run("400 con acción desconocida", func(t *testing.T) {
		app := stockTestApp(inStock)
		resp := postJSON(t, app, "/mutations", mutationBody("p1", "RESTOCK", 3))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("404 con producto desconocido", func(t *testing.T) {
		app := stockTestApp(inStock)
		resp := postJSON(t, app, "/mutations", mutationBody("no-existe", entity.LedgerActionStockIn, 3))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("409 con stock insuficiente", func(t *testing.T) {
		app := stockTestApp(inStock)
		resp := postJSON(t, app, "/mutations", mutationBody("p1", entity.LedgerActionStockOut, 999))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	})
}

// El lote responde 200 con un resultado por ítem, incluso con fallos parciales.
func TestStockBatchMutate_RespuestaPorItem(t *testing.T) {
	app := stockTestApp(entity.Product{
		ID:            "p1",
		SKU:           "SKU-001",
		Name:          "Tornillo 3/8",
		Quantity:      decimal.NewFromInt(100),
		Unit:          "und",
		MinStockLevel: decimal.NewFromInt(10),
		Status:        entity.StockStatusInStock,
	})

	resp := postJSON(t, app, "/mutations/batch", map[string]any{
		"items": []map[string]any{
			mutationBody("p1", entity.LedgerActionStockOut, 5),
			mutationBody("p1", entity.LedgerActionStockOut, 9999),
		},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Total   int `json:"total"`
		Results []struct {
			Success      bool   `json:"success"`
			ErrorMessage string `json:"error_message"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 2, body.Total)
	assert.True(t, body.Results[0].Success)
	assert.False(t, body.Results[1].Success)
	assert.NotEmpty(t, body.Results[1].ErrorMessage)
}

// El lote vacío responde 400.
func TestStockBatchMutate_LoteVacio(t *testing.T) {
	app := stockTestApp()
	resp := postJSON(t, app, "/mutations/batch", map[string]any{"items": []map[string]any{}})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
