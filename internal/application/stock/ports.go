package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del motor de stock:
// si fn devuelve error no queda visible ningún estado parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		ledgerRepo repository.LedgerRepository,
		auditRepo repository.AuditRepository,
	) error) error
}

// Notifier es el colaborador externo de alertas de stock bajo.
// Cualquier error se trata como fallo de notificación, nunca como fatal.
type Notifier interface {
	Send(ctx context.Context, product *entity.Product, threshold decimal.Decimal) error
}

// NopNotifier descarta las alertas. Se usa cuando no hay canal SMTP configurado.
type NopNotifier struct{}

// Send no hace nada.
func (NopNotifier) Send(ctx context.Context, product *entity.Product, threshold decimal.Decimal) error {
	return nil
}
