package mail

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/config"
)

var _ stock.Notifier = (*Notifier)(nil)

// Notifier envía alertas de stock bajo por SMTP. El motor trata cualquier
// error de envío como fallo de notificación (se audita, nunca es fatal).
type Notifier struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewNotifier construye el notificador con la configuración SMTP.
func NewNotifier(cfg config.SMTPConfig) *Notifier {
	return &Notifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

// Send envía el correo de alerta para un producto en LOW_STOCK.
func (n *Notifier) Send(ctx context.Context, product *entity.Product, threshold decimal.Decimal) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", fmt.Sprintf("Stock bajo: %s (%s)", product.Name, product.SKU))
	m.SetBody("text/plain", fmt.Sprintf(
		"El producto %s (%s) quedó en %s %s, igual o por debajo del mínimo de %s.\n"+
			"Revisa la lista de reposición.",
		product.Name, product.SKU, product.Quantity, product.Unit, threshold,
	))
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar alerta de stock bajo: %w", err)
	}
	return nil
}
