package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acciones de mutación de stock registradas en el ledger.
const (
	LedgerActionStockIn    = "STOCK_IN"
	LedgerActionStockOut   = "STOCK_OUT"
	LedgerActionAdjustment = "ADJUSTMENT"
	LedgerActionTransfer   = "TRANSFER"
)

// Tipos de transacción que originan una mutación de stock.
const (
	TransactionTypePurchase   = "purchase"
	TransactionTypeSale       = "sale"
	TransactionTypeReturn     = "return"
	TransactionTypeDamage     = "damage"
	TransactionTypeAdjustment = "adjustment"
	TransactionTypeTransfer   = "transfer"
)

// LedgerEntry es el registro inmutable de un cambio de cantidad: se crea
// exactamente una vez por mutación exitosa y nunca se actualiza ni se borra
// (solo limpieza por retención de antigüedad).
// Invariante: NewQuantity - PreviousQuantity == QuantityDelta, con el signo
// del delta consistente con Action (STOCK_OUT siempre resta).
type LedgerEntry struct {
	ID                  string
	ProductID           string
	Action              string // STOCK_IN, STOCK_OUT, ADJUSTMENT, TRANSFER
	QuantityDelta       decimal.Decimal
	PreviousQuantity    decimal.Decimal
	NewQuantity         decimal.Decimal
	TransactionType     string // purchase, sale, return, damage, adjustment, transfer
	SourceLocation      string // obligatorio en TRANSFER
	DestinationLocation string // obligatorio en TRANSFER
	Reference           string // documento relacionado (factura, orden...)
	Notes               string
	// Actor capturado por valor al momento de escribir: un rename posterior
	// del usuario no reescribe la historia.
	PerformedByID   string
	PerformedByName string
	PerformedByRole string
	CreatedAt       time.Time
}
