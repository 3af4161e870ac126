package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// DeriveStatus deriva el estado de stock a partir de (cantidad, umbral mínimo):
//
//	quantity <= 0                 -> OUT_OF_STOCK
//	0 < quantity <= minStockLevel -> LOW_STOCK
//	quantity > minStockLevel      -> IN_STOCK
//
// Nunca devuelve DISCONTINUED; ese estado lo aplica el ciclo de vida del
// producto, no la cantidad.
func DeriveStatus(quantity, minStockLevel decimal.Decimal) string {
	switch {
	case quantity.LessThanOrEqual(decimal.Zero):
		return entity.StockStatusOutOfStock
	case quantity.LessThanOrEqual(minStockLevel):
		return entity.StockStatusLowStock
	default:
		return entity.StockStatusInStock
	}
}

// NextStatus calcula el estado posterior a una mutación preservando
// DISCONTINUED si ya estaba aplicado.
func NextStatus(current string, quantity, minStockLevel decimal.Decimal) string {
	if current == entity.StockStatusDiscontinued {
		return entity.StockStatusDiscontinued
	}
	return DeriveStatus(quantity, minStockLevel)
}
