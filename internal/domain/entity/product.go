package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock de un producto. Status siempre se deriva de (Quantity, MinStockLevel)
// vía stock.DeriveStatus; DISCONTINUED es un estado de ciclo de vida aplicado externamente.
const (
	StockStatusInStock      = "IN_STOCK"
	StockStatusLowStock     = "LOW_STOCK"
	StockStatusOutOfStock   = "OUT_OF_STOCK"
	StockStatusDiscontinued = "DISCONTINUED"
)

// Product representa un producto del inventario junto con su registro de stock
// (cantidad, umbrales y estado). Quantity solo la escribe el motor de mutaciones;
// ningún otro componente debe modificarla directamente.
type Product struct {
	ID              string
	SKU             string // código único
	Name            string
	Description     string
	Price           decimal.Decimal
	Cost            decimal.Decimal
	Quantity        decimal.Decimal  // cantidad en existencia (no negativa)
	Unit            string           // unidad de medida (und, kg, lt...)
	MinStockLevel   decimal.Decimal  // umbral de stock bajo
	MaxStockLevel   *decimal.Decimal // opcional
	Status          string           // IN_STOCK, LOW_STOCK, OUT_OF_STOCK, DISCONTINUED
	LastRestockedAt *time.Time       // última entrada que dejó el producto en IN_STOCK
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
