package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
// No acepta quantity: el stock inicial entra con una mutación STOCK_IN.
type CreateProductRequest struct {
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	Cost          decimal.Decimal  `json:"cost"`
	Unit          string           `json:"unit"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	Cost          decimal.Decimal  `json:"cost"`
	Unit          string           `json:"unit"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level,omitempty"`
}

// ProductResponse representación HTTP de un producto con su stock.
type ProductResponse struct {
	ID              string           `json:"id"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	Cost            decimal.Decimal  `json:"cost"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Unit            string           `json:"unit"`
	MinStockLevel   decimal.Decimal  `json:"min_stock_level"`
	MaxStockLevel   *decimal.Decimal `json:"max_stock_level,omitempty"`
	Status          string           `json:"status"`
	LastRestockedAt *time.Time       `json:"last_restocked_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Cost:            p.Cost,
		Quantity:        p.Quantity,
		Unit:            p.Unit,
		MinStockLevel:   p.MinStockLevel,
		MaxStockLevel:   p.MaxStockLevel,
		Status:          p.Status,
		LastRestockedAt: p.LastRestockedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
