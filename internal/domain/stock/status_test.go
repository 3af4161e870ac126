package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/stock"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name     string
		quantity string
		minStock string
		want     string
	}{
		{"cantidad sobre el umbral", "11", "10", entity.StockStatusInStock},
		{"cantidad igual al umbral", "10", "10", entity.StockStatusLowStock},
		{"cantidad bajo el umbral", "9", "10", entity.StockStatusLowStock},
		{"cantidad cero", "0", "10", entity.StockStatusOutOfStock},
		{"cantidad negativa", "-1", "10", entity.StockStatusOutOfStock},
		{"umbral cero con stock", "1", "0", entity.StockStatusInStock},
		{"umbral cero sin stock", "0", "0", entity.StockStatusOutOfStock},
		{"fraccional sobre el umbral", "10.5", "10", entity.StockStatusInStock},
		{"fraccional bajo el umbral", "9.75", "10", entity.StockStatusLowStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stock.DeriveStatus(d(tc.quantity), d(tc.minStock))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextStatus(t *testing.T) {
	// DISCONTINUED se preserva sin importar la cantidad resultante.
	assert.Equal(t, entity.StockStatusDiscontinued,
		stock.NextStatus(entity.StockStatusDiscontinued, d("100"), d("10")))
	assert.Equal(t, entity.StockStatusDiscontinued,
		stock.NextStatus(entity.StockStatusDiscontinued, d("0"), d("10")))

	// Para cualquier otro estado actual delega en la derivación pura.
	assert.Equal(t, entity.StockStatusLowStock,
		stock.NextStatus(entity.StockStatusInStock, d("10"), d("10")))
	assert.Equal(t, entity.StockStatusInStock,
		stock.NextStatus(entity.StockStatusOutOfStock, d("50"), d("10")))
}
