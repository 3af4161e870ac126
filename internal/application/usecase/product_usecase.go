package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/stock"
)

// ProductUseCase CRUD de productos. No toca Quantity: toda mutación de stock
// pasa por el motor de mutaciones.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create registra un producto nuevo con cantidad 0 (el stock inicial entra
// con una mutación STOCK_IN). Devuelve ErrDuplicate si el SKU ya existe.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.Cost.LessThan(decimal.Zero) || in.MinStockLevel.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.MaxStockLevel != nil && in.MaxStockLevel.LessThan(in.MinStockLevel) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	unit := in.Unit
	if unit == "" {
		unit = "und"
	}
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		Cost:          in.Cost,
		Quantity:      decimal.Zero,
		Unit:          unit,
		MinStockLevel: in.MinStockLevel,
		MaxStockLevel: in.MaxStockLevel,
		Status:        stock.DeriveStatus(decimal.Zero, in.MinStockLevel),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(limit, offset)
}

// Update actualiza los datos generales. Si cambia MinStockLevel recalcula el
// estado: Status es siempre función de (Quantity, MinStockLevel), nunca se
// fija de forma independiente. DISCONTINUED se preserva.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.Price.LessThan(decimal.Zero) || in.MinStockLevel.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.MaxStockLevel != nil && in.MaxStockLevel.LessThan(in.MinStockLevel) {
		return nil, domain.ErrInvalidInput
	}
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Cost = in.Cost
	if in.Unit != "" {
		product.Unit = in.Unit
	}
	product.MinStockLevel = in.MinStockLevel
	product.MaxStockLevel = in.MaxStockLevel
	product.Status = stock.NextStatus(product.Status, product.Quantity, product.MinStockLevel)
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Discontinue aplica el estado de ciclo de vida DISCONTINUED. El motor de
// mutaciones lo preserva en mutaciones posteriores.
func (uc *ProductUseCase) Discontinue(id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.UpdateStatus(id, entity.StockStatusDiscontinued)
}

// Reactivate quita DISCONTINUED y vuelve al estado derivado de la cantidad actual.
func (uc *ProductUseCase) Reactivate(id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.UpdateStatus(id, stock.DeriveStatus(product.Quantity, product.MinStockLevel))
}
