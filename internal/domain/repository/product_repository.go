package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos y su
// registro de stock. GetForUpdate se usa dentro de transacciones para
// serializar mutaciones sobre el mismo producto.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	// Update actualiza los datos generales; no toca Quantity ni LastRestockedAt
	// (propiedad exclusiva del motor de mutaciones). Sí recalcula Status.
	Update(product *entity.Product) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Product, error)
	// UpdateStock persiste quantity, status y last_restocked_at. Solo el motor
	// de mutaciones debe invocarlo, dentro de una transacción.
	UpdateStock(product *entity.Product) error
	// UpdateStatus cambia solo el estado (DISCONTINUED / reactivación).
	UpdateStatus(id, status string) error
}
