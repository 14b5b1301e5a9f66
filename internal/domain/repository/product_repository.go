package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos Get devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	// Create persiste el producto y le asigna ID.
	Create(ctx context.Context, product *entity.Product) error
	// GetByID obtiene el producto, activo o no.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	ExistsActiveByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, product *entity.Product) error
}
