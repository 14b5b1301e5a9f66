package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProductRevisionRepository puerto del log de revisiones (instantáneas completas).
type ProductRevisionRepository interface {
	// Create persiste la revisión y le asigna Rev.
	Create(ctx context.Context, revision *entity.ProductRevision) error
	// ListByProduct devuelve todas las revisiones del producto en orden de Rev ascendente.
	ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductRevision, error)
}
