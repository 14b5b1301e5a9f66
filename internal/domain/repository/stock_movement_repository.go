package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockMovementRepository puerto de persistencia del libro de movimientos.
// Solo append: no existen Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct lista del más reciente al más antiguo (date DESC, id DESC).
	ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error)
	CountByProduct(ctx context.Context, productID int64) (int64, error)
}
