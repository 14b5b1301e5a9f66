package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRevisionRepository = (*ProductRevisionRepo)(nil)

// ProductRevisionRepo log de instantáneas de productos.
type ProductRevisionRepo struct {
	q Querier
}

// NewProductRevisionRepository construye el repositorio.
func NewProductRevisionRepository(q Querier) *ProductRevisionRepo {
	return &ProductRevisionRepo{q: q}
}

// Create inserta la instantánea; rev lo asigna la secuencia.
func (r *ProductRevisionRepo) Create(ctx context.Context, rev *entity.ProductRevision) error {
	query := `
		INSERT INTO product_revisions (transaction_id, product_id, rev_type, username, revision_date,
			name, description, category, price, cost, profit, quantity, minimum_stock, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING rev`
	err := r.q.QueryRow(ctx, query,
		rev.TransactionID, rev.ProductID, rev.RevType, rev.Username, rev.RevisionDate,
		rev.Name, rev.Description, rev.Category, rev.Price, rev.Cost, rev.Profit,
		rev.Quantity, rev.MinimumStock, rev.Active,
	).Scan(&rev.Rev)
	if err != nil {
		return fmt.Errorf("insert product revision: %w", err)
	}
	return nil
}

// ListByProduct devuelve las revisiones en orden de rev ascendente.
func (r *ProductRevisionRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductRevision, error) {
	query := `
		SELECT rev, transaction_id, product_id, rev_type, username, revision_date,
			name, description, category, price, cost, profit, quantity, minimum_stock, active
		FROM product_revisions WHERE product_id = $1 ORDER BY rev`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product revisions: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductRevision
	for rows.Next() {
		var rev entity.ProductRevision
		if err := rows.Scan(&rev.Rev, &rev.TransactionID, &rev.ProductID, &rev.RevType, &rev.Username, &rev.RevisionDate,
			&rev.Name, &rev.Description, &rev.Category, &rev.Price, &rev.Cost, &rev.Profit,
			&rev.Quantity, &rev.MinimumStock, &rev.Active); err != nil {
			return nil, fmt.Errorf("scan product revision: %w", err)
		}
		list = append(list, &rev)
	}
	return list, rows.Err()
}
