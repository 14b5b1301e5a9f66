package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository         = (*ProductRepo)(nil)
	_ repository.StockMovementRepository   = (*StockMovementRepo)(nil)
	_ repository.ProductRevisionRepository = (*ProductRevisionRepo)(nil)
)

const productColumns = `id, name, description, category, price, cost, profit, quantity, minimum_stock, active, created_at, updated_at`

// ProductRepo productos sobre SQLite.
type ProductRepo struct {
	q querier
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO products (name, description, category, price, cost, profit, quantity, minimum_stock, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Category, p.Price, p.Cost, p.Profit,
		p.Quantity, p.MinimumStock, p.Active, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var (
		p                    entity.Product
		createdAt, updatedAt string
	)
	err := r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Cost, &p.Profit,
		&p.Quantity, &p.MinimumStock, &p.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetForUpdate igual a GetByID: la conexión única ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) ExistsActiveByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE name = ? AND active = 1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product name: %w", err)
	}
	return exists, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products SET name = ?, description = ?, category = ?, price = ?, cost = ?, profit = ?,
			quantity = ?, minimum_stock = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.Category, p.Price, p.Cost, p.Profit,
		p.Quantity, p.MinimumStock, p.Active, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// StockMovementRepo libro de movimientos sobre SQLite.
type StockMovementRepo struct {
	q querier
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements (transaction_id, product_id, username, kind, date, quantity_change, actual_quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.TransactionID, m.ProductID, m.Username, m.Kind, formatTime(m.Date), m.QuantityChange, m.ActualQuantity,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("stock movement id: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, transaction_id, product_id, username, kind, date, quantity_change, actual_quantity
		FROM stock_movements WHERE product_id = ?
		ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`,
		productID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m    entity.StockMovement
			date string
		)
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ProductID, &m.Username, &m.Kind, &date, &m.QuantityChange, &m.ActualQuantity); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		if m.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = ?`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return n, nil
}

// ProductRevisionRepo instantáneas sobre SQLite.
type ProductRevisionRepo struct {
	q querier
}

func (r *ProductRevisionRepo) Create(ctx context.Context, rev *entity.ProductRevision) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO product_revisions (transaction_id, product_id, rev_type, username, revision_date,
			name, description, category, price, cost, profit, quantity, minimum_stock, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rev.TransactionID, rev.ProductID, rev.RevType, rev.Username, formatTime(rev.RevisionDate),
		rev.Name, rev.Description, rev.Category, rev.Price, rev.Cost, rev.Profit,
		rev.Quantity, rev.MinimumStock, rev.Active,
	)
	if err != nil {
		return fmt.Errorf("insert product revision: %w", err)
	}
	if rev.Rev, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("product revision id: %w", err)
	}
	return nil
}

func (r *ProductRevisionRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductRevision, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT rev, transaction_id, product_id, rev_type, username, revision_date,
			name, description, category, price, cost, profit, quantity, minimum_stock, active
		FROM product_revisions WHERE product_id = ? ORDER BY rev`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list product revisions: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductRevision
	for rows.Next() {
		var (
			rev  entity.ProductRevision
			date string
		)
		if err := rows.Scan(&rev.Rev, &rev.TransactionID, &rev.ProductID, &rev.RevType, &rev.Username, &date,
			&rev.Name, &rev.Description, &rev.Category, &rev.Price, &rev.Cost, &rev.Profit,
			&rev.Quantity, &rev.MinimumStock, &rev.Active); err != nil {
			return nil, fmt.Errorf("scan product revision: %w", err)
		}
		if rev.RevisionDate, err = parseTime(date); err != nil {
			return nil, err
		}
		list = append(list, &rev)
	}
	return list, rows.Err()
}
