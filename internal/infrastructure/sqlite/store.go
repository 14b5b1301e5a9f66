/*
Package sqlite implementa el Ledger sobre SQLite (un archivo o ":memory:").

Pensado para desarrollo local y despliegues de un solo nodo. El pool se limita a una
conexión: cada transacción la retiene hasta Commit/Rollback, de modo que las mutaciones
quedan serializadas y GetForUpdate no necesita FOR UPDATE (SQLite no lo soporta).

Las fechas se guardan como TEXT UTC con ancho fijo para que ORDER BY sea cronológico.
Los montos se guardan como TEXT (decimal.Decimal implementa Scanner/Valuer).
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// querier es el subconjunto común de *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store abre la base y entrega repositorios y transacciones.
type Store struct {
	db *sql.DB
}

// New abre (o crea) la base en dbPath y aplica el esquema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return store, nil
}

// Close cierra la base.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifica la conexión (health check).
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{q: s.db} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{q: s.db} }

// Revisions repositorio de revisiones fuera de transacción.
func (s *Store) Revisions() *ProductRevisionRepo { return &ProductRevisionRepo{q: s.db} }

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	revRepo repository.ProductRevisionRepository,
) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&ProductRepo{q: tx}, &StockMovementRepo{q: tx}, &ProductRevisionRepo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT    NOT NULL,
		description   TEXT    NOT NULL DEFAULT '',
		category      TEXT    NOT NULL DEFAULT '',
		price         TEXT    NOT NULL DEFAULT '0',
		cost          TEXT    NOT NULL DEFAULT '0',
		profit        TEXT    NOT NULL DEFAULT '0',
		quantity      INTEGER NOT NULL CHECK (quantity >= 0),
		minimum_stock INTEGER NOT NULL DEFAULT 0 CHECK (minimum_stock >= 0),
		active        INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT    NOT NULL,
		updated_at    TEXT    NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS ux_products_active_name ON products(name) WHERE active = 1;

	-- Libro de movimientos (append-only)
	CREATE TABLE IF NOT EXISTS stock_movements (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id  TEXT    NOT NULL,
		product_id      INTEGER NOT NULL REFERENCES products(id),
		username        TEXT    NOT NULL,
		kind            TEXT    NOT NULL,
		date            TEXT    NOT NULL,
		quantity_change INTEGER NOT NULL,
		actual_quantity INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stock_movements_product_date
		ON stock_movements(product_id, date DESC, id DESC);

	CREATE TABLE IF NOT EXISTS product_revisions (
		rev            INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT    NOT NULL,
		product_id     INTEGER NOT NULL REFERENCES products(id),
		rev_type       TEXT    NOT NULL,
		username       TEXT    NOT NULL,
		revision_date  TEXT    NOT NULL,
		name           TEXT    NOT NULL,
		description    TEXT    NOT NULL,
		category       TEXT    NOT NULL,
		price          TEXT    NOT NULL,
		cost           TEXT    NOT NULL,
		profit         TEXT    NOT NULL,
		quantity       INTEGER NOT NULL,
		minimum_stock  INTEGER NOT NULL,
		active         INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_product_revisions_product ON product_revisions(product_id, rev);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// isUniqueViolation verifica si el error es una violación de índice único.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
