// Package storage abre el backend de persistencia configurado (PostgreSQL o SQLite).
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

// Backend agrupa lo que necesitan los casos de uso, independiente del driver.
type Backend struct {
	Driver    string
	TxRunner  inventory.TxRunner
	Products  repository.ProductRepository
	Movements repository.StockMovementRepository
	Revisions repository.ProductRevisionRepository

	ping  func(ctx context.Context) error
	close func()
}

// Ping verifica la conexión (health check).
func (b *Backend) Ping(ctx context.Context) error { return b.ping(ctx) }

// Close libera conexiones.
func (b *Backend) Close() { b.close() }

// Open conecta, aplica el esquema y construye los repositorios del driver elegido.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:    config.DriverSQLite,
			TxRunner:  store,
			Products:  store.Products(),
			Movements: store.Movements(),
			Revisions: store.Revisions(),
			ping:      store.Ping,
			close:     func() { _ = store.Close() },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Driver:    config.DriverPostgres,
			TxRunner:  postgres.NewTxRunner(pool),
			Products:  postgres.NewProductRepository(pool),
			Movements: postgres.NewStockMovementRepository(pool),
			Revisions: postgres.NewProductRevisionRepository(pool),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("storage: driver no soportado %q", cfg.Storage.Driver)
}
