// seed carga productos iniciales desde un CSV a través del Ledger, de modo que cada
// producto queda con su movimiento CREATE y su revisión ADD.
//
// Uso: go run ./cmd/seed [ruta/productos.csv]
// Columnas: name;description;category;price;cost;quantity;minimum_stock
// Acepta UTF-8 o ISO-8859-1 (exportaciones de Excel). Los nombres ya existentes se omiten.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/storage"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const seedActor = "seed"

func main() {
	csvPath := "productos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	rows, err := parseProducts(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	ledger := inventory.NewLedger(backend.TxRunner, backend.Products, inventory.LedgerConfig{Logger: log})

	created, skipped := 0, 0
	for _, r := range rows {
		_, err := ledger.Create(ctx, r.fields, r.quantity, seedActor)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicateName):
			skipped++
		default:
			log.Error().Err(err).Int("line", r.line).Str("name", r.fields.Name).Msg("producto no cargado")
		}
	}
	fmt.Printf("Productos creados: %d, omitidos (ya existían): %d, total en CSV: %d\n", created, skipped, len(rows))
}
