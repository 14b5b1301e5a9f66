package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario con su cantidad actual.
// Quantity solo cambia a través del Ledger; cada cambio deja un StockMovement.
type Product struct {
	ID           int64
	Name         string // único entre productos activos
	Description  string
	Category     string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal
	Profit       decimal.Decimal // price - cost salvo que el llamador lo indique
	Quantity     int64
	MinimumStock int64
	Active       bool // false = borrado lógico
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductFields campos descriptivos aceptados al crear o reemplazar un producto.
// Profit nil significa "derivar como Price - Cost".
type ProductFields struct {
	Name         string
	Description  string
	Category     string
	Price        decimal.Decimal
	Cost         decimal.Decimal
	Profit       *decimal.Decimal
	MinimumStock int64
}

// ResolvedProfit devuelve Profit si viene informado; si no, Price - Cost.
func (f ProductFields) ResolvedProfit() decimal.Decimal {
	if f.Profit != nil {
		return *f.Profit
	}
	return f.Price.Sub(f.Cost)
}
