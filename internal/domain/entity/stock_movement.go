package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementKindCreate = "CREATE" // cantidad inicial al crear el producto
	MovementKindDelta  = "DELTA"  // reposición o consumo con delta con signo
	MovementKindEdit   = "EDIT"   // edición completa del producto; QuantityChange es la magnitud sin signo
)

// StockMovement registro inmutable de un cambio de cantidad.
type StockMovement struct {
	ID             int64
	TransactionID  string // compartido con la ProductRevision de la misma transacción
	ProductID      int64
	Username       string
	Kind           string
	Date           time.Time
	QuantityChange int64
	ActualQuantity int64 // cantidad resultante tras el cambio
}
