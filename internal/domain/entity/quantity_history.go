package entity

import "time"

// QuantityHistory registro derivado del historial de cantidad de un producto.
// PreviousQuantity y QuantityChange son nil cuando no se pueden derivar
// (primera instantánea, o magnitud sin signo de una edición).
type QuantityHistory struct {
	TransactionID    string
	Username         string
	RevisionDate     time.Time
	Kind             string // vacío en la estrategia por instantáneas
	Quantity         int64
	PreviousQuantity *int64
	QuantityChange   *int64
}
