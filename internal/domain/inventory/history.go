package inventory

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// DeriveQuantityHistory recorre las revisiones (Rev ascendente) una sola vez y emite
// un registro por cada cambio de cantidad respecto a la revisión anterior.
// La primera revisión siempre emite, con PreviousQuantity y QuantityChange nil.
// El resultado queda en orden cronológico; el llamador lo invierte para paginar.
func DeriveQuantityHistory(revisions []*entity.ProductRevision) []entity.QuantityHistory {
	out := make([]entity.QuantityHistory, 0, len(revisions))
	var prev *entity.ProductRevision
	for _, rev := range revisions {
		if prev != nil && prev.Quantity == rev.Quantity {
			prev = rev
			continue
		}
		rec := entity.QuantityHistory{
			TransactionID: rev.TransactionID,
			Username:      rev.Username,
			RevisionDate:  rev.RevisionDate,
			Quantity:      rev.Quantity,
		}
		if prev != nil {
			previous := prev.Quantity
			change := rev.Quantity - prev.Quantity
			rec.PreviousQuantity = &previous
			rec.QuantityChange = &change
		}
		out = append(out, rec)
		prev = rev
	}
	return out
}

// MovementHistory convierte un movimiento del libro en registro de historial.
// PreviousQuantity solo se deriva cuando QuantityChange tiene signo (DELTA).
func MovementHistory(m *entity.StockMovement) entity.QuantityHistory {
	change := m.QuantityChange
	rec := entity.QuantityHistory{
		TransactionID:  m.TransactionID,
		Username:       m.Username,
		RevisionDate:   m.Date,
		Kind:           m.Kind,
		Quantity:       m.ActualQuantity,
		QuantityChange: &change,
	}
	if m.Kind == entity.MovementKindDelta {
		previous := m.ActualQuantity - m.QuantityChange
		rec.PreviousQuantity = &previous
	}
	return rec
}

// Reverse invierte items en sitio.
func Reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

// Window devuelve la porción [page*size, page*size+size) de items.
// Una ventana fuera de rango devuelve un slice vacío, nunca error.
func Window[T any](items []T, page, size int) []T {
	if size <= 0 || page < 0 || page > len(items)/size {
		return []T{}
	}
	start := page * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
