package inventory

import "github.com/jhoicas/inventario-ledger/internal/domain"

// CheckDelta valida el invariante de stock mínimo para un cambio por delta y
// devuelve la cantidad resultante.
// Nuevo = Actual + Delta; se rechaza si Nuevo < StockMínimo.
func CheckDelta(productID, quantity, minimumStock, delta int64) (int64, error) {
	next := quantity + delta
	if next < minimumStock {
		return quantity, &domain.MinimumStockError{
			ProductID:    productID,
			Quantity:     quantity,
			Delta:        delta,
			MinimumStock: minimumStock,
		}
	}
	return next, nil
}

// EditMagnitude devuelve |nuevo - anterior|, el valor que registra una edición completa.
// La edición no es un delta con signo ni pasa por CheckDelta.
func EditMagnitude(previous, next int64) int64 {
	if next > previous {
		return next - previous
	}
	return previous - next
}
