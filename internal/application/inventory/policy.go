package inventory

import "fmt"

// ZeroDeltaPolicy decide qué hace ApplyDelta con un delta igual a cero.
type ZeroDeltaPolicy string

const (
	// ZeroDeltaRecord acepta y registra un movimiento "no-op" explícito.
	ZeroDeltaRecord ZeroDeltaPolicy = "record"
	// ZeroDeltaSkip acepta sin escribir movimiento ni revisión.
	ZeroDeltaSkip ZeroDeltaPolicy = "skip"
	// ZeroDeltaReject rechaza con domain.ErrZeroDelta.
	ZeroDeltaReject ZeroDeltaPolicy = "reject"
)

// ParseZeroDeltaPolicy interpreta el valor de configuración; vacío equivale a record.
func ParseZeroDeltaPolicy(s string) (ZeroDeltaPolicy, error) {
	switch ZeroDeltaPolicy(s) {
	case "", ZeroDeltaRecord:
		return ZeroDeltaRecord, nil
	case ZeroDeltaSkip, ZeroDeltaReject:
		return ZeroDeltaPolicy(s), nil
	}
	return "", fmt.Errorf("política de delta cero desconocida: %q", s)
}

// HistoryStrategy estrategia de lectura del historial.
type HistoryStrategy string

const (
	HistoryFromLedger    HistoryStrategy = "ledger"
	HistoryFromSnapshots HistoryStrategy = "snapshot"
)

// ParseHistoryStrategy interpreta el valor de configuración; vacío equivale a ledger.
func ParseHistoryStrategy(s string) (HistoryStrategy, error) {
	switch HistoryStrategy(s) {
	case "", HistoryFromLedger:
		return HistoryFromLedger, nil
	case HistoryFromSnapshots:
		return HistoryFromSnapshots, nil
	}
	return "", fmt.Errorf("estrategia de historial desconocida: %q", s)
}
