package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// QuantityHistoryResponse una entrada del historial de cantidad.
type QuantityHistoryResponse struct {
	TransactionID    string    `json:"transactionId,omitempty"`
	Username         string    `json:"username"`
	RevisionDate     time.Time `json:"revisionDate"`
	Kind             string    `json:"kind,omitempty"`
	Quantity         int64     `json:"quantity"`
	PreviousQuantity *int64    `json:"previousQuantity"`
	QuantityChange   *int64    `json:"quantityChange"`
}

// ToQuantityHistoryResponse mapea el registro derivado a la respuesta.
func ToQuantityHistoryResponse(h entity.QuantityHistory) QuantityHistoryResponse {
	return QuantityHistoryResponse{
		TransactionID:    h.TransactionID,
		Username:         h.Username,
		RevisionDate:     h.RevisionDate,
		Kind:             h.Kind,
		Quantity:         h.Quantity,
		PreviousQuantity: h.PreviousQuantity,
		QuantityChange:   h.QuantityChange,
	}
}

// ToQuantityHistoryResponses mapea una lista completa.
func ToQuantityHistoryResponses(list []entity.QuantityHistory) []QuantityHistoryResponse {
	out := make([]QuantityHistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, ToQuantityHistoryResponse(h))
	}
	return out
}
