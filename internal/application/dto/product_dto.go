package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto con su cantidad inicial.
type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Price        decimal.Decimal  `json:"price"`
	Cost         decimal.Decimal  `json:"cost"`
	Profit       *decimal.Decimal `json:"profit,omitempty"`
	Quantity     int64            `json:"quantity" validate:"min=0"`
	MinimumStock int64            `json:"minimum_stock" validate:"min=0"`
}

// ReplaceProductRequest reemplazo completo de un producto (PUT).
// MinimumStock no se modifica por esta vía.
type ReplaceProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	Cost        decimal.Decimal  `json:"cost"`
	Profit      *decimal.Decimal `json:"profit,omitempty"`
	Quantity    int64            `json:"quantity" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	Quantity     int64           `json:"quantity"`
	MinimumStock int64           `json:"minimum_stock"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Fields convierte el request en campos de dominio.
func (r CreateProductRequest) Fields() entity.ProductFields {
	return entity.ProductFields{
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Price:        r.Price,
		Cost:         r.Cost,
		Profit:       r.Profit,
		MinimumStock: r.MinimumStock,
	}
}

// Fields convierte el request en campos de dominio.
func (r ReplaceProductRequest) Fields() entity.ProductFields {
	return entity.ProductFields{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Cost:        r.Cost,
		Profit:      r.Profit,
	}
}

// ToProductResponse mapea la entidad a la respuesta HTTP.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		Cost:         p.Cost,
		Profit:       p.Profit,
		Quantity:     p.Quantity,
		MinimumStock: p.MinimumStock,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
