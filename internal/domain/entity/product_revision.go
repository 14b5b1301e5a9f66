package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de revisión.
const (
	RevisionTypeAdd = "ADD"
	RevisionTypeMod = "MOD"
)

// ProductRevision copia completa de un Product en un instante, numerada de forma creciente.
type ProductRevision struct {
	Rev           int64
	TransactionID string
	ProductID     int64
	RevType       string
	Username      string
	RevisionDate  time.Time

	Name         string
	Description  string
	Category     string
	Price        decimal.Decimal
	Cost         decimal.Decimal
	Profit       decimal.Decimal
	Quantity     int64
	MinimumStock int64
	Active       bool
}

// NewProductRevision toma la instantánea de p.
func NewProductRevision(p *Product, revType, username, txID string, at time.Time) *ProductRevision {
	return &ProductRevision{
		TransactionID: txID,
		ProductID:     p.ID,
		RevType:       revType,
		Username:      username,
		RevisionDate:  at,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		Cost:          p.Cost,
		Profit:        p.Profit,
		Quantity:      p.Quantity,
		MinimumStock:  p.MinimumStock,
		Active:        p.Active,
	}
}
