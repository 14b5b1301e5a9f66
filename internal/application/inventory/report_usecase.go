package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// HistoryReportGenerator puerto para renderizar el historial de cantidad (p. ej. PDF).
type HistoryReportGenerator interface {
	GenerateHistoryPDF(ctx context.Context, product *entity.Product, history []dto.QuantityHistoryResponse) ([]byte, error)
}

// HistoryReportUseCase genera el reporte (kardex) con el historial completo de un producto.
type HistoryReportUseCase struct {
	productRepo repository.ProductRepository
	history     HistoryView
	generator   HistoryReportGenerator
}

// NewHistoryReportUseCase construye el caso de uso.
func NewHistoryReportUseCase(productRepo repository.ProductRepository, history HistoryView, generator HistoryReportGenerator) *HistoryReportUseCase {
	return &HistoryReportUseCase{productRepo: productRepo, history: history, generator: generator}
}

// Generate devuelve los bytes del reporte. Acepta productos inactivos: el historial se conserva.
func (uc *HistoryReportUseCase) Generate(ctx context.Context, productID int64) ([]byte, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	all, err := historyAll(ctx, uc.history, productID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateHistoryPDF(ctx, product, all)
}
