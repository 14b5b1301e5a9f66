package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// HistoryView responde el historial de cantidad de un producto, del más reciente al más antiguo.
type HistoryView interface {
	Page(ctx context.Context, productID int64, page, size int) (*dto.Page[dto.QuantityHistoryResponse], error)
}

// NewHistoryView construye la estrategia configurada.
func NewHistoryView(
	strategy HistoryStrategy,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	revRepo repository.ProductRevisionRepository,
) HistoryView {
	if strategy == HistoryFromSnapshots {
		return NewSnapshotHistory(productRepo, revRepo)
	}
	return NewLedgerHistory(productRepo, movRepo)
}

// LedgerHistory lee directamente los StockMovement del Ledger con offset/limit en la consulta.
type LedgerHistory struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewLedgerHistory construye la estrategia respaldada por el libro de movimientos.
func NewLedgerHistory(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *LedgerHistory {
	return &LedgerHistory{productRepo: productRepo, movRepo: movRepo}
}

// Page devuelve la página solicitada del historial.
func (h *LedgerHistory) Page(ctx context.Context, productID int64, page, size int) (*dto.Page[dto.QuantityHistoryResponse], error) {
	if err := dto.ValidatePage(page, size); err != nil {
		return nil, err
	}
	if err := ensureExists(ctx, h.productRepo, productID); err != nil {
		return nil, err
	}
	total, err := h.movRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	// Ventana fuera de rango: página vacía sin consultar (y sin desbordar el offset).
	if int64(page)*int64(size) >= total {
		return dto.NewPage([]dto.QuantityHistoryResponse{}, page, size, total), nil
	}
	movements, err := h.movRepo.ListByProduct(ctx, productID, size, page*size)
	if err != nil {
		return nil, err
	}
	content := make([]dto.QuantityHistoryResponse, 0, len(movements))
	for _, m := range movements {
		content = append(content, dto.ToQuantityHistoryResponse(inventory.MovementHistory(m)))
	}
	return dto.NewPage(content, page, size, total), nil
}

// SnapshotHistory reconstruye el historial comparando revisiones consecutivas del producto.
// Carga todas las revisiones y pagina en memoria: el costo está acotado por el número de revisiones.
type SnapshotHistory struct {
	productRepo repository.ProductRepository
	revRepo     repository.ProductRevisionRepository
}

// NewSnapshotHistory construye la estrategia por instantáneas.
func NewSnapshotHistory(productRepo repository.ProductRepository, revRepo repository.ProductRevisionRepository) *SnapshotHistory {
	return &SnapshotHistory{productRepo: productRepo, revRepo: revRepo}
}

// Page devuelve la página solicitada del historial derivado.
func (h *SnapshotHistory) Page(ctx context.Context, productID int64, page, size int) (*dto.Page[dto.QuantityHistoryResponse], error) {
	if err := dto.ValidatePage(page, size); err != nil {
		return nil, err
	}
	if err := ensureExists(ctx, h.productRepo, productID); err != nil {
		return nil, err
	}
	revisions, err := h.revRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	derived := inventory.DeriveQuantityHistory(revisions)
	inventory.Reverse(derived)
	window := inventory.Window(derived, page, size)
	return dto.NewPage(dto.ToQuantityHistoryResponses(window), page, size, int64(len(derived))), nil
}

// ensureExists exige que el producto haya existido; los inactivos conservan su historial.
func ensureExists(ctx context.Context, productRepo repository.ProductRepository, productID int64) error {
	p, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

var (
	_ HistoryView = (*LedgerHistory)(nil)
	_ HistoryView = (*SnapshotHistory)(nil)
)

// historyAll recorre todas las páginas de view y devuelve el historial completo.
func historyAll(ctx context.Context, view HistoryView, productID int64) ([]dto.QuantityHistoryResponse, error) {
	var all []dto.QuantityHistoryResponse
	for page := 0; ; page++ {
		p, err := view.Page(ctx, productID, page, dto.MaxPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Content...)
		if p.Last {
			return all, nil
		}
	}
}
