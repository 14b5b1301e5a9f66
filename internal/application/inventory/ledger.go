package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// SystemActor se registra cuando el llamador no aporta un actor.
const SystemActor = "SYSTEM"

// LedgerConfig opciones del Ledger.
type LedgerConfig struct {
	ZeroDelta ZeroDeltaPolicy
	Now       func() time.Time // nil = time.Now
	Logger    *logger.Logger   // nil = sin logs
}

// Ledger es el dueño de la cantidad actual de cada producto. Toda mutación corre en una
// transacción (TxRunner) que bloquea la fila del producto (GetForUpdate), valida, actualiza
// el producto y agrega StockMovement y ProductRevision; Commit o Rollback en bloque.
type Ledger struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	zeroDelta   ZeroDeltaPolicy
	now         func() time.Time
	log         *logger.Logger
}

// NewLedger construye el caso de uso. productRepo se usa solo para lecturas fuera de transacción.
func NewLedger(txRunner TxRunner, productRepo repository.ProductRepository, cfg LedgerConfig) *Ledger {
	l := &Ledger{
		txRunner:    txRunner,
		productRepo: productRepo,
		zeroDelta:   cfg.ZeroDelta,
		now:         cfg.Now,
		log:         cfg.Logger,
	}
	if l.zeroDelta == "" {
		l.zeroDelta = ZeroDeltaRecord
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.log == nil {
		l.log = logger.Nop()
	}
	return l
}

// Create crea el producto activo con su cantidad inicial y registra el movimiento CREATE.
func (l *Ledger) Create(ctx context.Context, fields entity.ProductFields, initialQuantity int64, actor string) (*entity.Product, error) {
	name := strings.TrimSpace(fields.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrValidation)
	case initialQuantity < 0 || fields.MinimumStock < 0:
		return nil, fmt.Errorf("%w: quantity y minimum_stock deben ser >= 0", domain.ErrValidation)
	case initialQuantity < fields.MinimumStock:
		return nil, fmt.Errorf("%w: la cantidad inicial es menor al stock mínimo", domain.ErrValidation)
	}
	actor = resolveActor(actor)
	now := l.now()
	txID := uuid.New().String()

	product := &entity.Product{
		Name:         name,
		Description:  fields.Description,
		Category:     fields.Category,
		Price:        fields.Price,
		Cost:         fields.Cost,
		Profit:       fields.ResolvedProfit(),
		Quantity:     initialQuantity,
		MinimumStock: fields.MinimumStock,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		revRepo repository.ProductRevisionRepository,
	) error {
		exists, err := productRepo.ExistsActiveByName(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateName
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			TransactionID:  txID,
			ProductID:      product.ID,
			Username:       actor,
			Kind:           entity.MovementKindCreate,
			Date:           now,
			QuantityChange: initialQuantity,
			ActualQuantity: initialQuantity,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		return revRepo.Create(ctx, entity.NewProductRevision(product, entity.RevisionTypeAdd, actor, txID, now))
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Int64("product_id", product.ID).
		Int64("quantity", product.Quantity).
		Str("actor", actor).
		Msg("producto creado")
	return product, nil
}

// GetByID obtiene un producto activo.
func (l *Ledger) GetByID(ctx context.Context, productID int64) (*entity.Product, error) {
	p, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Active {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ApplyDelta suma delta (con signo) a la cantidad del producto. Rechaza con
// *domain.MinimumStockError si la cantidad resultante queda bajo el stock mínimo.
func (l *Ledger) ApplyDelta(ctx context.Context, productID, delta int64, actor string) (*entity.Product, error) {
	if delta == 0 && l.zeroDelta == ZeroDeltaReject {
		return nil, domain.ErrZeroDelta
	}
	actor = resolveActor(actor)
	now := l.now()
	txID := uuid.New().String()

	var product *entity.Product
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		revRepo repository.ProductRevisionRepository,
	) error {
		p, err := lockActive(ctx, productRepo, productID)
		if err != nil {
			return err
		}
		next, err := inventory.CheckDelta(p.ID, p.Quantity, p.MinimumStock, delta)
		if err != nil {
			return err
		}
		product = p
		if delta == 0 && l.zeroDelta == ZeroDeltaSkip {
			return nil
		}
		p.Quantity = next
		p.UpdatedAt = now
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			TransactionID:  txID,
			ProductID:      p.ID,
			Username:       actor,
			Kind:           entity.MovementKindDelta,
			Date:           now,
			QuantityChange: delta,
			ActualQuantity: next,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		return revRepo.Create(ctx, entity.NewProductRevision(p, entity.RevisionTypeMod, actor, txID, now))
	})
	if err != nil {
		var msErr *domain.MinimumStockError
		if errors.As(err, &msErr) {
			l.log.Warn().
				Int64("product_id", msErr.ProductID).
				Int64("quantity", msErr.Quantity).
				Int64("delta", msErr.Delta).
				Int64("minimum_stock", msErr.MinimumStock).
				Str("actor", actor).
				Msg("delta rechazado por stock mínimo")
		}
		return nil, err
	}
	l.log.Info().
		Int64("product_id", product.ID).
		Int64("delta", delta).
		Int64("quantity", product.Quantity).
		Str("actor", actor).
		Msg("movimiento registrado")
	return product, nil
}

// ReplaceFields reemplaza los campos descriptivos y la cantidad de un producto activo.
// La cantidad se escribe sin pasar por el invariante de stock mínimo (ver replaceQuantityUngated).
func (l *Ledger) ReplaceFields(ctx context.Context, productID int64, fields entity.ProductFields, quantity int64, actor string) (*entity.Product, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrValidation)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity debe ser >= 0", domain.ErrValidation)
	}
	actor = resolveActor(actor)
	now := l.now()
	txID := uuid.New().String()

	var product *entity.Product
	var edit *entity.StockMovement
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		revRepo repository.ProductRevisionRepository,
	) error {
		p, err := lockActive(ctx, productRepo, productID)
		if err != nil {
			return err
		}
		if name != p.Name {
			exists, err := productRepo.ExistsActiveByName(ctx, name)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateName
			}
		}
		p.Name = name
		p.Description = fields.Description
		p.Category = fields.Category
		p.Price = fields.Price
		p.Cost = fields.Cost
		p.Profit = fields.ResolvedProfit()
		edit = replaceQuantityUngated(p, quantity, actor, txID, now)
		p.UpdatedAt = now
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		if edit != nil {
			if err := movRepo.Create(ctx, edit); err != nil {
				return err
			}
		}
		product = p
		return revRepo.Create(ctx, entity.NewProductRevision(p, entity.RevisionTypeMod, actor, txID, now))
	})
	if err != nil {
		return nil, err
	}
	if edit != nil {
		l.log.Info().
			Int64("product_id", product.ID).
			Int64("magnitude", edit.QuantityChange).
			Int64("quantity", product.Quantity).
			Str("actor", actor).
			Msg("cantidad editada sin validar stock mínimo")
	}
	return product, nil
}

// replaceQuantityUngated aplica la cantidad de una edición completa.
// A diferencia de ApplyDelta: no valida el stock mínimo y el movimiento registra la
// magnitud sin signo |nuevo - anterior|. Devuelve nil si la cantidad no cambia.
func replaceQuantityUngated(p *entity.Product, quantity int64, actor, txID string, now time.Time) *entity.StockMovement {
	previous := p.Quantity
	p.Quantity = quantity
	if previous == quantity {
		return nil
	}
	return &entity.StockMovement{
		TransactionID:  txID,
		ProductID:      p.ID,
		Username:       actor,
		Kind:           entity.MovementKindEdit,
		Date:           now,
		QuantityChange: inventory.EditMagnitude(previous, quantity),
		ActualQuantity: quantity,
	}
}

// Deactivate hace el borrado lógico (Active=false). No registra movimiento.
func (l *Ledger) Deactivate(ctx context.Context, productID int64, actor string) (*entity.Product, error) {
	actor = resolveActor(actor)
	now := l.now()
	txID := uuid.New().String()

	var product *entity.Product
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.StockMovementRepository,
		revRepo repository.ProductRevisionRepository,
	) error {
		p, err := lockActive(ctx, productRepo, productID)
		if err != nil {
			return err
		}
		p.Active = false
		p.UpdatedAt = now
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		product = p
		return revRepo.Create(ctx, entity.NewProductRevision(p, entity.RevisionTypeMod, actor, txID, now))
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Int64("product_id", product.ID).Str("actor", actor).Msg("producto desactivado")
	return product, nil
}

// lockActive bloquea la fila del producto; inexistente o inactivo es ErrNotFound.
func lockActive(ctx context.Context, productRepo repository.ProductRepository, productID int64) (*entity.Product, error) {
	p, err := productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Active {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func resolveActor(actor string) string {
	if a := strings.TrimSpace(actor); a != "" {
		return a
	}
	return SystemActor
}
