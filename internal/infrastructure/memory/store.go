// Package memory implementa los repositorios y el TxRunner en memoria (tests y desarrollo).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner                   = (*Store)(nil)
	_ repository.ProductRepository         = (*ProductRepo)(nil)
	_ repository.StockMovementRepository   = (*StockMovementRepo)(nil)
	_ repository.ProductRevisionRepository = (*ProductRevisionRepo)(nil)
)

// Store guarda productos, movimientos y revisiones. Run toma el lock de escritura durante
// toda la transacción, por lo que las mutaciones quedan serializadas.
type Store struct {
	mu    sync.RWMutex
	state state
}

type state struct {
	products  map[int64]entity.Product
	movements []entity.StockMovement
	revisions []entity.ProductRevision
	nextProd  int64
	nextMov   int64
	nextRev   int64
}

// New crea un store vacío.
func New() *Store {
	return &Store{state: state{products: make(map[int64]entity.Product)}}
}

func (st state) clone() state {
	products := make(map[int64]entity.Product, len(st.products))
	for id, p := range st.products {
		products[id] = p
	}
	st.products = products
	st.movements = append([]entity.StockMovement(nil), st.movements...)
	st.revisions = append([]entity.ProductRevision(nil), st.revisions...)
	return st
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{s: s} }

// Revisions repositorio de revisiones fuera de transacción.
func (s *Store) Revisions() *ProductRevisionRepo { return &ProductRevisionRepo{s: s} }

// Run ejecuta fn con repos atados a la transacción. Si fn falla se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	revRepo repository.ProductRevisionRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	err := fn(
		&ProductRepo{s: s, inTx: true},
		&StockMovementRepo{s: s, inTx: true},
		&ProductRevisionRepo{s: s, inTx: true},
	)
	if err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *Store) read(inTx bool, fn func()) {
	if !inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(inTx bool, fn func()) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct {
	s    *Store
	inTx bool
}

// Create asigna ID y persiste. Rechaza nombres duplicados entre productos activos.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	var err error
	r.s.write(r.inTx, func() {
		if product.Active && r.s.state.activeNameTaken(product.Name, 0) {
			err = domain.ErrDuplicateName
			return
		}
		r.s.state.nextProd++
		product.ID = r.s.state.nextProd
		r.s.state.products[product.ID] = *product
	})
	return err
}

// GetByID devuelve una copia del producto o nil.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	r.s.read(r.inTx, func() {
		if p, ok := r.s.state.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

// GetForUpdate igual a GetByID: el lock ya lo tiene Run.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// ExistsActiveByName indica si algún producto activo usa name.
func (r *ProductRepo) ExistsActiveByName(_ context.Context, name string) (bool, error) {
	var exists bool
	r.s.read(r.inTx, func() {
		exists = r.s.state.activeNameTaken(name, 0)
	})
	return exists, nil
}

// Update reemplaza el producto almacenado.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	var err error
	r.s.write(r.inTx, func() {
		if _, ok := r.s.state.products[product.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		if product.Active && r.s.state.activeNameTaken(product.Name, product.ID) {
			err = domain.ErrDuplicateName
			return
		}
		r.s.state.products[product.ID] = *product
	})
	return err
}

func (st state) activeNameTaken(name string, exceptID int64) bool {
	for id, p := range st.products {
		if id != exceptID && p.Active && p.Name == name {
			return true
		}
	}
	return false
}

// StockMovementRepo implementación en memoria del libro de movimientos.
type StockMovementRepo struct {
	s    *Store
	inTx bool
}

// Create agrega el movimiento y le asigna ID secuencial.
func (r *StockMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	r.s.write(r.inTx, func() {
		r.s.state.nextMov++
		movement.ID = r.s.state.nextMov
		r.s.state.movements = append(r.s.state.movements, *movement)
	})
	return nil
}

// ListByProduct ordena por fecha descendente con desempate por ID descendente.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.s.read(r.inTx, func() {
		for i := range r.s.state.movements {
			if r.s.state.movements[i].ProductID == productID {
				m := r.s.state.movements[i]
				list = append(list, &m)
			}
		}
	})
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
	return sliceWindow(list, limit, offset), nil
}

// CountByProduct cuenta los movimientos del producto.
func (r *StockMovementRepo) CountByProduct(_ context.Context, productID int64) (int64, error) {
	var n int64
	r.s.read(r.inTx, func() {
		for i := range r.s.state.movements {
			if r.s.state.movements[i].ProductID == productID {
				n++
			}
		}
	})
	return n, nil
}

// ProductRevisionRepo implementación en memoria del log de revisiones.
type ProductRevisionRepo struct {
	s    *Store
	inTx bool
}

// Create agrega la revisión con el siguiente número.
func (r *ProductRevisionRepo) Create(_ context.Context, revision *entity.ProductRevision) error {
	r.s.write(r.inTx, func() {
		r.s.state.nextRev++
		revision.Rev = r.s.state.nextRev
		r.s.state.revisions = append(r.s.state.revisions, *revision)
	})
	return nil
}

// ListByProduct devuelve las revisiones en orden de inserción (Rev ascendente).
func (r *ProductRevisionRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.ProductRevision, error) {
	var list []*entity.ProductRevision
	r.s.read(r.inTx, func() {
		for i := range r.s.state.revisions {
			if r.s.state.revisions[i].ProductID == productID {
				rev := r.s.state.revisions[i]
				list = append(list, &rev)
			}
		}
	})
	return list, nil
}

func sliceWindow(list []*entity.StockMovement, limit, offset int) []*entity.StockMovement {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
