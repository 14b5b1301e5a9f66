package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// stepClock avanza un segundo en cada llamada: timestamps distintos y crecientes.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	store  *memory.Store
	ledger *inventory.Ledger
}

func newFixture(t *testing.T, policy inventory.ZeroDeltaPolicy) *fixture {
	t.Helper()
	store := memory.New()
	ledger := inventory.NewLedger(store, store.Products(), inventory.LedgerConfig{
		ZeroDelta: policy,
		Now:       newStepClock().Now,
	})
	return &fixture{store: store, ledger: ledger}
}

func widget(name string, minimum int64) entity.ProductFields {
	return entity.ProductFields{
		Name:         name,
		Description:  "tornillo de acero",
		Category:     "FERRETERIA",
		Price:        decimal.NewFromInt(1200),
		Cost:         decimal.NewFromInt(800),
		MinimumStock: minimum,
	}
}

func (f *fixture) create(t *testing.T, name string, qty, minimum int64) *entity.Product {
	t.Helper()
	p, err := f.ledger.Create(context.Background(), widget(name, minimum), qty, "ana")
	require.NoError(t, err)
	return p
}

func (f *fixture) movements(t *testing.T, productID int64) []*entity.StockMovement {
	t.Helper()
	list, err := f.store.Movements().ListByProduct(context.Background(), productID, 1000, 0)
	require.NoError(t, err)
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_RegistraMovimientoInicial(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)

	p := f.create(t, "Tornillo 1/4", 10, 2)

	assert.True(t, p.Active)
	assert.Equal(t, int64(10), p.Quantity)
	assert.True(t, p.Profit.Equal(decimal.NewFromInt(400)), "profit se deriva como price - cost")

	movs := f.movements(t, p.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementKindCreate, movs[0].Kind)
	assert.Equal(t, int64(10), movs[0].QuantityChange)
	assert.Equal(t, int64(10), movs[0].ActualQuantity)
	assert.Equal(t, "ana", movs[0].Username)

	revs, err := f.store.Revisions().ListByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, entity.RevisionTypeAdd, revs[0].RevType)
	assert.Equal(t, movs[0].TransactionID, revs[0].TransactionID)
}

func TestCreate_ProfitInformadoNoSeValida(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	fields := widget("Tuerca", 0)
	profit := decimal.NewFromInt(99999)
	fields.Profit = &profit

	p, err := f.ledger.Create(context.Background(), fields, 1, "ana")

	require.NoError(t, err)
	assert.True(t, p.Profit.Equal(profit))
}

func TestCreate_NombreDuplicado(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	f.create(t, "Tornillo", 5, 0)

	_, err := f.ledger.Create(context.Background(), widget("Tornillo", 0), 3, "ana")

	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_NombreDeProductoInactivoSePuedeReusar(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	old := f.create(t, "Tornillo", 5, 0)
	_, err := f.ledger.Deactivate(context.Background(), old.ID, "ana")
	require.NoError(t, err)

	p, err := f.ledger.Create(context.Background(), widget("Tornillo", 0), 3, "ana")

	require.NoError(t, err)
	assert.NotEqual(t, old.ID, p.ID)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()

	_, err := f.ledger.Create(ctx, widget("  ", 0), 1, "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.ledger.Create(ctx, widget("Arandela", 0), -1, "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.ledger.Create(ctx, widget("Arandela", 5), 4, "ana")
	assert.ErrorIs(t, err, domain.ErrValidation, "la cantidad inicial no puede quedar bajo el mínimo")

	count, err := f.store.Movements().CountByProduct(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreate_ActorVacioEsSystem(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	p, err := f.ledger.Create(context.Background(), widget("Clavo", 0), 1, "")
	require.NoError(t, err)

	movs := f.movements(t, p.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, inventory.SystemActor, movs[0].Username)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyDelta
// ──────────────────────────────────────────────────────────────────────────────

// Ejemplo de referencia: cantidad 10, mínimo 2.
func TestApplyDelta_SecuenciaDeReferencia(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()
	p := f.create(t, "Tornillo", 10, 2)

	_, err := f.ledger.ApplyDelta(ctx, p.ID, -9, "luis")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	got, err := f.ledger.ApplyDelta(ctx, p.ID, -8, "luis")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Quantity)

	_, err = f.ledger.ApplyDelta(ctx, p.ID, -1, "luis")
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	got, err = f.ledger.ApplyDelta(ctx, p.ID, 5, "ana")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Quantity)

	movs := f.movements(t, p.ID)
	require.Len(t, movs, 3)
	assert.Equal(t, []int64{5, -8, 10}, []int64{movs[0].QuantityChange, movs[1].QuantityChange, movs[2].QuantityChange})
	assert.Equal(t, []int64{7, 2, 10}, []int64{movs[0].ActualQuantity, movs[1].ActualQuantity, movs[2].ActualQuantity})
}

func TestApplyDelta_RechazoSinCambios(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()
	p := f.create(t, "Tornillo", 10, 2)

	_, err := f.ledger.ApplyDelta(ctx, p.ID, -20, "luis")

	var msErr *domain.MinimumStockError
	require.True(t, errors.As(err, &msErr))
	assert.Equal(t, int64(10), msErr.Quantity)
	assert.Equal(t, int64(2), msErr.MinimumStock)

	stored, err := f.ledger.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stored.Quantity)
	assert.Len(t, f.movements(t, p.ID), 1)
}

func TestApplyDelta_SumaDeMovimientosIgualACantidad(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()
	p := f.create(t, "Tornillo", 10, 3)

	for _, d := range []int64{4, -6, -5, 2, -20, 7, -1, 0, -9} {
		_, _ = f.ledger.ApplyDelta(ctx, p.ID, d, "luis")

		stored, err := f.ledger.GetByID(ctx, p.ID)
		require.NoError(t, err)
		var sum int64
		for _, m := range f.movements(t, p.ID) {
			sum += m.QuantityChange
		}
		assert.Equal(t, stored.Quantity, sum, "tras delta %d", d)
		assert.GreaterOrEqual(t, stored.Quantity, stored.MinimumStock)
	}
}

func TestApplyDelta_ProductoInexistenteOInactivo(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()

	_, err := f.ledger.ApplyDelta(ctx, 404, 1, "luis")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p := f.create(t, "Tornillo", 10, 0)
	_, err = f.ledger.Deactivate(ctx, p.ID, "ana")
	require.NoError(t, err)

	_, err = f.ledger.ApplyDelta(ctx, p.ID, 1, "luis")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyDelta_PoliticasDeDeltaCero(t *testing.T) {
	ctx := context.Background()

	t.Run("record", func(t *testing.T) {
		f := newFixture(t, inventory.ZeroDeltaRecord)
		p := f.create(t, "Tornillo", 4, 0)
		got, err := f.ledger.ApplyDelta(ctx, p.ID, 0, "luis")
		require.NoError(t, err)
		assert.Equal(t, int64(4), got.Quantity)
		movs := f.movements(t, p.ID)
		require.Len(t, movs, 2)
		assert.Equal(t, int64(0), movs[0].QuantityChange)
	})

	t.Run("skip", func(t *testing.T) {
		f := newFixture(t, inventory.ZeroDeltaSkip)
		p := f.create(t, "Tornillo", 4, 0)
		got, err := f.ledger.ApplyDelta(ctx, p.ID, 0, "luis")
		require.NoError(t, err)
		assert.Equal(t, int64(4), got.Quantity)
		assert.Len(t, f.movements(t, p.ID), 1)
	})

	t.Run("reject", func(t *testing.T) {
		f := newFixture(t, inventory.ZeroDeltaReject)
		p := f.create(t, "Tornillo", 4, 0)
		_, err := f.ledger.ApplyDelta(ctx, p.ID, 0, "luis")
		assert.ErrorIs(t, err, domain.ErrZeroDelta)
		assert.Len(t, f.movements(t, p.ID), 1)
	})
}

// Deltas concurrentes no pueden pasar ambos la validación contra una cantidad obsoleta.
func TestApplyDelta_ConcurrenteRespetaMinimo(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()
	p := f.create(t, "Tornillo", 100, 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ledger.ApplyDelta(ctx, p.ID, -3, "worker"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stored, err := f.ledger.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, accepted, "solo caben 30 consumos de 3 entre 100 y 10")
	assert.Equal(t, int64(10), stored.Quantity)
	assert.Len(t, f.movements(t, p.ID), 31)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReplaceFields
// ──────────────────────────────────────────────────────────────────────────────

func TestReplaceFields_MagnitudSinSignoYSinValidarMinimo(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()
	p := f.create(t, "Tornillo", 10, 5)

	fields := widget("Tornillo galvanizado", 0)
	fields.Price = decimal.NewFromInt(1500)
	got, err := f.ledger.ReplaceFields(ctx, p.ID, fields, 1, "ana")

	require.NoError(t, err)
	assert.Equal(t, "Tornillo galvanizado", got.Name)
	assert.Equal(t, int64(1), got.Quantity, "la edición completa no valida el stock mínimo")
	assert.Equal(t, int64(5), got.MinimumStock, "el stock mínimo no se reemplaza")
	assert.True(t, got.Profit.Equal(decimal.NewFromInt(700)))

	movs := f.movements(t, p.ID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementKindEdit, movs[0].Kind)
	assert.Equal(t, int64(9), movs[0].QuantityChange, "magnitud sin signo")
	assert.Equal(t, int64(1), movs[0].ActualQuantity)
}

func TestReplaceFields_SinCambioDeCantidadNoRegistraMovimiento(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()
	p := f.create(t, "Tornillo", 10, 0)

	_, err := f.ledger.ReplaceFields(ctx, p.ID, widget("Tornillo", 0), 10, "ana")

	require.NoError(t, err)
	assert.Len(t, f.movements(t, p.ID), 1)
	revs, err := f.store.Revisions().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, revs, 2, "toda edición deja revisión")
}

func TestReplaceFields_Errores(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()
	a := f.create(t, "Tornillo", 10, 0)
	f.create(t, "Tuerca", 10, 0)

	_, err := f.ledger.ReplaceFields(ctx, 999, widget("X", 0), 1, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.ledger.ReplaceFields(ctx, a.ID, widget("Tuerca", 0), 1, "ana")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = f.ledger.ReplaceFields(ctx, a.ID, widget("Tornillo", 0), -1, "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.ledger.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tornillo", stored.Name)
	assert.Equal(t, int64(10), stored.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Deactivate
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivate(t *testing.T) {
	f := newFixture(t, inventory.ZeroDeltaRecord)
	ctx := context.Background()
	p := f.create(t, "Tornillo", 10, 0)

	got, err := f.ledger.Deactivate(ctx, p.ID, "ana")
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Len(t, f.movements(t, p.ID), 1, "desactivar no registra movimiento")

	_, err = f.ledger.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.ledger.Deactivate(ctx, p.ID, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound, "ya inactivo")

	_, err = f.ledger.Deactivate(ctx, 999, "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
