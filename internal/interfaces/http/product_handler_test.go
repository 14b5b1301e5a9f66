package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stubReport struct{}

func (stubReport) GenerateHistoryPDF(_ context.Context, p *entity.Product, h []dto.QuantityHistoryResponse) ([]byte, error) {
	return []byte(fmt.Sprintf("%%PDF %s %d", p.Name, len(h))), nil
}

type testAPI struct {
	app   *fiber.App
	store *memory.Store
	auth  string
}

func buildTestApp(t *testing.T) *testAPI {
	t.Helper()
	store := memory.New()
	ledger := inventory.NewLedger(store, store.Products(), inventory.LedgerConfig{})
	history := inventory.NewHistoryView(inventory.HistoryFromLedger, store.Products(), store.Movements(), store.Revisions())
	report := inventory.NewHistoryReportUseCase(store.Products(), history, stubReport{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    ledger,
		History:   history,
		Report:    report,
		JWTSecret: testJWTSecret,
	})
	return &testAPI{app: app, store: store, auth: bearer(t, testUsername)}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", a.auth)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a *testAPI) createProduct(t *testing.T, name string, qty, minimum int64) dto.ProductResponse {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": name, "category": "FERRETERIA", "price": "1200", "cost": "800",
		"quantity": qty, "minimum_stock": minimum,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CrearYObtener(t *testing.T) {
	api := buildTestApp(t)
	created := api.createProduct(t, "Tornillo", 10, 2)

	assert.Equal(t, int64(10), created.Quantity)
	assert.Equal(t, "400", created.Profit.String())

	resp := api.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Tornillo", got.Name)

	movs, err := api.store.Movements().ListByProduct(context.Background(), created.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, testUsername, movs[0].Username, "el actor sale del token")
}

func TestProducts_Errores(t *testing.T) {
	api := buildTestApp(t)
	api.createProduct(t, "Tornillo", 10, 2)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"duplicado", http.MethodPost, "/api/products", map[string]any{"name": "Tornillo", "quantity": 1}, http.StatusConflict, "DUPLICATE_NAME"},
		{"sin nombre", http.MethodPost, "/api/products", map[string]any{"quantity": 1}, http.StatusBadRequest, "VALIDATION"},
		{"id inválido", http.MethodGet, "/api/products/abc", nil, http.StatusBadRequest, "INVALID_ID"},
		{"inexistente", http.MethodGet, "/api/products/999", nil, http.StatusNotFound, "NOT_FOUND"},
		{"delta faltante", http.MethodPut, "/api/products/1/quantity", nil, http.StatusBadRequest, "VALIDATION"},
		{"delta no numérico", http.MethodPut, "/api/products/1/quantity?delta=x", nil, http.StatusBadRequest, "VALIDATION"},
		{"stock mínimo", http.MethodPut, "/api/products/1/quantity?delta=-9", nil, http.StatusBadRequest, "MINIMUM_STOCK_EXCEEDED"},
		{"página negativa", http.MethodGet, "/api/products/1/history?page=-1", nil, http.StatusBadRequest, "INVALID_PAGE"},
		{"tamaño excesivo", http.MethodGet, "/api/products/1/history?size=500", nil, http.StatusBadRequest, "INVALID_PAGE"},
		{"historial inexistente", http.MethodGet, "/api/products/999/history", nil, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := api.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestProducts_SinToken_Retorna401(t *testing.T) {
	api := buildTestApp(t)
	api.auth = ""

	resp := api.do(t, http.MethodGet, "/api/products/1", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProducts_ReemplazarYDesactivar(t *testing.T) {
	api := buildTestApp(t)
	p := api.createProduct(t, "Tornillo", 10, 5)
	path := fmt.Sprintf("/api/products/%d", p.ID)

	resp := api.do(t, http.MethodPut, path, map[string]any{"name": "Tornillo 3/8", "price": "1500", "cost": "900", "quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Tornillo 3/8", got.Name)
	assert.Equal(t, int64(1), got.Quantity)
	assert.Equal(t, int64(5), got.MinimumStock)

	resp = api.do(t, http.MethodDelete, path, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodGet, path, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// El historial sobrevive a la desactivación.
	resp = api.do(t, http.MethodGet, path+"/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.Page[dto.QuantityHistoryResponse]](t, resp)
	assert.Len(t, page.Content, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cantidades e historial
// ──────────────────────────────────────────────────────────────────────────────

func TestQuantity_SecuenciaEHistorial(t *testing.T) {
	api := buildTestApp(t)
	p := api.createProduct(t, "Tornillo", 10, 2)
	base := fmt.Sprintf("/api/products/%d", p.ID)

	for _, step := range []struct {
		delta  string
		status int
	}{
		{"-9", http.StatusBadRequest},
		{"-8", http.StatusOK},
		{"-1", http.StatusBadRequest},
		{"5", http.StatusOK},
	} {
		resp := api.do(t, http.MethodPut, base+"/quantity?delta="+step.delta, nil)
		resp.Body.Close()
		assert.Equal(t, step.status, resp.StatusCode, "delta %s", step.delta)
	}

	resp := api.do(t, http.MethodGet, base+"/history?page=0&size=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.Page[dto.QuantityHistoryResponse]](t, resp)

	require.Len(t, page.Content, 3)
	assert.Equal(t, int64(7), page.Content[0].Quantity)
	assert.Equal(t, int64(2), page.Content[1].Quantity)
	assert.Equal(t, int64(10), page.Content[2].Quantity)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.True(t, page.Last)

	resp = api.do(t, http.MethodGet, base+"/history?page=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	empty := decode[dto.Page[dto.QuantityHistoryResponse]](t, resp)
	assert.Empty(t, empty.Content)
	assert.True(t, empty.Last)
}

func TestHistoryReport_DevuelvePDF(t *testing.T) {
	api := buildTestApp(t)
	p := api.createProduct(t, "Tornillo", 10, 0)

	resp := api.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d/history/report", p.ID), nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF Tornillo 1", string(body))
}
