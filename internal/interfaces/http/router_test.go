package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/auth"
	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/receiving"
	"github.com/jhoicas/suplementos-api/internal/application/reports"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/application/transfers"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/cache"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/export"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/suplementos-api/internal/interfaces/http"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

type testAPI struct {
	app   *fiber.App
	store *memory.Store
	auth  *auth.AuthUseCase
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	st := memory.New()
	repos := st.Repos()
	ctx := context.Background()
	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "s1", Code: "CTR", Name: "Centro", IsActive: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p1", SKU: "WHEY-1", Name: "Whey", SellingPrice: decimal.NewFromInt(10), ReorderPoint: 5, IsActive: true,
	}))

	engine := inventory.NewEngine(st, repos.Batches)
	authUC := auth.NewAuthUseCase(st.Users(), repos.Stores, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	reportUC := reports.NewReportUseCase(repos.Products, repos.Batches, repos.Sales, repos.GRNs, cache.Noop{}, time.Minute, 30)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(st.Users()),
		ProductUC:     usecase.NewProductUseCase(repos.Products, repos.Batches),
		FlavorUC:      usecase.NewFlavorUseCase(repos.Flavors, repos.Products),
		StoreUC:       usecase.NewStoreUseCase(repos.Stores),
		SupplierUC:    usecase.NewSupplierUseCase(repos.Suppliers),
		BatchUC:       inventory.NewBatchUseCase(st, engine, repos.Batches, repos.Ledger, 30),
		Engine:        engine,
		Replenishment: inventory.NewReplenishmentUseCase(repos.Products, repos.Batches),
		GRNUC:         receiving.NewGRNUseCase(st, engine, repos.GRNs),
		SaleUC:        sales.NewSaleUseCase(st, engine, repos.Sales),
		ReceiptUC:     sales.NewReceiptUseCase(repos.Sales, repos.Stores, repos.Products, pdf.NewMarotoPDFGenerator()),
		TransferUC:    transfers.NewTransferUseCase(st, engine, repos.Transfers),
		ReportUC:      reportUC,
		ExportUC:      reports.NewExportUseCase(repos.Products, repos.Stores, repos.Batches, export.NewExcelExporter()),
		JWTSecret:     testJWTSecret,
	})
	return &testAPI{app: app, store: st, auth: authUC}
}

func (a *testAPI) call(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a *testAPI) addBatch(t *testing.T, batchNumber string, qty int, cost, received string) dto.BatchResponse {
	t.Helper()
	resp := a.call(t, http.MethodPost, "/api/batches", tokenForRole(t, "admin"), map[string]any{
		"product_id":    "p1",
		"store_id":      "s1",
		"batch_number":  batchNumber,
		"quantity":      qty,
		"unit_cost":     cost,
		"date_received": received,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[dto.BatchResponse](t, resp)
}

func saleBody(qty int) map[string]any {
	return map[string]any{
		"store_id": "s1",
		"items":    []map[string]any{{"product_id": "p1", "quantity": qty, "unit_price": "10"}},
	}
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

func TestLogin_AdminInicial(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.auth.EnsureAdmin(context.Background(), "admin", "admin@tienda.co", "secreto123"))

	resp := api.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.User.Role)

	me := api.call(t, http.MethodGet, "/api/auth/me", "Bearer "+out.Token, nil)
	assert.Equal(t, http.StatusOK, me.StatusCode)
}

func TestLogin_PasswordErrada(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.auth.EnsureAdmin(context.Background(), "admin", "admin@tienda.co", "secreto123"))

	resp := api.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_CuerpoIncompleto(t *testing.T) {
	api := newTestAPI(t)
	resp := api.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
}

// ─── Catálogo y roles ─────────────────────────────────────────────────────────

func TestProducts_StaffNoPuedeCrear(t *testing.T) {
	api := newTestAPI(t)
	resp := api.call(t, http.MethodPost, "/api/products", tokenForRole(t, "staff"), dto.CreateProductRequest{SKU: "X", Name: "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	list := api.call(t, http.MethodGet, "/api/products", tokenForRole(t, "staff"), nil)
	assert.Equal(t, http.StatusOK, list.StatusCode)
}

func TestProducts_PaginacionNormalizada(t *testing.T) {
	api := newTestAPI(t)
	tests := []struct {
		query string
		want  dto.PageResponse
	}{
		{query: "", want: dto.PageResponse{Limit: 20, Offset: 0}},
		{query: "?limit=500&offset=-3", want: dto.PageResponse{Limit: 100, Offset: 0}},
		{query: "?limit=5&offset=10", want: dto.PageResponse{Limit: 5, Offset: 10}},
		{query: "?limit=abc", want: dto.PageResponse{Limit: 20, Offset: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := api.call(t, http.MethodGet, "/api/products"+tt.query, tokenForRole(t, "staff"), nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			out := decodeBody[dto.ProductListResponse](t, resp)
			assert.Equal(t, tt.want, out.Page)
		})
	}
}

func TestProducts_SKUDuplicado(t *testing.T) {
	api := newTestAPI(t)
	resp := api.call(t, http.MethodPost, "/api/products", tokenForRole(t, "admin"), dto.CreateProductRequest{SKU: "whey-1", Name: "Otra"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "CONFLICT", body.Code)
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	api := newTestAPI(t)
	resp := api.call(t, http.MethodGet, "/api/batches", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ─── Ventas ───────────────────────────────────────────────────────────────────

func TestSale_SinStock_Retorna409(t *testing.T) {
	api := newTestAPI(t)
	resp := api.call(t, http.MethodPost, "/api/sales", tokenForRole(t, "staff"), saleBody(1))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestSale_SinLineas_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp := api.call(t, http.MethodPost, "/api/sales", tokenForRole(t, "staff"), map[string]any{"store_id": "s1", "items": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSale_FIFOYAnulacion(t *testing.T) {
	api := newTestAPI(t)
	older := api.addBatch(t, "L-1", 3, "4", "2024-01-01")
	newer := api.addBatch(t, "L-2", 5, "6", "2024-02-01")

	resp := api.call(t, http.MethodPost, "/api/sales", tokenForRole(t, "staff"), saleBody(4))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decodeBody[dto.SaleResponse](t, resp)
	assert.True(t, decimal.NewFromInt(40).Equal(sale.TotalAmount), sale.TotalAmount.String())
	assert.Equal(t, "paid", sale.PaymentStatus)

	b1 := decodeBody[dto.BatchResponse](t, api.call(t, http.MethodGet, "/api/batches/"+older.ID, tokenForRole(t, "staff"), nil))
	b2 := decodeBody[dto.BatchResponse](t, api.call(t, http.MethodGet, "/api/batches/"+newer.ID, tokenForRole(t, "staff"), nil))
	assert.Equal(t, 0, b1.Quantity)
	assert.Equal(t, 4, b2.Quantity)

	ledger := decodeBody[dto.LedgerListResponse](t, api.call(t, http.MethodGet,
		"/api/inventory/ledger?kind=sale&reference="+sale.InvoiceNumber, tokenForRole(t, "staff"), nil))
	assert.Len(t, ledger.Items, 2)

	// anular es solo admin
	denied := api.call(t, http.MethodPost, "/api/sales/"+sale.ID+"/void", tokenForRole(t, "staff"), nil)
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)

	voided := api.call(t, http.MethodPost, "/api/sales/"+sale.ID+"/void", tokenForRole(t, "admin"), nil)
	require.Equal(t, http.StatusOK, voided.StatusCode)
	assert.Equal(t, "voided", decodeBody[dto.SaleResponse](t, voided).PaymentStatus)

	again := api.call(t, http.MethodPost, "/api/sales/"+sale.ID+"/void", tokenForRole(t, "admin"), nil)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
	assert.Equal(t, "ALREADY_VOIDED", decodeBody[dto.ErrorResponse](t, again).Code)

	// sin lote explícito la devolución va al lote recibido más recientemente
	b1 = decodeBody[dto.BatchResponse](t, api.call(t, http.MethodGet, "/api/batches/"+older.ID, tokenForRole(t, "staff"), nil))
	b2 = decodeBody[dto.BatchResponse](t, api.call(t, http.MethodGet, "/api/batches/"+newer.ID, tokenForRole(t, "staff"), nil))
	assert.Equal(t, 0, b1.Quantity)
	assert.Equal(t, 8, b2.Quantity)
}

func TestSale_NoExiste(t *testing.T) {
	api := newTestAPI(t)
	resp := api.call(t, http.MethodGet, "/api/sales/no-existe", tokenForRole(t, "staff"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSale_Recibo(t *testing.T) {
	api := newTestAPI(t)
	api.addBatch(t, "L-1", 3, "4", "2024-01-01")
	sale := decodeBody[dto.SaleResponse](t, api.call(t, http.MethodPost, "/api/sales", tokenForRole(t, "staff"), saleBody(1)))

	resp := api.call(t, http.MethodGet, "/api/sales/"+sale.ID+"/receipt", tokenForRole(t, "staff"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), sale.InvoiceNumber)
}

// ─── Inventario ───────────────────────────────────────────────────────────────

func TestInventory_AjusteYCostoPromedio(t *testing.T) {
	api := newTestAPI(t)
	api.addBatch(t, "L-1", 2, "4", "2024-01-01")
	b := api.addBatch(t, "L-2", 2, "8", "2024-02-01")

	avg := decodeBody[dto.AverageCostResponse](t, api.call(t, http.MethodGet,
		"/api/inventory/average-cost?product_id=p1&store_id=s1", tokenForRole(t, "staff"), nil))
	assert.True(t, decimal.NewFromInt(6).Equal(avg.AverageUnitCost), avg.AverageUnitCost.String())

	resp := api.call(t, http.MethodPost, "/api/batches/"+b.ID+"/adjust", tokenForRole(t, "admin"), dto.AdjustBatchRequest{Quantity: 7, Notes: "conteo"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, decodeBody[dto.BatchResponse](t, resp).Quantity)

	neg := api.call(t, http.MethodPost, "/api/batches/"+b.ID+"/adjust", tokenForRole(t, "admin"), map[string]any{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, neg.StatusCode)
}

func TestInventory_LedgerKindInvalido(t *testing.T) {
	api := newTestAPI(t)
	resp := api.call(t, http.MethodGet, "/api/inventory/ledger?kind=robo", tokenForRole(t, "staff"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInventory_Reposicion(t *testing.T) {
	api := newTestAPI(t)
	api.addBatch(t, "L-1", 2, "4", "2024-01-01")

	resp := api.call(t, http.MethodGet, "/api/inventory/replenishment-list?store_id=s1", tokenForRole(t, "staff"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody[struct {
		Total          int                              `json:"total"`
		Replenishments []dto.ReplenishmentSuggestionDTO `json:"replenishments"`
	}](t, resp)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, 3, out.Replenishments[0].Deficit)
}

func TestInventory_ExportExcel(t *testing.T) {
	api := newTestAPI(t)
	api.addBatch(t, "L-1", 2, "4", "2024-01-01")

	resp := api.call(t, http.MethodGet, "/api/inventory/export?store_id=s1", tokenForRole(t, "staff"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventario_CTR_")
}

func TestReports_ResumenInventario(t *testing.T) {
	api := newTestAPI(t)
	api.addBatch(t, "L-1", 2, "4", "2024-01-01")

	s := decodeBody[dto.InventorySummaryDTO](t, api.call(t, http.MethodGet,
		"/api/reports/inventory-summary?store_id=s1", tokenForRole(t, "staff"), nil))
	assert.Equal(t, 2, s.UnitsOnHand)
	assert.True(t, decimal.NewFromInt(8).Equal(s.StockValue))
}
