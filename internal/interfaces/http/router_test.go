package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vitrine-api/internal/application/dto"
	appledger "github.com/jhoicas/vitrine-api/internal/application/ledger"
	"github.com/jhoicas/vitrine-api/internal/application/sales"
	"github.com/jhoicas/vitrine-api/internal/application/usecase"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/ledger"
	"github.com/jhoicas/vitrine-api/internal/infrastructure/memory"
	"github.com/jhoicas/vitrine-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/vitrine-api/internal/interfaces/http"
	"github.com/jhoicas/vitrine-api/pkg/money"
)

type apiFixture struct {
	app     *fiber.App
	catalog *memory.Catalog
	store   *memory.Store
}

// newAPI arma la API completa sobre infraestructura en memoria.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	catalog := memory.NewSeededCatalog()
	store := memory.NewStore()
	l := ledger.New(ledger.WithRecorder(func(ctx context.Context, e entity.LedgerEntry) error {
		_, err := store.RecordLedgerEntry(ctx, &e)
		return err
	}))
	coord := sales.NewCoordinator(l, store, catalog, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC: usecase.NewProductUseCase(catalog),
		SalesUC:   sales.NewSalesUseCase(catalog, store, coord, pdf.NewMarotoPDFGenerator("Vitrine Teste"), nil),
		LedgerUC:  appledger.NewLedgerUseCase(l, nil),
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})
	return &apiFixture{app: app, catalog: catalog, store: store}
}

func (f *apiFixture) call(t *testing.T, role, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decodeErr(t *testing.T, b []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(b, &e), string(b))
	return e
}

func TestRouter_SinTokenRetorna401(t *testing.T) {
	f := newAPI(t)
	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Productos(t *testing.T) {
	f := newAPI(t)

	resp, body := f.call(t, "vendedor", http.MethodGet, "/api/products?limit=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var list dto.ProductListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 3)
	assert.Equal(t, 3, list.Page.Limit)

	resp, body = f.call(t, "vendedor", http.MethodGet, "/api/products/SKU1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))
	assert.True(t, p.UnitPrice.Equal(decimal.RequireFromString("8.50")))

	resp, body = f.call(t, "vendedor", http.MethodGet, "/api/products/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeErr(t, body).Code)
}

func TestRouter_CarritoYVentaInmediata(t *testing.T) {
	f := newAPI(t)

	resp, body := f.call(t, "vendedor", http.MethodPost, "/api/carts", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c dto.CartResponse
	require.NoError(t, json.Unmarshal(body, &c))
	base := "/api/carts/" + c.ID

	resp, body = f.call(t, "vendedor", http.MethodPost, base+"/checkout", dto.CheckoutRequest{Mode: "immediate"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "EMPTY_CART", decodeErr(t, body).Code)

	resp, body = f.call(t, "vendedor", http.MethodPost, base+"/items", dto.AddItemRequest{ProductID: "SKU1", Quantity: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &c))
	assert.True(t, c.Totals.TotalValue.Equal(decimal.RequireFromString("17.00")))

	resp, body = f.call(t, "vendedor", http.MethodPost, base+"/items", dto.AddItemRequest{ProductID: "SKU1", Quantity: 4})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "OUT_OF_STOCK", decodeErr(t, body).Code)

	resp, body = f.call(t, "vendedor", http.MethodPost, base+"/items", map[string]any{"product_id": "SKU1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeErr(t, body).Message, "quantity")

	resp, body = f.call(t, "vendedor", http.MethodPut, base+"/items/SKU1", dto.SetQuantityRequest{Quantity: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = f.call(t, "vendedor", http.MethodPost, base+"/checkout", dto.CheckoutRequest{Mode: "fiado"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeErr(t, body).Code)

	resp, body = f.call(t, "vendedor", http.MethodPost, base+"/checkout", dto.CheckoutRequest{Mode: "immediate"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.CheckoutResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.SaleID)
	assert.True(t, out.Receipt.Totals.TotalValue.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, 1, f.store.Sales())

	onHand, err := f.catalog.GetOnHand(context.Background(), "SKU1")
	require.NoError(t, err)
	assert.Equal(t, 2, onHand)

	resp, body = f.call(t, "vendedor", http.MethodGet, "/api/sales/"+out.SaleID+"/receipt.pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "recibo-"+out.SaleID+".pdf")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, _ = f.call(t, "vendedor", http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = f.call(t, "vendedor", http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_FiadoYLiquidacion(t *testing.T) {
	f := newAPI(t)

	_, body := f.call(t, "vendedor", http.MethodPost, "/api/carts", nil)
	var c dto.CartResponse
	require.NoError(t, json.Unmarshal(body, &c))
	base := "/api/carts/" + c.ID
	resp, _ := f.call(t, "vendedor", http.MethodPost, base+"/items", dto.AddItemRequest{ProductID: "SKU2", Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = f.call(t, "vendedor", http.MethodPost, base+"/checkout", dto.CheckoutRequest{Mode: "on_credit", Counterparty: "Dona Maria"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.CheckoutResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotNil(t, out.Entry)
	assert.Empty(t, out.SaleID)
	assert.Equal(t, "entrada", out.Entry.Kind)
	assert.Equal(t, "pending", out.Entry.Status)
	entryURL := "/api/ledger/entries/" + out.Entry.ID

	resp, body = f.call(t, "vendedor", http.MethodPost, entryURL+"/settle", dto.SettleLedgerEntryRequest{PaymentMethod: "pix"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeErr(t, body).Code)

	resp, body = f.call(t, "gerente", http.MethodPost, entryURL+"/settle", dto.SettleLedgerEntryRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_PAYMENT_METHOD", decodeErr(t, body).Code)

	resp, body = f.call(t, "gerente", http.MethodPost, entryURL+"/settle", dto.SettleLedgerEntryRequest{PaymentMethod: "pix"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var settled dto.LedgerEntryResponse
	require.NoError(t, json.Unmarshal(body, &settled))
	assert.Equal(t, "settled", settled.Status)
	assert.Equal(t, "pix", settled.PaymentMethod)
	require.NotNil(t, settled.PaidAt)

	resp, body = f.call(t, "admin", http.MethodPost, entryURL+"/settle", dto.SettleLedgerEntryRequest{PaymentMethod: "cash"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_SETTLED", decodeErr(t, body).Code)

	persisted, err := f.store.ListLedgerEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, entity.EntryStatusSettled, persisted[0].Status)

	resp, body = f.call(t, "admin", http.MethodPost, entryURL+"/reopen", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var reopened dto.LedgerEntryResponse
	require.NoError(t, json.Unmarshal(body, &reopened))
	assert.Equal(t, "pending", reopened.Status)
	assert.Nil(t, reopened.PaidAt)
}

func TestRouter_LedgerAltaListadoYResumen(t *testing.T) {
	f := newAPI(t)

	entries := []dto.CreateLedgerEntryRequest{
		{Title: "Aluguel", Amount: money.NewAmount(decimal.RequireFromString("1200.00")), Kind: "despesa", Category: "fixas", Recurrence: "mensal"},
		{Title: "Venda Ana", Amount: money.NewAmount(decimal.RequireFromString("300.00")), Kind: "entrada", Counterparty: "Ana Paula"},
	}
	for _, e := range entries {
		resp, body := f.call(t, "vendedor", http.MethodPost, "/api/ledger/entries", e)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body := f.call(t, "vendedor", http.MethodPost, "/api/ledger/entries",
		dto.CreateLedgerEntryRequest{Title: "Zero", Amount: money.NewAmount(decimal.Zero), Kind: "entrada"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ENTRY", decodeErr(t, body).Code)

	resp, body = f.call(t, "vendedor", http.MethodGet, "/api/ledger/entries?kind=despesa", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var list dto.LedgerEntryListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Aluguel", list.Items[0].Title)
	assert.Equal(t, "monthly", list.Items[0].Recurrence)

	resp, body = f.call(t, "vendedor", http.MethodGet, "/api/ledger/entries?counterparty=ana", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Total)

	resp, body = f.call(t, "vendedor", http.MethodGet, "/api/ledger/entries?status=talvez", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.True(t, strings.HasPrefix(decodeErr(t, body).Code, "VALIDATION"))

	resp, body = f.call(t, "vendedor", http.MethodGet, "/api/ledger/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var sum dto.LedgerSummaryResponse
	require.NoError(t, json.Unmarshal(body, &sum))
	assert.Equal(t, 2, sum.Count)
	assert.True(t, sum.PendingReceivable.Equal(decimal.RequireFromString("300")))
	assert.True(t, sum.PendingPayable.Equal(decimal.RequireFromString("1200")))
	assert.True(t, sum.Projected.Equal(decimal.RequireFromString("-900")))
}

func TestRouter_LedgerValorEnNotacionBrasileña(t *testing.T) {
	f := newAPI(t)

	resp, body := f.call(t, "vendedor", http.MethodPost, "/api/ledger/entries",
		map[string]any{"title": "Conta de luz", "amount": "1.200,50", "kind": "despesa"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var e dto.LedgerEntryResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("1200.50")), "got %s", e.Amount)

	resp, body = f.call(t, "vendedor", http.MethodPost, "/api/ledger/entries",
		map[string]any{"title": "Troco", "amount": "10,005", "kind": "entrada"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ENTRY", decodeErr(t, body).Code)

	resp, body = f.call(t, "vendedor", http.MethodPost, "/api/ledger/entries",
		map[string]any{"title": "Troco", "amount": "dez", "kind": "entrada"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeErr(t, body).Code)
}
