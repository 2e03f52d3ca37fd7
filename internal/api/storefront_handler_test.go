package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopease-service/internal/catalog"
	"shopease-service/internal/entity"
	"shopease-service/internal/payment"
	"shopease-service/internal/service"
)

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func newTestServer(t *testing.T) *testServer {
	store := catalog.NewStore([]entity.Product{
		{ID: 1, Name: "Product A", Description: "First", Price: decimal.NewFromInt(100), Stock: 5, Category: "Electronics"},
		{ID: 2, Name: "Product B", Description: "Second", Price: decimal.NewFromInt(50), Discount: 20, Stock: 5, Category: "Clothing"},
	})
	svc := service.NewStorefrontService(store, service.Options{
		Gateway:   payment.NewSimulatedGateway(0),
		JWTSecret: "test-secret",
	})

	e := echo.New()
	e.GET("/health", Health)
	NewStorefrontHandler(svc).Register(e)
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if s.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) open() {
	rec := s.do(http.MethodPost, "/sessions", "")
	require.Equal(s.t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string            `json:"token"`
		View  service.ViewModel `json:"view"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	assert.Equal(s.t, entity.ViewShop, resp.View.View)
	s.token = resp.Token
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) service.ViewModel {
	t.Helper()
	var vm service.ViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	return vm
}

const shippingBody = `{"first_name":"Jane","last_name":"Doe","email":"jane@example.com","address":"1 Main St","city":"Springfield","state":"IL","zip_code":"62704","phone":"5551234567"}`

const cardBody = `{"card_number":"4111 1111 1111 1111","card_holder":"Jane Doe","expiry_date":"12/35","cvv":"123"}`

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCategories(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/catalog/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["All","Electronics","Clothing"]`, rec.Body.String())
}

func TestSessionRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.token = "garbage"
	rec = s.do(http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClosedSessionIsUnauthorized(t *testing.T) {
	s := newTestServer(t)
	s.open()

	rec := s.do(http.MethodDelete, "/session", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFilterRoutes(t *testing.T) {
	s := newTestServer(t)
	s.open()

	rec := s.do(http.MethodPut, "/session/filter/query", `{"query":"nothing matches"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	vm := decodeView(t, rec)
	assert.True(t, vm.Shop.NoResults)
	assert.Equal(t, `Search: "nothing matches"`, vm.Shop.Title)

	rec = s.do(http.MethodDelete, "/session/filter", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeView(t, rec).Shop.ProductCount)

	rec = s.do(http.MethodPut, "/session/filter/category", `{"category":"Clothing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeView(t, rec).Shop.ProductCount)
}

func TestCartRoutes(t *testing.T) {
	s := newTestServer(t)
	s.open()

	rec := s.do(http.MethodPost, "/session/cart/items", `{"product_id":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeView(t, rec).CartCount)

	rec = s.do(http.MethodPut, "/session/cart/items/2", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decodeView(t, rec).CartCount)

	rec = s.do(http.MethodPost, "/session/overlay/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	vm := decodeView(t, rec)
	require.NotNil(t, vm.Cart)
	assert.Equal(t, "160.00", vm.Cart.Subtotal)

	rec = s.do(http.MethodDelete, "/session/cart/items/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeView(t, rec).CartCount)

	rec = s.do(http.MethodPost, "/session/cart/items", `{"product_id":42}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/session/cart/items/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutAndPaymentFlow(t *testing.T) {
	s := newTestServer(t)
	s.open()

	s.do(http.MethodPost, "/session/cart/items", `{"product_id":1}`)
	s.do(http.MethodPost, "/session/cart/items", `{"product_id":2}`)
	s.do(http.MethodPost, "/session/cart/items", `{"product_id":2}`)

	rec := s.do(http.MethodPost, "/session/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.ViewCheckout, decodeView(t, rec).View)

	rec = s.do(http.MethodPut, "/session/checkout/shipping", `{"method":"free"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/session/checkout/submit", `{"first_name":"Jane"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email"`)

	rec = s.do(http.MethodPost, "/session/checkout/submit", shippingBody)
	require.Equal(t, http.StatusOK, rec.Code)
	vm := decodeView(t, rec)
	require.NotNil(t, vm.Payment)
	assert.Equal(t, "198.00", vm.Payment.Summary.Total)
	assert.Equal(t, "Indonesia", vm.Payment.ShippingDetails.Country)

	rec = s.do(http.MethodPost, "/session/cart/items", `{"product_id":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPut, "/session/payment/method", `{"method":"crypto"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/session/payment", cardBody, "Idempotency-Key", "abc")
	require.Equal(t, http.StatusOK, rec.Code)
	vm = decodeView(t, rec)
	require.NotNil(t, vm.OrderComplete)
	assert.Regexp(t, `^ORD-\d{6}$`, vm.OrderComplete.OrderID)
	assert.Equal(t, 0, vm.CartCount)

	rec = s.do(http.MethodPost, "/session/payment", cardBody, "Idempotency-Key", "abc")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/session/back", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.ViewShop, decodeView(t, rec).View)
}

func TestFreeShippingRejectedForSmallCart(t *testing.T) {
	s := newTestServer(t)
	s.open()
	s.do(http.MethodPost, "/session/checkout", "")

	rec := s.do(http.MethodPut, "/session/checkout/shipping", `{"method":"free"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidTransition(t *testing.T) {
	s := newTestServer(t)
	s.open()

	rec := s.do(http.MethodPost, "/session/back", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/session/payment", cardBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t)
	s.open()

	rec := s.do(http.MethodPost, "/session/profile/login", "")
	require.Equal(t, http.StatusOK, rec.Code)
	vm := decodeView(t, rec)
	assert.True(t, vm.User.IsLoggedIn)
	assert.Equal(t, "John Doe", vm.User.Name)

	rec = s.do(http.MethodPatch, "/session/profile", `{"phone":"08123456789"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	s.do(http.MethodPost, "/session/overlay/profile", "")
	rec = s.do(http.MethodPut, "/session/profile/tab", `{"tab":"orders"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	vm = decodeView(t, rec)
	require.NotNil(t, vm.Profile)
	assert.Equal(t, entity.ProfileTabOrders, vm.Profile.Tab)
	assert.Equal(t, "08123456789", vm.Profile.Phone)
	assert.Equal(t, "John Doe", vm.Profile.Name)
	assert.Len(t, vm.Profile.Orders, 2)

	rec = s.do(http.MethodPut, "/session/profile/tab", `{"tab":"billing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/session/profile/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	vm = decodeView(t, rec)
	assert.False(t, vm.User.IsLoggedIn)
	assert.Equal(t, entity.OverlayNone, vm.Overlay)
}
