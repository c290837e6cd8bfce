package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"spice-storefront/internal/client"
	"spice-storefront/internal/config"
	"spice-storefront/internal/dto"
	"spice-storefront/internal/model"
	"spice-storefront/internal/repository"
	"spice-storefront/internal/service"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the console against a backend that knows one customer
// with an empty cart.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	backend := echo.New()
	backend.POST("/api/auth/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, model.AuthToken{
			Token: "token-abc",
			User:  model.User{ID: "user-1", Email: "asha@example.com", Role: model.RoleCustomer},
		})
	})
	backend.GET("/api/cart/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, model.Cart{Items: []model.CartItem{}})
	})
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	db, err := client.InitStorageClient(&config.Storage{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	states, err := service.LoadStateCatalogue()
	require.NoError(t, err)

	var session service.SessionService
	api := client.NewBackendClient(
		&config.Backend{BaseURL: backendSrv.URL, Timeout: 5 * time.Second},
		client.TokenFunc(func() string { return session.Token() }),
	)
	bus := service.NewBus()
	session = service.NewSessionService(api, repository.NewStorageRepository(db), bus)
	api.OnSessionExpired(session.Expire)

	cart := service.NewCartService(api, session, bus)
	pricing := service.NewPricingService(api, cart, bus)
	addresses := service.NewAddressService(api, session, bus)

	srv := NewServer(Services{
		Session:   session,
		Catalog:   service.NewCatalogService(api),
		Addresses: addresses,
		Cart:      cart,
		Pricing:   pricing,
		Checkout:  service.NewCheckoutService(api, api, session, cart, pricing, addresses),
		Orders:    service.NewOrderService(api, session),
		Admin:     service.NewAdminService(api, api, client.NewCloudinaryClient(&config.Cloudinary{}), states),
	})
	return srv.Handler()
}

func call(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	rec := call(e, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnonymousShopper(t *testing.T) {
	e := newTestServer(t)

	rec := call(e, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cart dto.CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Count)

	rec = call(e, http.MethodPost, "/api/cart/items", `{"variant_id":"v1","product_id":"p1","quantity":1}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.LoginPath, decodeError(t, rec).Redirect)

	rec = call(e, http.MethodGet, "/api/admin/products", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCustomerCannotReachAdmin(t *testing.T) {
	e := newTestServer(t)

	rec := call(e, http.MethodPost, "/api/auth/login", `{"email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, http.MethodGet, "/api/admin/products", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEmptyCouponIsInlineError(t *testing.T) {
	e := newTestServer(t)
	require.Equal(t, http.StatusOK, call(e, http.MethodPost, "/api/auth/login", `{"email":"asha@example.com","password":"secret1"}`).Code)

	rec := call(e, http.MethodPost, "/api/pricing/coupon", `{"code":"   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrEmptyCouponCode.Error(), decodeError(t, rec).Message)
}

func TestBadRequestBody(t *testing.T) {
	e := newTestServer(t)

	rec := call(e, http.MethodPost, "/api/auth/login", `{"email":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid req body", decodeError(t, rec).Message)
}

func TestActiveCouponsDegradeToEmptyList(t *testing.T) {
	e := newTestServer(t)

	rec := call(e, http.MethodGet, "/api/coupons/active", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
