package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"spice-storefront/internal/config"
	"spice-storefront/internal/model"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, e *echo.Echo, token string) BackendClient {
	t.Helper()
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return NewBackendClient(
		&config.Backend{BaseURL: srv.URL + "/", Timeout: 5 * time.Second},
		TokenFunc(func() string { return token }),
	)
}

func TestSessionExpiresOnlyOnIdentityCheck(t *testing.T) {
	e := echo.New()
	unauthorized := func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
	}
	e.GET("/api/auth/me", unauthorized)
	e.GET("/api/cart/", unauthorized)

	c := newTestClient(t, e, "stale")
	expired := 0
	c.OnSessionExpired(func(context.Context) { expired++ })

	_, err := c.GetCart(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Zero(t, expired, "401 outside the identity check must not end the session")

	_, err = c.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, expired)
}

func TestRequestHeaders(t *testing.T) {
	e := echo.New()
	var got http.Header
	e.POST("/api/orders/initiate", func(c echo.Context) error {
		got = c.Request().Header.Clone()
		return c.JSON(http.StatusOK, model.InitiateOrderResponse{OrderID: "ord-1", CheckoutURL: "https://pay.example.com"})
	})

	c := newTestClient(t, e, "token-abc")
	res, err := c.InitiateOrder(context.Background(), model.InitiateOrderRequest{PaymentMethod: model.PaymentPrepaid}, "idem-1")
	require.NoError(t, err)

	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, "Bearer token-abc", got.Get("Authorization"))
	assert.Equal(t, "idem-1", got.Get("Idempotency-Key"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	_, err = uuid.Parse(got.Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestAnonymousRequestCarriesNoToken(t *testing.T) {
	e := echo.New()
	var auth string
	e.GET("/api/products", func(c echo.Context) error {
		auth = c.Request().Header.Get("Authorization")
		return c.JSON(http.StatusOK, []model.Product{})
	})

	c := newTestClient(t, e, "")
	_, err := c.ListProducts(context.Background(), model.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestErrorClassification(t *testing.T) {
	e := echo.New()
	e.POST("/api/checkout/preview", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Invalid coupon code"})
	})
	e.GET("/api/coupons/active", func(c echo.Context) error {
		return c.String(http.StatusServiceUnavailable, "")
	})

	c := newTestClient(t, e, "token-abc")

	_, err := c.Preview(context.Background(), model.PreviewRequest{})
	assert.True(t, IsBusiness(err))
	assert.False(t, IsTransient(err))
	assert.Equal(t, "Invalid coupon code", Detail(err, "fallback"))

	_, err = c.ActiveCoupons(context.Background())
	assert.True(t, IsTransient(err))
	assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), Detail(err, "fallback"))
}

func TestUnreachableBackendIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewBackendClient(&config.Backend{BaseURL: srv.URL, Timeout: time.Second}, nil)
	_, err := c.GetCart(context.Background())

	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
	assert.True(t, IsTransient(err))
	assert.False(t, IsBusiness(err))
}
