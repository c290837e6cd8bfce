package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"spice-storefront/internal/client"
	"spice-storefront/internal/config"
	"spice-storefront/internal/model"
	"spice-storefront/internal/repository"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testToken    = "token-abc"
	testEmail    = "asha@example.com"
	testPassword = "secret1"
)

type detail struct {
	Detail string `json:"detail"`
}

// fakeBackend is an in-memory stand-in for the storefront REST API.
type fakeBackend struct {
	echo *echo.Echo

	mu       sync.Mutex
	hits     map[string]int
	user     model.User
	meStatus int
	variants map[string]model.CartItem
	cart     []model.CartItem
	invalid  []string

	coupons        map[string]decimal.Decimal // code -> percentage
	expiredCoupons map[string]bool
	activeCoupons  []model.Coupon
	activeStatus   int
	previews       []model.PreviewRequest
	previewFn      func(req model.PreviewRequest) (int, any)

	settingsStatus int
	settings       model.Settings
	initiateRes    model.InitiateOrderResponse
	initiated      []model.InitiateOrderRequest
	idemKeys       []string
	orders         map[string]model.Order

	createdProducts []model.Product
	createdVariants []model.Variant
	savedCoupons    []model.Coupon
	deletedCoupons  []string
	statusUpdates   []model.OrderStatusUpdate
	enabledStates   []string
}

func newFakeBackend() *fakeBackend {
	fb := &fakeBackend{
		echo: echo.New(),
		hits: map[string]int{},
		user: model.User{
			ID:       "user-1",
			Email:    testEmail,
			FullName: "Asha Rao",
			Role:     model.RoleCustomer,
			Addresses: []model.Address{
				{ID: "addr-1", Name: "Asha", Phone: "9876543210", AddressLine1: "12 MG Road", City: "Kochi", State: "Kerala", Pincode: "682001"},
				{ID: "addr-2", Name: "Asha", Phone: "9876543210", AddressLine1: "4 Park St", City: "Kolkata", State: "West Bengal", Pincode: "700016", IsDefault: true},
			},
		},
		variants: map[string]model.CartItem{
			"var-turmeric-100": {VariantID: "var-turmeric-100", ProductID: "prod-turmeric", ProductName: "Turmeric", VariantSize: "100g", Price: decimal.NewFromInt(100), MRP: decimal.NewFromInt(120)},
			"var-pepper-250":   {VariantID: "var-pepper-250", ProductID: "prod-pepper", ProductName: "Black Pepper", VariantSize: "250g", Price: decimal.NewFromInt(250), MRP: decimal.NewFromInt(250)},
		},
		coupons:        map[string]decimal.Decimal{"SAVE10": decimal.NewFromInt(10)},
		expiredCoupons: map[string]bool{},
		settings:       model.Settings{ShippingThreshold: decimal.NewFromInt(500), ShippingFee: decimal.NewFromInt(50)},
		initiateRes:    model.InitiateOrderResponse{OrderID: "ord-1", OrderNumber: "SP-1001", CheckoutURL: "https://pay.example.com/ord-1"},
		orders:         map[string]model.Order{},
	}
	fb.routes()
	return fb
}

func (fb *fakeBackend) hit(c echo.Context) {
	fb.mu.Lock()
	fb.hits[c.Request().Method+" "+c.Path()]++
	fb.mu.Unlock()
}

func (fb *fakeBackend) count(key string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[key]
}

func (fb *fakeBackend) lastPreview() model.PreviewRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.previews[len(fb.previews)-1]
}

func (fb *fakeBackend) previewCount() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.previews)
}

func (fb *fakeBackend) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") != "Bearer "+testToken {
			return c.JSON(http.StatusUnauthorized, detail{"Not authenticated"})
		}
		return next(c)
	}
}

func (fb *fakeBackend) routes() {
	api := fb.echo.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			fb.hit(c)
			return next(c)
		}
	})

	api.POST("/auth/login", func(c echo.Context) error {
		var creds model.Credentials
		if err := c.Bind(&creds); err != nil {
			return err
		}
		if creds.Email != testEmail || creds.Password != testPassword {
			return c.JSON(http.StatusBadRequest, detail{"Invalid email or password"})
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		return c.JSON(http.StatusOK, model.AuthToken{Token: testToken, User: fb.user})
	})
	api.GET("/auth/me", func(c echo.Context) error {
		fb.mu.Lock()
		status := fb.meStatus
		user := fb.user
		fb.mu.Unlock()
		if status != 0 {
			return c.JSON(status, detail{"Could not validate credentials"})
		}
		return c.JSON(http.StatusOK, user)
	}, fb.requireToken)
	api.POST("/auth/addresses", func(c echo.Context) error {
		var addr model.Address
		if err := c.Bind(&addr); err != nil {
			return err
		}
		fb.mu.Lock()
		addr.ID = "addr-new"
		fb.user.Addresses = append(fb.user.Addresses, addr)
		fb.mu.Unlock()
		return c.JSON(http.StatusCreated, addr)
	}, fb.requireToken)
	api.DELETE("/auth/addresses/:id", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		kept := fb.user.Addresses[:0]
		for _, a := range fb.user.Addresses {
			if a.ID != c.Param("id") {
				kept = append(kept, a)
			}
		}
		fb.user.Addresses = kept
		return c.NoContent(http.StatusOK)
	}, fb.requireToken)

	api.GET("/cart/", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		total := decimal.Zero
		for _, item := range fb.cart {
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		return c.JSON(http.StatusOK, model.Cart{Items: append([]model.CartItem{}, fb.cart...), Total: total})
	}, fb.requireToken)
	api.POST("/cart/add", func(c echo.Context) error {
		var req model.CartItem
		if err := c.Bind(&req); err != nil {
			return err
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		item, ok := fb.variants[req.VariantID]
		if !ok {
			return c.JSON(http.StatusBadRequest, detail{"Variant not available"})
		}
		for i := range fb.cart {
			if fb.cart[i].VariantID == req.VariantID {
				fb.cart[i].Quantity += req.Quantity
				return c.NoContent(http.StatusOK)
			}
		}
		item.Quantity = req.Quantity
		fb.cart = append(fb.cart, item)
		return c.NoContent(http.StatusOK)
	}, fb.requireToken)
	api.PUT("/cart/update", func(c echo.Context) error {
		var req model.CartItem
		if err := c.Bind(&req); err != nil {
			return err
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for i := range fb.cart {
			if fb.cart[i].VariantID == req.VariantID {
				fb.cart[i].Quantity = req.Quantity
			}
		}
		return c.NoContent(http.StatusOK)
	}, fb.requireToken)
	api.DELETE("/cart/remove/:id", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		kept := []model.CartItem{}
		for _, item := range fb.cart {
			if item.VariantID != c.Param("id") {
				kept = append(kept, item)
			}
		}
		fb.cart = kept
		return c.NoContent(http.StatusOK)
	}, fb.requireToken)
	api.DELETE("/cart/", func(c echo.Context) error {
		fb.mu.Lock()
		fb.cart = nil
		fb.mu.Unlock()
		return c.NoContent(http.StatusOK)
	}, fb.requireToken)
	api.POST("/cart/validate", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		res := struct {
			InvalidItems []model.InvalidCartItem `json:"invalid_items"`
		}{InvalidItems: []model.InvalidCartItem{}}
		for _, id := range fb.invalid {
			res.InvalidItems = append(res.InvalidItems, model.InvalidCartItem{VariantID: id})
		}
		return c.JSON(http.StatusOK, res)
	}, fb.requireToken)

	api.POST("/checkout/preview", func(c echo.Context) error {
		var req model.PreviewRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		fb.mu.Lock()
		fb.previews = append(fb.previews, req)
		fn := fb.previewFn
		fb.mu.Unlock()

		if fn != nil {
			status, body := fn(req)
			return c.JSON(status, body)
		}
		status, body := fb.defaultPreview(req)
		return c.JSON(status, body)
	}, fb.requireToken)
	api.GET("/coupons/active", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		if fb.activeStatus != 0 {
			return c.JSON(fb.activeStatus, detail{"coupons unavailable"})
		}
		return c.JSON(http.StatusOK, fb.activeCoupons)
	})
	api.POST("/coupons/validate", func(c echo.Context) error {
		var req struct {
			Code         string          `json:"code"`
			CartSubtotal decimal.Decimal `json:"cart_subtotal"`
		}
		if err := c.Bind(&req); err != nil {
			return err
		}
		fb.mu.Lock()
		pct, ok := fb.coupons[req.Code]
		fb.mu.Unlock()
		if !ok {
			return c.JSON(http.StatusBadRequest, detail{"Invalid coupon code"})
		}
		return c.JSON(http.StatusOK, model.CouponValidation{
			Valid:    true,
			Discount: req.CartSubtotal.Mul(pct).Div(decimal.NewFromInt(100)),
		})
	}, fb.requireToken)

	api.GET("/admin/settings", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		if fb.settingsStatus != 0 {
			return c.JSON(fb.settingsStatus, detail{"settings unavailable"})
		}
		return c.JSON(http.StatusOK, fb.settings)
	})

	api.POST("/orders/initiate", func(c echo.Context) error {
		var req model.InitiateOrderRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.initiated = append(fb.initiated, req)
		fb.idemKeys = append(fb.idemKeys, c.Request().Header.Get("Idempotency-Key"))
		return c.JSON(http.StatusOK, fb.initiateRes)
	}, fb.requireToken)
	api.GET("/orders/my-orders", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		mine := []model.Order{}
		for _, order := range fb.orders {
			if order.UserID == fb.user.ID {
				mine = append(mine, order)
			}
		}
		return c.JSON(http.StatusOK, mine)
	}, fb.requireToken)
	api.GET("/orders/track/:number", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for _, order := range fb.orders {
			if order.OrderNumber == c.Param("number") {
				return c.JSON(http.StatusOK, order)
			}
		}
		return c.JSON(http.StatusNotFound, detail{"Order not found"})
	})
	api.GET("/orders/:id", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		order, ok := fb.orders[c.Param("id")]
		if !ok {
			return c.JSON(http.StatusNotFound, detail{"Order not found"})
		}
		return c.JSON(http.StatusOK, order)
	}, fb.requireToken)

	api.POST("/admin/products", func(c echo.Context) error {
		var p model.Product
		if err := c.Bind(&p); err != nil {
			return err
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		p.ID = "prod-new"
		fb.createdProducts = append(fb.createdProducts, p)
		return c.JSON(http.StatusCreated, p)
	}, fb.requireToken)
	api.POST("/admin/variants", func(c echo.Context) error {
		var v model.Variant
		if err := c.Bind(&v); err != nil {
			return err
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		v.ID = "var-" + strings.ToLower(v.SKU)
		fb.createdVariants = append(fb.createdVariants, v)
		return c.JSON(http.StatusCreated, v)
	}, fb.requireToken)
	api.POST("/coupons/admin", func(c echo.Context) error {
		var coupon model.Coupon
		if err := c.Bind(&coupon); err != nil {
			return err
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.savedCoupons = append(fb.savedCoupons, coupon)
		coupon.ID = "coupon-new"
		return c.JSON(http.StatusCreated, coupon)
	}, fb.requireToken)
	api.DELETE("/coupons/admin/:id", func(c echo.Context) error {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.deletedCoupons = append(fb.deletedCoupons, c.Param("id")+"?permanent="+c.QueryParam("permanent"))
		return c.NoContent(http.StatusOK)
	}, fb.requireToken)
	api.PATCH("/admin/orders/:id", func(c echo.Context) error {
		var u model.OrderStatusUpdate
		if err := c.Bind(&u); err != nil {
			return err
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.statusUpdates = append(fb.statusUpdates, u)
		return c.NoContent(http.StatusOK)
	}, fb.requireToken)
	api.PUT("/admin/delivery/states", func(c echo.Context) error {
		var req struct {
			EnabledStates []string `json:"enabled_states"`
		}
		if err := c.Bind(&req); err != nil {
			return err
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.enabledStates = req.EnabledStates
		return c.NoContent(http.StatusOK)
	}, fb.requireToken)
}

// defaultPreview prices the request the way the backend does for the test catalogue:
// percentage coupons, ₹50 shipping under ₹500 and a ₹30 COD fee.
func (fb *fakeBackend) defaultPreview(req model.PreviewRequest) (int, any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	preview := model.PricingPreview{Items: []model.PreviewLine{}}
	subtotal := decimal.Zero
	for _, ref := range req.CartItems {
		item, ok := fb.variants[ref.VariantID]
		if !ok {
			return http.StatusBadRequest, detail{"Variant not available"}
		}
		line := item.Price.Mul(decimal.NewFromInt(int64(ref.Quantity)))
		subtotal = subtotal.Add(line)
		preview.Items = append(preview.Items, model.PreviewLine{VariantID: ref.VariantID, Price: item.Price, MRP: item.MRP, Quantity: ref.Quantity})
	}
	preview.Subtotal = subtotal

	if req.CouponCode != nil {
		code := *req.CouponCode
		if fb.expiredCoupons[code] {
			return http.StatusBadRequest, detail{"Coupon has expired"}
		}
		pct, ok := fb.coupons[code]
		if !ok {
			return http.StatusBadRequest, detail{"Invalid coupon code"}
		}
		discount := subtotal.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
		preview.Discount = discount
		preview.Discounts.CouponDiscount = discount
		preview.Discounts.TotalDiscount = discount
		preview.Coupon = &model.PreviewCoupon{Code: code, Discount: discount, Type: model.CouponPercentage, Value: pct}
	}

	if subtotal.LessThan(decimal.NewFromInt(500)) {
		preview.Charges.Shipping = decimal.NewFromInt(50)
		preview.Progress.RemainingForFreeShipping = decimal.NewFromInt(500).Sub(subtotal)
	}
	if req.PaymentMethod != nil && *req.PaymentMethod == model.PaymentCOD {
		preview.Charges.CODFee = decimal.NewFromInt(30)
	}
	preview.PaymentMethod = req.PaymentMethod
	preview.GrandTotal = subtotal.Sub(preview.Discount).Add(preview.Charges.Shipping).Add(preview.Charges.CODFee)
	return http.StatusOK, preview
}

type testEnv struct {
	backend   *fakeBackend
	storage   repository.StorageRepository
	bus       *Bus
	session   SessionService
	cart      CartService
	pricing   PricingService
	addresses AddressService
	checkout  CheckoutService
	orders    OrderService
	admin     AdminService
}

// newTestEnv wires the services the way cmd/console does, against a fake
// backend and an in-memory store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fb := newFakeBackend()
	srv := httptest.NewServer(fb.echo)
	t.Cleanup(srv.Close)

	db, err := client.InitStorageClient(&config.Storage{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	states, err := LoadStateCatalogue()
	require.NoError(t, err)

	env := &testEnv{
		backend: fb,
		storage: repository.NewStorageRepository(db),
		bus:     NewBus(),
	}

	backend := client.NewBackendClient(
		&config.Backend{BaseURL: srv.URL, Timeout: 5 * time.Second},
		client.TokenFunc(func() string { return env.session.Token() }),
	)
	env.session = NewSessionService(backend, env.storage, env.bus)
	backend.OnSessionExpired(env.session.Expire)

	env.cart = NewCartService(backend, env.session, env.bus)
	env.pricing = NewPricingService(backend, env.cart, env.bus)
	env.addresses = NewAddressService(backend, env.session, env.bus)
	env.checkout = NewCheckoutService(backend, backend, env.session, env.cart, env.pricing, env.addresses)
	env.orders = NewOrderService(backend, env.session)
	env.admin = NewAdminService(backend, backend, client.NewCloudinaryClient(&config.Cloudinary{}), states)
	return env
}

func (env *testEnv) login(t *testing.T) {
	t.Helper()
	_, err := env.session.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
}

func (env *testEnv) addToCart(t *testing.T, variantID string, qty int) {
	t.Helper()
	item := env.backend.variants[variantID]
	require.NoError(t, env.cart.Add(context.Background(), variantID, item.ProductID, qty))
}
