package server

import (
	"context"
	"log/slog"
	"spice-storefront/internal/handler"
	appmiddleware "spice-storefront/internal/middleware"
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Services struct {
	Session   service.SessionService
	Catalog   service.CatalogService
	Addresses service.AddressService
	Cart      service.CartService
	Pricing   service.PricingService
	Checkout  service.CheckoutService
	Orders    service.OrderService
	Admin     service.AdminService
}

type Server struct {
	echo           *echo.Echo
	session        service.SessionService
	authHandler    *handler.AuthHandler
	catalogHandler *handler.CatalogHandler
	addressHandler *handler.AddressHandler
	cartHandler    *handler.CartHandler
	pricingHandler *handler.PricingHandler
	orderHandler   *handler.OrderHandler
	pageHandler    *handler.PageHandler
	adminHandler   *handler.AdminHandler
}

func NewServer(services Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		session:        services.Session,
		authHandler:    handler.NewAuthHandler(services.Session),
		catalogHandler: handler.NewCatalogHandler(services.Catalog),
		addressHandler: handler.NewAddressHandler(services.Addresses),
		cartHandler:    handler.NewCartHandler(services.Cart),
		pricingHandler: handler.NewPricingHandler(services.Pricing),
		orderHandler:   handler.NewOrderHandler(services.Checkout, services.Orders),
		pageHandler:    handler.NewPageHandler(services.Checkout),
		adminHandler:   handler.NewAdminHandler(services.Admin),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	requireSession := appmiddleware.RequireSession(s.session)

	// -------- payment return pages --------
	s.echo.GET("/payment/return", s.pageHandler.PaymentReturn)
	s.echo.GET("/order-success/:id", s.pageHandler.OrderSuccess)
	s.echo.GET("/payment-failed/:id", s.pageHandler.PaymentFailed)

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/logout", s.authHandler.Logout)
	auth.GET("/session", s.authHandler.Session)
	auth.GET("/me", s.authHandler.Me, requireSession)

	// -------- catalogue --------
	api.GET("/products", s.catalogHandler.List)
	api.GET("/products/:slug", s.catalogHandler.Get)

	// -------- addresses --------
	addresses := api.Group("/addresses", requireSession)
	addresses.GET("", s.addressHandler.List)
	addresses.POST("", s.addressHandler.Add)
	addresses.PUT("/selected", s.addressHandler.Select)
	addresses.DELETE("/:id", s.addressHandler.Delete)
	addresses.PUT("/:id/default", s.addressHandler.SetDefault)

	// -------- cart --------
	api.GET("/cart", s.cartHandler.Get)
	cart := api.Group("/cart", requireSession)
	cart.POST("/reload", s.cartHandler.Reload)
	cart.POST("/items", s.cartHandler.Add)
	cart.PUT("/items/:variantID", s.cartHandler.Update)
	cart.DELETE("/items/:variantID", s.cartHandler.Remove)
	cart.DELETE("", s.cartHandler.Clear)
	cart.POST("/validate", s.cartHandler.Validate)

	// -------- pricing --------
	api.GET("/coupons/active", s.pricingHandler.ActiveCoupons)
	pricing := api.Group("/pricing", requireSession)
	pricing.GET("", s.pricingHandler.State)
	pricing.POST("/refresh", s.pricingHandler.Refresh)
	pricing.POST("/coupon", s.pricingHandler.ApplyCoupon)
	pricing.DELETE("/coupon", s.pricingHandler.RemoveCoupon)
	pricing.POST("/coupon/check", s.pricingHandler.CheckCoupon)
	pricing.PUT("/payment-method", s.pricingHandler.SetPaymentMethod)
	pricing.POST("/retry", s.pricingHandler.Retry)
	pricing.GET("/suggestions", s.pricingHandler.Suggestions)

	// -------- orders --------
	api.GET("/orders/track/:number", s.orderHandler.Track)
	orders := api.Group("/orders", requireSession)
	orders.POST("", s.orderHandler.Place)
	orders.GET("", s.orderHandler.Mine)
	orders.GET("/cod", s.orderHandler.CODAvailability)
	orders.POST("/gateway", s.orderHandler.CreateGatewayOrder)
	orders.POST("/verify-payment", s.orderHandler.VerifyPayment)
	orders.GET("/:id", s.orderHandler.Get)

	s.setupAdminRoutes(api)
}

func (s *Server) setupAdminRoutes(api *echo.Group) {
	admin := api.Group("/admin", appmiddleware.RequireAdmin(s.session))
	h := s.adminHandler

	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/settings", h.Settings)
	admin.POST("/images", h.UploadImage)

	// -------- products --------
	admin.GET("/products", h.ListProducts)
	admin.POST("/products", h.CreateProduct)
	admin.GET("/products/:id", h.GetProduct)
	admin.PATCH("/products/:id", h.UpdateProduct)
	admin.PUT("/products/:id/toggle", h.ToggleProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
	admin.POST("/products/:id/image", h.UploadImage)
	admin.GET("/products/:id/variants", h.ListVariants)
	admin.POST("/products/:id/variants", h.CreateVariant)

	// -------- variants --------
	admin.PUT("/variants/:id", h.UpdateVariant)
	admin.PUT("/variants/:id/toggle", h.ToggleVariant)
	admin.PUT("/variants/:id/stock", h.ToggleVariantStock)

	// -------- coupons --------
	admin.GET("/coupons", h.ListCoupons)
	admin.POST("/coupons", h.CreateCoupon)
	admin.PUT("/coupons/:id", h.UpdateCoupon)
	admin.DELETE("/coupons/:id", h.DeleteCoupon)
	admin.PUT("/coupons/:id/toggle", h.ToggleCoupon)

	// -------- orders --------
	admin.GET("/orders", h.ListOrders)
	admin.PATCH("/orders/:id", h.UpdateOrderStatus)

	// -------- delivery --------
	admin.GET("/delivery/states", h.DeliveryStates)
	admin.PUT("/delivery/states", h.SaveDeliveryStates)
	admin.GET("/delivery/catalogue", h.SearchStates)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}
