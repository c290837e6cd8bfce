package handler

import (
	"errors"
	"net/http"
	"spice-storefront/internal/dto"
	"spice-storefront/internal/model"
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

func (h *OrderHandler) Place(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	placement, err := h.checkoutService.Place(ctx, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, service.ErrMissingCheckoutURL) && placement != nil {
			return &nextPathError{err: err, next: placement.NextPath}
		}
		return err
	}

	return c.JSON(http.StatusCreated, placement)
}

func (h *OrderHandler) CODAvailability(c echo.Context) error {
	available := h.checkoutService.CODAvailable(c.Request().Context())
	return c.JSON(http.StatusOK, &dto.CODAvailabilityResponse{CODAvailable: available})
}

func (h *OrderHandler) CreateGatewayOrder(c echo.Context) error {
	res, err := h.checkoutService.CreateGatewayOrder(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *OrderHandler) VerifyPayment(c echo.Context) error {
	var req model.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	res, err := h.checkoutService.VerifyPayment(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) Mine(c echo.Context) error {
	orders, err := h.orderService.MyOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.orderService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Track(c echo.Context) error {
	order, err := h.orderService.Track(c.Request().Context(), c.Param("number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
