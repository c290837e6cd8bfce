package handler

import (
	"net/http"
	"spice-storefront/internal/dto"
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type PricingHandler struct {
	pricingService service.PricingService
}

func NewPricingHandler(pricingService service.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

func (h *PricingHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pricingService.State())
}

func (h *PricingHandler) Refresh(c echo.Context) error {
	return respondPricing(c)(h.pricingService.Refresh(c.Request().Context()))
}

func (h *PricingHandler) ApplyCoupon(c echo.Context) error {
	var req dto.ApplyCouponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	return respondPricing(c)(h.pricingService.ApplyCoupon(c.Request().Context(), req.Code))
}

func (h *PricingHandler) RemoveCoupon(c echo.Context) error {
	return respondPricing(c)(h.pricingService.RemoveCoupon(c.Request().Context()))
}

func (h *PricingHandler) SetPaymentMethod(c echo.Context) error {
	var req dto.PaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	return respondPricing(c)(h.pricingService.SetPaymentMethod(c.Request().Context(), req.PaymentMethod))
}

func (h *PricingHandler) Retry(c echo.Context) error {
	return respondPricing(c)(h.pricingService.Retry(c.Request().Context()))
}

func (h *PricingHandler) CheckCoupon(c echo.Context) error {
	var req dto.ApplyCouponRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	res, err := h.pricingService.CheckCoupon(c.Request().Context(), req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PricingHandler) ActiveCoupons(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pricingService.LoadActiveCoupons(c.Request().Context()))
}

func (h *PricingHandler) Suggestions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pricingService.Suggestions(c.Request().Context()))
}

// respondPricing sends the state on success and attaches it to the error otherwise,
// so inline coupon errors and retry banners render from one payload.
func respondPricing(c echo.Context) func(service.PricingState, error) error {
	return func(state service.PricingState, err error) error {
		if err != nil {
			return withState(err, state)
		}
		return c.JSON(http.StatusOK, state)
	}
}
