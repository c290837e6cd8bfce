package handler

import (
	"net/http"
	"spice-storefront/internal/dto"
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewCartResponse(h.cartService.Snapshot()))
}

func (h *CartHandler) Reload(c echo.Context) error {
	if err := h.cartService.Load(c.Request().Context()); err != nil {
		return err
	}
	return h.Get(c)
}

func (h *CartHandler) Add(c echo.Context) error {
	req := dto.AddCartItemRequest{Quantity: 1}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.cartService.Add(c.Request().Context(), req.VariantID, req.ProductID, req.Quantity); err != nil {
		return err
	}
	return h.Get(c)
}

func (h *CartHandler) Update(c echo.Context) error {
	var req dto.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.cartService.UpdateQuantity(c.Request().Context(), c.Param("variantID"), req.ProductID, req.Quantity); err != nil {
		return err
	}
	return h.Get(c)
}

func (h *CartHandler) Remove(c echo.Context) error {
	if err := h.cartService.Remove(c.Request().Context(), c.Param("variantID")); err != nil {
		return err
	}
	return h.Get(c)
}

func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.cartService.Clear(c.Request().Context()); err != nil {
		return err
	}
	return h.Get(c)
}

func (h *CartHandler) Validate(c echo.Context) error {
	removed := h.cartService.Validate(c.Request().Context())

	res := dto.NewCartResponse(h.cartService.Snapshot())
	res.Removed = removed
	return c.JSON(http.StatusOK, res)
}
