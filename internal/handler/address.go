package handler

import (
	"net/http"
	"spice-storefront/internal/dto"
	"spice-storefront/internal/model"
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type AddressHandler struct {
	addressService service.AddressService
}

func NewAddressHandler(addressService service.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

func (h *AddressHandler) List(c echo.Context) error {
	addresses, err := h.addressService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, addresses)
}

func (h *AddressHandler) Add(c echo.Context) error {
	var req model.Address
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	addresses, err := h.addressService.Add(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusCreated, addresses)
}

func (h *AddressHandler) Delete(c echo.Context) error {
	confirmed, err := confirmParam(c)
	if err != nil {
		return err
	}

	addresses, err := h.addressService.Delete(c.Request().Context(), c.Param("id"), confirmed)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, addresses)
}

func (h *AddressHandler) SetDefault(c echo.Context) error {
	addresses, err := h.addressService.SetDefault(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, addresses)
}

func (h *AddressHandler) Select(c echo.Context) error {
	var req dto.SelectAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := h.addressService.Select(req.AddressID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.addressService.Selected())
}

func (h *AddressHandler) respond(c echo.Context, status int, addresses []model.Address) error {
	return c.JSON(status, &dto.AddressesResponse{
		Addresses: addresses,
		Selected:  h.addressService.Selected(),
	})
}

// confirmParam reads the ?confirm= flag destructive actions require.
func confirmParam(c echo.Context) (bool, error) {
	var confirmed bool
	if err := echo.QueryParamsBinder(c).Bool("confirm", &confirmed).BindError(); err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, "confirm must be a boolean")
	}
	return confirmed, nil
}
