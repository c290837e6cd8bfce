package handler

import (
	"net/http"
	"spice-storefront/internal/dto"
	"spice-storefront/internal/model"
	"spice-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	sessionService service.SessionService
}

func NewAuthHandler(sessionService service.SessionService) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.sessionService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.SessionResponse{Authenticated: true, User: user})
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.Registration
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.sessionService.Register(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, &dto.SessionResponse{Authenticated: true, User: user})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	redirect := h.sessionService.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, &dto.RedirectResponse{Redirect: redirect})
}

// Me re-reads the profile from the backend.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.sessionService.RefreshUser(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.SessionResponse{Authenticated: true, User: user})
}

// Session answers from local state only.
func (h *AuthHandler) Session(c echo.Context) error {
	user := h.sessionService.CurrentUser()
	return c.JSON(http.StatusOK, &dto.SessionResponse{Authenticated: user != nil, User: user})
}
