package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"spice-storefront/internal/client"
	"spice-storefront/internal/dto"
	"spice-storefront/internal/service"
	"strings"

	"github.com/labstack/echo/v4"
)

// stateError carries the screen state to render next to a failure.
type stateError struct {
	err   error
	state any
}

func (e *stateError) Error() string { return e.err.Error() }
func (e *stateError) Unwrap() error { return e.err }

func withState(err error, state any) error {
	if err == nil {
		return nil
	}
	return &stateError{err: err, state: state}
}

type nextPathError struct {
	err  error
	next string
}

func (e *nextPathError) Error() string { return e.err.Error() }
func (e *nextPathError) Unwrap() error { return e.err }

// ErrorHandler renders every failure as an ErrorResponse:
// 422 for form validation, 400 for business rejections, 401 with a login
// redirect once the session is gone, 502 for retryable upstream failures.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := classify(err)

	var sErr *stateError
	if errors.As(err, &sErr) {
		body.State = sErr.state
	}
	var nErr *nextPathError
	if errors.As(err, &nErr) {
		body.NextPath = nErr.next
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "status", status, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		slog.Error("write error response", "error", err)
	}
}

func classify(err error) (int, dto.ErrorResponse) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, dto.ErrorResponse{Message: msg}
	}

	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusUnprocessableEntity, dto.ErrorResponse{Message: vErr.Message, Field: vErr.Field}
	}

	switch {
	case errors.Is(err, service.ErrNotAuthenticated), errors.Is(err, service.ErrSessionExpired):
		return http.StatusUnauthorized, dto.ErrorResponse{Message: "please log in", Redirect: service.LoginPath}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, dto.ErrorResponse{Message: err.Error()}
	case errors.Is(err, service.ErrConfirmationRequired):
		return http.StatusPreconditionRequired, dto.ErrorResponse{Message: err.Error()}
	case errors.Is(err, service.ErrStalePreview), errors.Is(err, service.ErrPlacementInProgress):
		return http.StatusConflict, dto.ErrorResponse{Message: err.Error()}
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrEmptyCouponCode),
		errors.Is(err, service.ErrNoPreview),
		errors.Is(err, service.ErrNoAddress),
		errors.Is(err, service.ErrCODUnavailable),
		errors.Is(err, service.ErrMissingCheckoutURL):
		return http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()}
	case errors.Is(err, client.ErrImageUploadNotConfigured):
		return http.StatusServiceUnavailable, dto.ErrorResponse{Message: err.Error()}
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		body := dto.ErrorResponse{Message: client.Detail(err, "unauthorized")}
		if strings.Contains(apiErr.Path, "/auth/me") {
			body.Redirect = service.LoginPath
		}
		return http.StatusUnauthorized, body
	}

	switch {
	case apiErr != nil && (apiErr.Status == http.StatusForbidden || apiErr.Status == http.StatusNotFound):
		return apiErr.Status, dto.ErrorResponse{Message: client.Detail(err, http.StatusText(apiErr.Status))}
	case client.IsBusiness(err):
		return http.StatusBadRequest, dto.ErrorResponse{Message: client.Detail(err, "request rejected")}
	case client.IsTransient(err):
		return http.StatusBadGateway, dto.ErrorResponse{
			Message:   client.Detail(err, "the store is unreachable, please try again"),
			Retryable: true,
		}
	}
	return http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"}
}
