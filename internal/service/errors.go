package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrSessionExpired       = errors.New("session expired")
	ErrForbidden            = errors.New("admin access required")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrEmptyCouponCode      = errors.New("please enter a coupon code")
	ErrStalePreview         = errors.New("pricing preview superseded by a newer request")
	ErrNoPreview            = errors.New("unable to calculate pricing")
	ErrNoAddress            = errors.New("please select a delivery address")
	ErrCODUnavailable       = errors.New("cash on delivery is currently unavailable")
	ErrMissingCheckoutURL   = errors.New("payment checkout URL is missing")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrPlacementInProgress  = errors.New("an order is already being placed")
)

// ValidationError is a client-side form check that blocks submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
