package dto

import (
	"spice-storefront/internal/model"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user"`
}

type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

type ErrorResponse struct {
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Redirect  string `json:"redirect,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	NextPath  string `json:"next_path,omitempty"`
	State     any    `json:"state,omitempty"`
}

type SelectAddressRequest struct {
	AddressID string `json:"address_id"`
}

type AddressesResponse struct {
	Addresses []model.Address `json:"addresses"`
	Selected  *model.Address  `json:"selected"`
}

type AddCartItemRequest struct {
	VariantID string `json:"variant_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartResponse struct {
	Items   []model.CartItem `json:"items"`
	Total   decimal.Decimal  `json:"total"`
	Count   int              `json:"count"`
	Removed []string         `json:"removed,omitempty"`
}

func NewCartResponse(cart model.Cart) *CartResponse {
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	return &CartResponse{Items: cart.Items, Total: cart.Total, Count: count}
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

type PaymentMethodRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

type CODAvailabilityResponse struct {
	CODAvailable bool `json:"cod_available"`
}

type DeliveryStatesRequest struct {
	EnabledStates []string `json:"enabled_states"`
}

type ToggleResponse struct {
	Active bool `json:"active"`
}

type StockResponse struct {
	InStock bool `json:"in_stock"`
}

type ImageUploadResponse struct {
	URL string `json:"url"`
}
