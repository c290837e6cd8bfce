package service

import (
	"context"
	"fmt"
	"log/slog"
	"spice-storefront/internal/client"
	"spice-storefront/internal/model"
	"sync"

	"github.com/google/uuid"
)

type PlacementOutcome string

const (
	OutcomeConfirmed PlacementOutcome = "confirmed"
	OutcomeRedirect  PlacementOutcome = "redirect"
)

// Placement tells the caller where the shopper goes after an order is initiated.
type Placement struct {
	OrderID     string           `json:"order_id"`
	OrderNumber string           `json:"order_number,omitempty"`
	Outcome     PlacementOutcome `json:"outcome,omitempty"`
	NextPath    string           `json:"next_path,omitempty"`
	CheckoutURL string           `json:"checkout_url,omitempty"`
}

// PaymentReturn is the resolved state of an order after the gateway hands the shopper back.
type PaymentReturn struct {
	Order     *model.Order `json:"order"`
	Succeeded bool         `json:"succeeded"`
}

type CheckoutService interface {
	Place(ctx context.Context, method model.PaymentMethod) (*Placement, error)
	CODAvailable(ctx context.Context) bool

	// CreateGatewayOrder and VerifyPayment drive the older two-step gateway checkout.
	CreateGatewayOrder(ctx context.Context) (*model.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, req model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error)

	ResolvePaymentReturn(ctx context.Context, orderID string) (*PaymentReturn, error)
}

type checkoutServiceImpl struct {
	checkoutApi client.CheckoutAPI
	orderApi    client.OrderAPI
	session     SessionService
	cart        CartService
	pricing     PricingService
	addresses   AddressService

	placing sync.Mutex
}

func NewCheckoutService(
	checkoutApi client.CheckoutAPI,
	orderApi client.OrderAPI,
	session SessionService,
	cart CartService,
	pricing PricingService,
	addresses AddressService,
) CheckoutService {
	return &checkoutServiceImpl{
		checkoutApi: checkoutApi,
		orderApi:    orderApi,
		session:     session,
		cart:        cart,
		pricing:     pricing,
		addresses:   addresses,
	}
}

func (s *checkoutServiceImpl) Place(ctx context.Context, method model.PaymentMethod) (*Placement, error) {
	if !s.placing.TryLock() {
		return nil, ErrPlacementInProgress
	}
	defer s.placing.Unlock()

	if !s.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if !method.Valid() {
		return nil, invalid("payment_method", fmt.Sprintf("unsupported payment method %q", method))
	}
	if len(s.cart.Items()) == 0 {
		return nil, ErrEmptyCart
	}
	if s.addresses.Selected() == nil {
		return nil, ErrNoAddress
	}

	// the order must be charged what the shopper was shown for this method
	pricing := s.pricing.State()
	if pricing.PaymentMethod == nil || *pricing.PaymentMethod != method {
		repriced, err := s.pricing.SetPaymentMethod(ctx, method)
		if err != nil {
			slog.Warn("reprice for payment method", "payment_method", method, "error", err)
			return nil, ErrNoPreview
		}
		pricing = repriced
	}
	if pricing.Preview == nil || pricing.Error != "" {
		return nil, ErrNoPreview
	}
	if method == model.PaymentCOD && !s.CODAvailable(ctx) {
		return nil, ErrCODUnavailable
	}

	res, err := s.orderApi.InitiateOrder(ctx, model.InitiateOrderRequest{
		PaymentMethod: method,
		CouponCode:    pricing.AppliedCoupon,
	}, uuid.NewString())
	if err != nil {
		slog.Error("initiate order", "payment_method", method, "error", err)
		return nil, fmt.Errorf("initiate order: %w", err)
	}

	placement := &Placement{OrderID: res.OrderID, OrderNumber: res.OrderNumber}

	if method == model.PaymentPrepaid && res.CheckoutURL == "" {
		slog.Error("prepaid order without checkout url", "order_id", res.OrderID)
		placement.NextPath = "/payment-failed/" + res.OrderID
		return placement, ErrMissingCheckoutURL
	}

	s.clearCart(ctx)

	if method == model.PaymentCOD {
		placement.Outcome = OutcomeConfirmed
		placement.NextPath = "/order-success/" + res.OrderID
	} else {
		placement.Outcome = OutcomeRedirect
		placement.CheckoutURL = res.CheckoutURL
	}
	slog.Info("order placed", "order_id", res.OrderID, "outcome", placement.Outcome)
	return placement, nil
}

// CODAvailable fails open: unreadable settings never block cash on delivery.
func (s *checkoutServiceImpl) CODAvailable(ctx context.Context) bool {
	settings, err := s.checkoutApi.Settings(ctx)
	if err != nil {
		slog.Warn("fetch store settings", "error", err)
		return true
	}
	return settings.CODAllowed()
}

func (s *checkoutServiceImpl) CreateGatewayOrder(ctx context.Context) (*model.CreateOrderResponse, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	addr := s.addresses.Selected()
	if addr == nil {
		return nil, ErrNoAddress
	}

	res, err := s.orderApi.CreateOrder(ctx, model.CreateOrderRequest{
		Items:      model.LineRefs(items),
		AddressID:  addr.ID,
		CouponCode: s.pricing.State().AppliedCoupon,
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}
	return res, nil
}

func (s *checkoutServiceImpl) VerifyPayment(ctx context.Context, req model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, invalid("payment", "order, payment and signature are required")
	}

	res, err := s.orderApi.VerifyPayment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}
	s.clearCart(ctx)
	return res, nil
}

func (s *checkoutServiceImpl) ResolvePaymentReturn(ctx context.Context, orderID string) (*PaymentReturn, error) {
	if orderID == "" {
		return nil, invalid("order_id", "order id is required")
	}
	order, err := s.orderApi.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return &PaymentReturn{Order: order, Succeeded: order.PaymentSucceeded()}, nil
}

func (s *checkoutServiceImpl) clearCart(ctx context.Context) {
	if err := s.cart.Clear(ctx); err != nil {
		slog.Warn("clear cart after order", "error", err)
	}
}
