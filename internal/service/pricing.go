package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"spice-storefront/internal/client"
	"spice-storefront/internal/model"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

const (
	msgPricingServerError = "Unable to calculate pricing. Please try again."
	msgPricingOffline     = "Failed to connect to server. Please check your connection."
	msgInvalidRequest     = "Invalid request"
	maxCouponSuggestions  = 2
)

// PricingState is what the cart and review screens render.
type PricingState struct {
	Preview       *model.PricingPreview `json:"preview"`
	AppliedCoupon *string               `json:"applied_coupon"`
	CouponError   string                `json:"coupon_error,omitempty"`
	CouponMessage string                `json:"coupon_message,omitempty"`
	PaymentMethod *model.PaymentMethod  `json:"payment_method"`
	Error         string                `json:"error,omitempty"`
	Retryable     bool                  `json:"retryable"`
}

// CouponSuggestion is a hint derived from the public coupon list. The preview
// stays the only authority on what a coupon is worth.
type CouponSuggestion struct {
	Code        string          `json:"code"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	MinOrder    decimal.Decimal `json:"min_order"`
	Eligible    bool            `json:"eligible"`
	Remaining   decimal.Decimal `json:"remaining"`
}

type PricingService interface {
	State() PricingState
	Refresh(ctx context.Context) (PricingState, error)
	ApplyCoupon(ctx context.Context, code string) (PricingState, error)
	RemoveCoupon(ctx context.Context) (PricingState, error)
	SetPaymentMethod(ctx context.Context, method model.PaymentMethod) (PricingState, error)
	// Retry re-issues the request that last failed transiently.
	Retry(ctx context.Context) (PricingState, error)

	// CheckCoupon asks whether a code would apply to the current subtotal
	// without touching the applied coupon or the preview.
	CheckCoupon(ctx context.Context, code string) (*model.CouponValidation, error)
	Suggestions(ctx context.Context) []CouponSuggestion
	LoadActiveCoupons(ctx context.Context) []model.Coupon
}

type pricingServiceImpl struct {
	checkoutApi client.CheckoutAPI
	cart        CartService

	mu          sync.Mutex
	seq         uint64
	state       PricingState
	retryCoupon *string
}

func NewPricingService(checkoutApi client.CheckoutAPI, cart CartService, bus *Bus) PricingService {
	s := &pricingServiceImpl{
		checkoutApi: checkoutApi,
		cart:        cart,
	}

	bus.Subscribe(EventCartChanged, func(ctx context.Context, _ EventKind) {
		if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrStalePreview) {
			slog.Warn("refresh pricing after cart change", "error", err)
		}
	})
	bus.Subscribe(EventLogout, func(ctx context.Context, _ EventKind) {
		s.mu.Lock()
		s.seq++
		s.state = PricingState{}
		s.retryCoupon = nil
		s.mu.Unlock()
	})
	return s
}

func (s *pricingServiceImpl) State() PricingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *pricingServiceImpl) Refresh(ctx context.Context) (PricingState, error) {
	if len(s.cart.Items()) == 0 {
		return s.clearPreview(), nil
	}

	s.mu.Lock()
	applied := copyString(s.state.AppliedCoupon)
	s.mu.Unlock()

	preview, seq, err := s.fetch(ctx, applied)
	if err == nil {
		return s.succeed(seq, preview)
	}

	if applied != nil && client.IsBusiness(err) {
		msg := client.Detail(err, "Invalid coupon code")
		serr := s.settle(seq, func() {
			s.state.AppliedCoupon = nil
			s.state.CouponError = msg
			s.state.CouponMessage = ""
		})
		if serr != nil {
			return s.State(), serr
		}
		slog.Info("applied coupon rejected, repricing without it", "coupon", *applied, "reason", msg)

		preview, seq, err = s.fetch(ctx, nil)
		if err == nil {
			return s.succeed(seq, preview)
		}
	}
	return s.State(), s.fail(seq, err, nil)
}

func (s *pricingServiceImpl) ApplyCoupon(ctx context.Context, code string) (PricingState, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		s.mu.Lock()
		s.state.CouponError = ErrEmptyCouponCode.Error()
		s.state.CouponMessage = ""
		state := s.snapshot()
		s.mu.Unlock()
		return state, ErrEmptyCouponCode
	}
	if len(s.cart.Items()) == 0 {
		return s.State(), ErrEmptyCart
	}

	s.mu.Lock()
	s.state.CouponError = ""
	s.state.CouponMessage = ""
	s.mu.Unlock()

	preview, seq, err := s.fetch(ctx, &code)
	if err == nil {
		return s.succeed(seq, preview)
	}

	if client.IsBusiness(err) {
		msg := client.Detail(err, "Invalid coupon code")
		if serr := s.settle(seq, func() { s.state.CouponError = msg }); serr != nil {
			return s.State(), serr
		}
		return s.State(), err
	}
	return s.State(), s.fail(seq, err, &code)
}

func (s *pricingServiceImpl) RemoveCoupon(ctx context.Context) (PricingState, error) {
	s.mu.Lock()
	s.state.AppliedCoupon = nil
	s.state.CouponError = ""
	s.state.CouponMessage = ""
	if s.state.Preview != nil {
		optimistic := s.state.Preview.WithoutCoupon()
		s.state.Preview = &optimistic
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *pricingServiceImpl) SetPaymentMethod(ctx context.Context, method model.PaymentMethod) (PricingState, error) {
	if !method.Valid() {
		return s.State(), invalid("payment_method", fmt.Sprintf("unsupported payment method %q", method))
	}

	s.mu.Lock()
	s.state.PaymentMethod = &method
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *pricingServiceImpl) Retry(ctx context.Context) (PricingState, error) {
	s.mu.Lock()
	code := copyString(s.retryCoupon)
	s.mu.Unlock()

	if code != nil {
		return s.ApplyCoupon(ctx, *code)
	}
	return s.Refresh(ctx)
}

func (s *pricingServiceImpl) CheckCoupon(ctx context.Context, code string) (*model.CouponValidation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrEmptyCouponCode
	}

	subtotal := decimal.Zero
	s.mu.Lock()
	if s.state.Preview != nil {
		subtotal = s.state.Preview.Subtotal
	}
	s.mu.Unlock()

	res, err := s.checkoutApi.ValidateCoupon(ctx, code, subtotal)
	if err != nil {
		return nil, fmt.Errorf("validate coupon %s: %w", code, err)
	}
	if res.CouponCode == nil {
		res.CouponCode = &code
	}
	return res, nil
}

func (s *pricingServiceImpl) Suggestions(ctx context.Context) []CouponSuggestion {
	s.mu.Lock()
	var subtotal *decimal.Decimal
	if s.state.Preview != nil && s.state.AppliedCoupon == nil && s.state.Error == "" {
		v := s.state.Preview.Subtotal
		subtotal = &v
	}
	s.mu.Unlock()

	suggestions := []CouponSuggestion{}
	if subtotal == nil {
		return suggestions
	}

	for _, coupon := range s.LoadActiveCoupons(ctx) {
		if !coupon.MinOrderAmount.IsPositive() {
			continue
		}
		suggestions = append(suggestions, suggest(coupon, *subtotal))
		if len(suggestions) == maxCouponSuggestions {
			break
		}
	}
	return suggestions
}

// LoadActiveCoupons reads the public coupon list on every call; admins toggle
// coupons while shoppers browse.
func (s *pricingServiceImpl) LoadActiveCoupons(ctx context.Context) []model.Coupon {
	coupons, err := s.checkoutApi.ActiveCoupons(ctx)
	if err != nil {
		slog.Warn("fetch active coupons", "error", err)
		return []model.Coupon{}
	}
	if coupons == nil {
		coupons = []model.Coupon{}
	}
	return coupons
}

// fetch issues a preview under a fresh sequence number. Only the holder of the
// latest number may write state.
func (s *pricingServiceImpl) fetch(ctx context.Context, coupon *string) (*model.PricingPreview, uint64, error) {
	items := s.cart.Items()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	var method *model.PaymentMethod
	if s.state.PaymentMethod != nil {
		m := *s.state.PaymentMethod
		method = &m
	}
	s.mu.Unlock()

	preview, err := s.checkoutApi.Preview(ctx, model.PreviewRequest{
		CartItems:     model.LineRefs(items),
		CouponCode:    coupon,
		PaymentMethod: method,
	})
	if err != nil {
		slog.Error("pricing preview", "seq", seq, "error", err)
	}
	return preview, seq, err
}

func (s *pricingServiceImpl) settle(seq uint64, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return ErrStalePreview
	}
	apply()
	return nil
}

func (s *pricingServiceImpl) succeed(seq uint64, preview *model.PricingPreview) (PricingState, error) {
	err := s.settle(seq, func() {
		s.state.Preview = preview
		s.state.Error = ""
		s.state.Retryable = false
		s.retryCoupon = nil

		if preview.Coupon != nil {
			code := preview.Coupon.Code
			s.state.AppliedCoupon = &code
			s.state.CouponError = ""
			s.state.CouponMessage = fmt.Sprintf("Coupon %s applied!", code)
		} else {
			s.state.AppliedCoupon = nil
			s.state.CouponMessage = ""
		}
	})
	return s.State(), err
}

// fail records a preview failure. Transient failures keep enough to retry.
func (s *pricingServiceImpl) fail(seq uint64, err error, retryCoupon *string) error {
	serr := s.settle(seq, func() {
		s.state.Preview = nil
		s.state.CouponMessage = ""

		var tErr *client.TransportError
		switch {
		case errors.As(err, &tErr):
			s.state.Error = msgPricingOffline
			s.state.Retryable = true
			s.retryCoupon = retryCoupon
		case client.IsTransient(err):
			s.state.Error = msgPricingServerError
			s.state.Retryable = true
			s.retryCoupon = retryCoupon
		default:
			s.state.Error = client.Detail(err, msgInvalidRequest)
			s.state.Retryable = false
			s.retryCoupon = nil
		}
	})
	if serr != nil {
		return serr
	}
	return err
}

func (s *pricingServiceImpl) clearPreview() PricingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state.Preview = nil
	s.state.Error = ""
	s.state.Retryable = false
	s.retryCoupon = nil
	return s.snapshot()
}

func (s *pricingServiceImpl) snapshot() PricingState {
	state := s.state
	if state.Preview != nil {
		p := *state.Preview
		state.Preview = &p
	}
	state.AppliedCoupon = copyString(state.AppliedCoupon)
	if state.PaymentMethod != nil {
		m := *state.PaymentMethod
		state.PaymentMethod = &m
	}
	return state
}

func suggest(coupon model.Coupon, subtotal decimal.Decimal) CouponSuggestion {
	amount := "₹" + coupon.Value.String()
	if coupon.Type == model.CouponPercentage {
		amount = coupon.Value.String() + "%"
	}

	description := fmt.Sprintf("%s off on orders above ₹%s", amount, coupon.MinOrderAmount.String())
	if coupon.Description != nil && *coupon.Description != "" {
		description = *coupon.Description
	}

	return CouponSuggestion{
		Code:        coupon.Code,
		Label:       amount + " OFF",
		Description: description,
		MinOrder:    coupon.MinOrderAmount,
		Eligible:    subtotal.GreaterThanOrEqual(coupon.MinOrderAmount),
		Remaining:   decimal.Max(decimal.Zero, coupon.MinOrderAmount.Sub(subtotal)),
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
