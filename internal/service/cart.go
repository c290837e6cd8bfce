package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"spice-storefront/internal/client"
	"spice-storefront/internal/model"
	"sync"

	"github.com/shopspring/decimal"
)

type CartService interface {
	Load(ctx context.Context) error
	Add(ctx context.Context, variantID, productID string, quantity int) error
	Remove(ctx context.Context, variantID string) error
	// UpdateQuantity removes the line when quantity drops below one.
	UpdateQuantity(ctx context.Context, variantID, productID string, quantity int) error
	Clear(ctx context.Context) error
	// Validate drops lines the backend no longer sells and returns their variant ids.
	Validate(ctx context.Context) []string

	Snapshot() model.Cart
	Items() []model.CartItem
}

type cartServiceImpl struct {
	cartApi client.CartAPI
	session SessionService
	bus     *Bus

	mu    sync.RWMutex
	items []model.CartItem
	total decimal.Decimal
}

func NewCartService(cartApi client.CartAPI, session SessionService, bus *Bus) CartService {
	s := &cartServiceImpl{
		cartApi: cartApi,
		session: session,
		bus:     bus,
	}

	bus.Subscribe(EventLogin, func(ctx context.Context, _ EventKind) {
		if err := s.Load(ctx); err != nil {
			slog.Error("load cart after login", "error", err)
		}
	})
	bus.Subscribe(EventLogout, func(ctx context.Context, _ EventKind) {
		s.reset(ctx)
	})
	return s
}

func (s *cartServiceImpl) Load(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		s.reset(ctx)
		return nil
	}

	cart, err := s.cartApi.GetCart(ctx)
	if err != nil {
		return fmt.Errorf("fetch cart: %w", err)
	}

	s.mu.Lock()
	s.items = slices.Clone(cart.Items)
	s.total = cartTotal(cart)
	s.mu.Unlock()

	s.bus.Publish(ctx, EventCartChanged)
	return nil
}

func (s *cartServiceImpl) Add(ctx context.Context, variantID, productID string, quantity int) error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if variantID == "" {
		return invalid("variant_id", "variant is required")
	}
	if quantity < 1 {
		return invalid("quantity", "quantity must be at least 1")
	}

	if err := s.cartApi.AddCartItem(ctx, variantID, productID, quantity); err != nil {
		slog.Error("add to cart", "variant_id", variantID, "error", err)
		return err
	}
	return s.Load(ctx)
}

func (s *cartServiceImpl) Remove(ctx context.Context, variantID string) error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := s.cartApi.RemoveCartItem(ctx, variantID); err != nil {
		slog.Error("remove from cart", "variant_id", variantID, "error", err)
		return err
	}
	return s.Load(ctx)
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, variantID, productID string, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, variantID)
	}
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := s.cartApi.UpdateCartItem(ctx, variantID, productID, quantity); err != nil {
		slog.Error("update cart quantity", "variant_id", variantID, "error", err)
		return err
	}
	return s.Load(ctx)
}

func (s *cartServiceImpl) Clear(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		s.reset(ctx)
		return nil
	}
	if err := s.cartApi.ClearCart(ctx); err != nil {
		slog.Error("clear cart", "error", err)
		return err
	}
	s.reset(ctx)
	return nil
}

func (s *cartServiceImpl) Validate(ctx context.Context) []string {
	items := s.Items()
	if len(items) == 0 {
		return nil
	}

	invalidItems, err := s.cartApi.ValidateCart(ctx, model.LineRefs(items))
	if err != nil {
		slog.Warn("validate cart", "error", err)
		return nil
	}

	var removed []string
	for _, item := range invalidItems {
		if err := s.cartApi.RemoveCartItem(ctx, item.VariantID); err != nil {
			slog.Warn("drop invalid cart item", "variant_id", item.VariantID, "error", err)
			continue
		}
		removed = append(removed, item.VariantID)
	}

	if len(removed) > 0 {
		if err := s.Load(ctx); err != nil {
			slog.Warn("reload cart after validation", "error", err)
		}
	}
	return removed
}

func (s *cartServiceImpl) Snapshot() model.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := slices.Clone(s.items)
	if items == nil {
		items = []model.CartItem{}
	}
	return model.Cart{Items: items, Total: s.total}
}

func (s *cartServiceImpl) Items() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *cartServiceImpl) reset(ctx context.Context) {
	s.mu.Lock()
	changed := len(s.items) > 0
	s.items = nil
	s.total = decimal.Zero
	s.mu.Unlock()

	if changed {
		s.bus.Publish(ctx, EventCartChanged)
	}
}

// cartTotal prefers the backend's figure and falls back to summing the lines.
func cartTotal(cart *model.Cart) decimal.Decimal {
	if !cart.Total.IsZero() || len(cart.Items) == 0 {
		return cart.Total
	}
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
