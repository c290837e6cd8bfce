package service

import (
	"context"
	"fmt"
	"log/slog"
	"spice-storefront/internal/model"
	"strings"
	"time"
)

const couponExpiryLayout = "2006-01-02T15:04:05.000Z07:00"

func (s *adminServiceImpl) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.adminApi.ListCoupons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	if coupons == nil {
		coupons = []model.Coupon{}
	}
	return coupons, nil
}

// SaveCoupon creates the coupon when it has no id and updates it otherwise.
func (s *adminServiceImpl) SaveCoupon(ctx context.Context, coupon model.Coupon) (*model.Coupon, error) {
	payload, err := normalizeCoupon(coupon, time.Now())
	if err != nil {
		return nil, err
	}

	if payload.ID == "" {
		payload.Active = true
		created, err := s.adminApi.CreateCoupon(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("create coupon %s: %w", payload.Code, err)
		}
		slog.Info("coupon created", "code", payload.Code)
		return created, nil
	}

	id := payload.ID
	payload.ID = ""
	updated, err := s.adminApi.UpdateCoupon(ctx, id, payload)
	if err != nil {
		return nil, fmt.Errorf("update coupon %s: %w", payload.Code, err)
	}
	return updated, nil
}

// DeleteCoupon deactivates the coupon, or removes it for good when permanent.
func (s *adminServiceImpl) DeleteCoupon(ctx context.Context, couponID string, permanent, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.adminApi.DeleteCoupon(ctx, couponID, permanent); err != nil {
		return fmt.Errorf("delete coupon %s: %w", couponID, err)
	}
	slog.Info("coupon deleted", "coupon_id", couponID, "permanent", permanent)
	return nil
}

func (s *adminServiceImpl) ToggleCoupon(ctx context.Context, couponID string) (bool, error) {
	active, err := s.adminApi.ToggleCoupon(ctx, couponID)
	if err != nil {
		return false, fmt.Errorf("toggle coupon %s: %w", couponID, err)
	}
	return active, nil
}

func normalizeCoupon(c model.Coupon, now time.Time) (model.Coupon, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	switch {
	case c.Code == "":
		return c, invalid("code", "coupon code is required")
	case len(c.Code) < 3:
		return c, invalid("code", "coupon code must be at least 3 characters")
	}

	if c.Type != model.CouponPercentage && c.Type != model.CouponFlat {
		return c, invalid("type", "coupon type must be percentage or flat")
	}
	if !c.Value.IsPositive() {
		return c, invalid("value", "discount value must be greater than 0")
	}
	if c.Type == model.CouponPercentage && c.Value.GreaterThan(hundred) {
		return c, invalid("value", "percentage discount cannot exceed 100%")
	}
	if c.MinOrderAmount.IsNegative() {
		return c, invalid("min_order_amount", "minimum order amount cannot be negative")
	}

	if strings.TrimSpace(c.ExpiryDate) == "" {
		return c, invalid("expiry_date", "expiry date is required")
	}
	expiry, err := model.ParseExpiry(strings.TrimSpace(c.ExpiryDate))
	if err != nil {
		return c, invalid("expiry_date", "expiry date is not a valid date")
	}
	if !expiry.After(now) {
		return c, invalid("expiry_date", "expiry date must be in the future")
	}
	c.ExpiryDate = expiry.UTC().Format(couponExpiryLayout)

	if c.UsageLimit <= 0 {
		return c, invalid("usage_limit", "total usage limit is required and must be greater than 0")
	}
	if c.PerUserLimit <= 0 {
		return c, invalid("per_user_limit", "per user limit is required and must be greater than 0")
	}

	if c.MaxDiscount != nil && !c.MaxDiscount.IsPositive() {
		c.MaxDiscount = nil
	}
	if c.Description != nil && strings.TrimSpace(*c.Description) == "" {
		c.Description = nil
	}
	c.UsedCount = 0
	c.CreatedAt = ""
	c.UpdatedAt = ""
	return c, nil
}
