package client

import (
	"context"
	"spice-storefront/internal/model"

	"github.com/shopspring/decimal"
)

type CheckoutAPI interface {
	Preview(ctx context.Context, req model.PreviewRequest) (*model.PricingPreview, error)
	ActiveCoupons(ctx context.Context) ([]model.Coupon, error)
	ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*model.CouponValidation, error)
	Settings(ctx context.Context) (*model.Settings, error)
}

func (c *backendClientImpl) Preview(ctx context.Context, req model.PreviewRequest) (*model.PricingPreview, error) {
	var preview model.PricingPreview
	if err := c.post(ctx, "/checkout/preview", req, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

func (c *backendClientImpl) ActiveCoupons(ctx context.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon
	if err := c.get(ctx, "/coupons/active", nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (c *backendClientImpl) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*model.CouponValidation, error) {
	var res model.CouponValidation
	err := c.post(ctx, "/coupons/validate", map[string]any{
		"code":          code,
		"cart_subtotal": subtotal,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *backendClientImpl) Settings(ctx context.Context) (*model.Settings, error) {
	var settings model.Settings
	if err := c.get(ctx, "/admin/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
