package client

import (
	"context"
	"net/url"
	"spice-storefront/internal/model"
	"strconv"
)

type AdminAPI interface {
	ListAdminProducts(ctx context.Context) ([]model.Product, error)
	GetAdminProduct(ctx context.Context, productID string) (*model.Product, error)
	CreateProduct(ctx context.Context, product model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, patch model.ProductPatch) (*model.Product, error)
	ToggleProduct(ctx context.Context, productID string) (bool, error)
	ForceDeleteProduct(ctx context.Context, productID string) error

	ListVariants(ctx context.Context, productID string) ([]model.Variant, error)
	CreateVariant(ctx context.Context, variant model.Variant) (*model.Variant, error)
	UpdateVariant(ctx context.Context, variantID string, variant model.Variant) (*model.Variant, error)
	ToggleVariant(ctx context.Context, variantID string) (bool, error)
	ToggleVariantStock(ctx context.Context, variantID string) (bool, error)

	ListCoupons(ctx context.Context) ([]model.Coupon, error)
	CreateCoupon(ctx context.Context, coupon model.Coupon) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, couponID string, coupon model.Coupon) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID string, permanent bool) error
	ToggleCoupon(ctx context.Context, couponID string) (bool, error)

	ListAdminOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, update model.OrderStatusUpdate) error
	OrderStats(ctx context.Context, period string) (*model.OrderStats, error)
	CouponStats(ctx context.Context, period string) (*model.CouponStats, error)

	DeliveryStates(ctx context.Context) ([]string, error)
	SaveDeliveryStates(ctx context.Context, states []string) error
}

func (c *backendClientImpl) ListAdminProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.get(ctx, "/admin/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *backendClientImpl) GetAdminProduct(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	if err := c.get(ctx, "/admin/products/"+url.PathEscape(productID), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *backendClientImpl) CreateProduct(ctx context.Context, product model.Product) (*model.Product, error) {
	var created model.Product
	if err := c.post(ctx, "/admin/products", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *backendClientImpl) UpdateProduct(ctx context.Context, productID string, patch model.ProductPatch) (*model.Product, error) {
	var updated model.Product
	if err := c.patch(ctx, "/admin/products/"+url.PathEscape(productID), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *backendClientImpl) ToggleProduct(ctx context.Context, productID string) (bool, error) {
	var res struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.put(ctx, "/admin/products/"+url.PathEscape(productID)+"/toggle", nil, &res); err != nil {
		return false, err
	}
	return res.IsActive, nil
}

func (c *backendClientImpl) ForceDeleteProduct(ctx context.Context, productID string) error {
	return c.delete(ctx, "/admin/products/"+url.PathEscape(productID)+"/force", nil)
}

func (c *backendClientImpl) ListVariants(ctx context.Context, productID string) ([]model.Variant, error) {
	var variants []model.Variant
	query := url.Values{"product_id": {productID}}
	if err := c.get(ctx, "/admin/variants", query, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

func (c *backendClientImpl) CreateVariant(ctx context.Context, variant model.Variant) (*model.Variant, error) {
	var created model.Variant
	if err := c.post(ctx, "/admin/variants", variant, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *backendClientImpl) UpdateVariant(ctx context.Context, variantID string, variant model.Variant) (*model.Variant, error) {
	var updated model.Variant
	if err := c.put(ctx, "/admin/variants/"+url.PathEscape(variantID), variant, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *backendClientImpl) ToggleVariant(ctx context.Context, variantID string) (bool, error) {
	var res struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.put(ctx, "/admin/variants/"+url.PathEscape(variantID)+"/toggle", nil, &res); err != nil {
		return false, err
	}
	return res.IsActive, nil
}

func (c *backendClientImpl) ToggleVariantStock(ctx context.Context, variantID string) (bool, error) {
	var res struct {
		InStock bool `json:"in_stock"`
	}
	if err := c.put(ctx, "/admin/products/variants/"+url.PathEscape(variantID)+"/stock", nil, &res); err != nil {
		return false, err
	}
	return res.InStock, nil
}

func (c *backendClientImpl) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon
	if err := c.get(ctx, "/coupons/admin", nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

func (c *backendClientImpl) CreateCoupon(ctx context.Context, coupon model.Coupon) (*model.Coupon, error) {
	var created model.Coupon
	if err := c.post(ctx, "/coupons/admin", coupon, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *backendClientImpl) UpdateCoupon(ctx context.Context, couponID string, coupon model.Coupon) (*model.Coupon, error) {
	var updated model.Coupon
	if err := c.put(ctx, "/coupons/admin/"+url.PathEscape(couponID), coupon, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *backendClientImpl) DeleteCoupon(ctx context.Context, couponID string, permanent bool) error {
	query := url.Values{"permanent": {strconv.FormatBool(permanent)}}
	return c.delete(ctx, "/coupons/admin/"+url.PathEscape(couponID), query)
}

func (c *backendClientImpl) ToggleCoupon(ctx context.Context, couponID string) (bool, error) {
	var res struct {
		Active bool `json:"active"`
	}
	if err := c.put(ctx, "/coupons/admin/"+url.PathEscape(couponID)+"/toggle", nil, &res); err != nil {
		return false, err
	}
	return res.Active, nil
}

func (c *backendClientImpl) ListAdminOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query.Set("payment_status", filter.PaymentStatus)
	}

	var res struct {
		Orders []model.Order `json:"orders"`
	}
	if err := c.get(ctx, "/admin/orders", query, &res); err != nil {
		return nil, err
	}
	return res.Orders, nil
}

func (c *backendClientImpl) UpdateOrderStatus(ctx context.Context, orderID string, update model.OrderStatusUpdate) error {
	return c.patch(ctx, "/admin/orders/"+url.PathEscape(orderID), update, nil)
}

func (c *backendClientImpl) OrderStats(ctx context.Context, period string) (*model.OrderStats, error) {
	var stats model.OrderStats
	if err := c.get(ctx, "/orders/admin/stats", url.Values{"period": {period}}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *backendClientImpl) CouponStats(ctx context.Context, period string) (*model.CouponStats, error) {
	var stats model.CouponStats
	if err := c.get(ctx, "/orders/admin/coupon-stats", url.Values{"period": {period}}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *backendClientImpl) DeliveryStates(ctx context.Context) ([]string, error) {
	var res model.DeliveryStates
	if err := c.get(ctx, "/admin/delivery/states", nil, &res); err != nil {
		return nil, err
	}
	return res.EnabledStates, nil
}

func (c *backendClientImpl) SaveDeliveryStates(ctx context.Context, states []string) error {
	return c.put(ctx, "/admin/delivery/states", model.DeliveryStates{EnabledStates: states}, nil)
}
