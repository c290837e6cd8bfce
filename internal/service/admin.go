package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"spice-storefront/internal/client"
	"spice-storefront/internal/model"
)

var DashboardPeriods = []string{"day", "week", "month", "year"}

const defaultDashboardPeriod = "month"

type Dashboard struct {
	Period  string             `json:"period"`
	Orders  *model.OrderStats  `json:"orders"`
	Coupons *model.CouponStats `json:"coupons"`
}

// ProductDraft is a new product together with the variants created for it.
type ProductDraft struct {
	Product  model.Product   `json:"product"`
	Variants []model.Variant `json:"variants"`
}

type AdminService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	CreateProduct(ctx context.Context, draft ProductDraft) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, patch model.ProductPatch) (*model.Product, error)
	ToggleProduct(ctx context.Context, productID string) (bool, error)
	ForceDeleteProduct(ctx context.Context, productID string, confirmed bool) error
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)
	// ReplaceProductImage uploads an image and makes it the product's only image.
	ReplaceProductImage(ctx context.Context, productID, filename string, content io.Reader) (*model.Product, error)

	ListVariants(ctx context.Context, productID string) ([]model.Variant, error)
	CreateVariant(ctx context.Context, productID string, variant model.Variant) (*model.Variant, error)
	UpdateVariant(ctx context.Context, variantID string, variant model.Variant) (*model.Variant, error)
	ToggleVariant(ctx context.Context, variantID string) (bool, error)
	ToggleVariantStock(ctx context.Context, variantID string) (bool, error)

	ListCoupons(ctx context.Context) ([]model.Coupon, error)
	SaveCoupon(ctx context.Context, coupon model.Coupon) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID string, permanent, confirmed bool) error
	ToggleCoupon(ctx context.Context, couponID string) (bool, error)

	ListOrders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, update model.OrderStatusUpdate) error

	DeliveryStates(ctx context.Context) ([]string, error)
	SaveDeliveryStates(ctx context.Context, states []string) ([]string, error)
	SearchStates(query string) []State

	Settings(ctx context.Context) (*model.Settings, error)
	Dashboard(ctx context.Context, period string) (*Dashboard, error)
}

type adminServiceImpl struct {
	adminApi    client.AdminAPI
	checkoutApi client.CheckoutAPI
	images      client.ImageUploader
	states      *StateCatalogue
}

func NewAdminService(
	adminApi client.AdminAPI,
	checkoutApi client.CheckoutAPI,
	images client.ImageUploader,
	states *StateCatalogue,
) AdminService {
	return &adminServiceImpl{
		adminApi:    adminApi,
		checkoutApi: checkoutApi,
		images:      images,
		states:      states,
	}
}

func (s *adminServiceImpl) Settings(ctx context.Context) (*model.Settings, error) {
	settings, err := s.checkoutApi.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

func (s *adminServiceImpl) Dashboard(ctx context.Context, period string) (*Dashboard, error) {
	if period == "" {
		period = defaultDashboardPeriod
	}
	if !slices.Contains(DashboardPeriods, period) {
		return nil, invalid("period", fmt.Sprintf("period must be one of %v", DashboardPeriods))
	}

	orders, err := s.adminApi.OrderStats(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}
	coupons, err := s.adminApi.CouponStats(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("coupon stats: %w", err)
	}
	return &Dashboard{Period: period, Orders: orders, Coupons: coupons}, nil
}
