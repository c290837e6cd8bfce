package client

import (
	"context"
	"net/url"
	"spice-storefront/internal/model"
)

type CartAPI interface {
	GetCart(ctx context.Context) (*model.Cart, error)
	AddCartItem(ctx context.Context, variantID, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, variantID string) error
	UpdateCartItem(ctx context.Context, variantID, productID string, quantity int) error
	ClearCart(ctx context.Context) error
	ValidateCart(ctx context.Context, items []model.LineRef) ([]model.InvalidCartItem, error)
}

type cartLineRequest struct {
	VariantID string `json:"variant_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (c *backendClientImpl) GetCart(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := c.get(ctx, "/cart/", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *backendClientImpl) AddCartItem(ctx context.Context, variantID, productID string, quantity int) error {
	return c.post(ctx, "/cart/add", cartLineRequest{
		VariantID: variantID,
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}

func (c *backendClientImpl) RemoveCartItem(ctx context.Context, variantID string) error {
	return c.delete(ctx, "/cart/remove/"+url.PathEscape(variantID), nil)
}

func (c *backendClientImpl) UpdateCartItem(ctx context.Context, variantID, productID string, quantity int) error {
	return c.put(ctx, "/cart/update", cartLineRequest{
		VariantID: variantID,
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}

func (c *backendClientImpl) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart/", nil)
}

func (c *backendClientImpl) ValidateCart(ctx context.Context, items []model.LineRef) ([]model.InvalidCartItem, error) {
	var res struct {
		InvalidItems []model.InvalidCartItem `json:"invalid_items"`
	}
	err := c.post(ctx, "/cart/validate", map[string]any{"items": items}, &res)
	if err != nil {
		return nil, err
	}
	return res.InvalidItems, nil
}
