package client

import (
	"context"
	"net/url"
	"spice-storefront/internal/model"
)

type CatalogAPI interface {
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, slug string) (*model.Product, error)
}

func (c *backendClientImpl) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var products []model.Product
	if err := c.get(ctx, "/products", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *backendClientImpl) GetProduct(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if err := c.get(ctx, "/products/"+url.PathEscape(slug), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
