package service

import (
	"context"
	"fmt"
	"spice-storefront/internal/client"
	"spice-storefront/internal/model"
	"strings"
)

type CatalogService interface {
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	Get(ctx context.Context, slug string) (*model.Product, error)
}

type catalogServiceImpl struct {
	catalogApi client.CatalogAPI
}

func NewCatalogService(catalogApi client.CatalogAPI) CatalogService {
	return &catalogServiceImpl{catalogApi: catalogApi}
}

func (s *catalogServiceImpl) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if strings.EqualFold(filter.Category, "all") {
		filter.Category = ""
	}

	products, err := s.catalogApi.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (s *catalogServiceImpl) Get(ctx context.Context, slug string) (*model.Product, error) {
	if slug == "" {
		return nil, invalid("slug", "product slug is required")
	}
	product, err := s.catalogApi.GetProduct(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", slug, err)
	}
	return product, nil
}
