package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"spice-storefront/internal/model"
	"strings"

	"github.com/shopspring/decimal"
)

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

var hundred = decimal.NewFromInt(100)

func (s *adminServiceImpl) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.adminApi.ListAdminProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (s *adminServiceImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.adminApi.GetAdminProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	variants, err := s.adminApi.ListVariants(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants of %s: %w", productID, err)
	}
	product.Variants = variants
	return product, nil
}

// CreateProduct checks the whole draft before anything is written, then
// creates the product and each of its variants.
func (s *adminServiceImpl) CreateProduct(ctx context.Context, draft ProductDraft) (*model.Product, error) {
	product := draft.Product
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	if product.Name == "" || product.Category == "" {
		return nil, invalid("product", "name and category are required")
	}
	if len(draft.Variants) == 0 {
		return nil, invalid("variants", "add at least one variant")
	}

	variants := make([]model.Variant, len(draft.Variants))
	for i, v := range draft.Variants {
		priced, err := priceVariant(v)
		if err != nil {
			return nil, err
		}
		variants[i] = priced
	}

	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}
	product.Variants = nil

	created, err := s.adminApi.CreateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	for _, v := range variants {
		v.ProductID = created.ID
		variant, err := s.adminApi.CreateVariant(ctx, v)
		if err != nil {
			slog.Error("create variant", "product_id", created.ID, "sku", v.SKU, "error", err)
			return created, fmt.Errorf("create variant %s: %w", v.SKU, err)
		}
		created.Variants = append(created.Variants, *variant)
	}
	return created, nil
}

func (s *adminServiceImpl) UpdateProduct(ctx context.Context, productID string, patch model.ProductPatch) (*model.Product, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalid("name", "name cannot be empty")
	}
	product, err := s.adminApi.UpdateProduct(ctx, productID, patch)
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", productID, err)
	}
	return product, nil
}

func (s *adminServiceImpl) ToggleProduct(ctx context.Context, productID string) (bool, error) {
	active, err := s.adminApi.ToggleProduct(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("toggle product %s: %w", productID, err)
	}
	return active, nil
}

func (s *adminServiceImpl) ForceDeleteProduct(ctx context.Context, productID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.adminApi.ForceDeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("delete product %s: %w", productID, err)
	}
	slog.Info("product permanently deleted", "product_id", productID)
	return nil
}

func (s *adminServiceImpl) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	url, err := s.images.Upload(ctx, filename, content)
	if err != nil {
		slog.Error("image upload", "filename", filename, "error", err)
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

func (s *adminServiceImpl) ReplaceProductImage(ctx context.Context, productID, filename string, content io.Reader) (*model.Product, error) {
	url, err := s.UploadImage(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	return s.UpdateProduct(ctx, productID, model.ProductPatch{ImageURLs: []string{url}})
}

func (s *adminServiceImpl) ListVariants(ctx context.Context, productID string) ([]model.Variant, error) {
	variants, err := s.adminApi.ListVariants(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants of %s: %w", productID, err)
	}
	if variants == nil {
		variants = []model.Variant{}
	}
	return variants, nil
}

func (s *adminServiceImpl) CreateVariant(ctx context.Context, productID string, variant model.Variant) (*model.Variant, error) {
	priced, err := priceVariant(variant)
	if err != nil {
		return nil, err
	}
	priced.ProductID = productID

	created, err := s.adminApi.CreateVariant(ctx, priced)
	if err != nil {
		return nil, fmt.Errorf("create variant %s: %w", priced.SKU, err)
	}
	return created, nil
}

func (s *adminServiceImpl) UpdateVariant(ctx context.Context, variantID string, variant model.Variant) (*model.Variant, error) {
	priced, err := priceVariant(variant)
	if err != nil {
		return nil, err
	}

	updated, err := s.adminApi.UpdateVariant(ctx, variantID, priced)
	if err != nil {
		return nil, fmt.Errorf("update variant %s: %w", variantID, err)
	}
	return updated, nil
}

func (s *adminServiceImpl) ToggleVariant(ctx context.Context, variantID string) (bool, error) {
	active, err := s.adminApi.ToggleVariant(ctx, variantID)
	if err != nil {
		return false, fmt.Errorf("toggle variant %s: %w", variantID, err)
	}
	return active, nil
}

func (s *adminServiceImpl) ToggleVariantStock(ctx context.Context, variantID string) (bool, error) {
	inStock, err := s.adminApi.ToggleVariantStock(ctx, variantID)
	if err != nil {
		return false, fmt.Errorf("toggle stock of variant %s: %w", variantID, err)
	}
	return inStock, nil
}

// Slugify lower-cases name and joins its alphanumeric runs with hyphens.
func Slugify(name string) string {
	slug := slugSeparator.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}

// SellingPrice is MRP less the discount percentage, rounded to paise.
func SellingPrice(mrp, discountPercent decimal.Decimal) decimal.Decimal {
	return mrp.Sub(mrp.Mul(discountPercent).Div(hundred)).Round(2)
}

func priceVariant(v model.Variant) (model.Variant, error) {
	v.Size = strings.TrimSpace(v.Size)
	v.SKU = strings.TrimSpace(v.SKU)
	if v.Size == "" || v.SKU == "" || !v.MRP.IsPositive() {
		return v, invalid("variants", "each variant must have size, MRP, SKU")
	}
	if v.DiscountPercent.IsNegative() || v.DiscountPercent.GreaterThan(hundred) {
		return v, invalid("discount_percent", "discount must be between 0 and 100")
	}
	v.SellingPrice = SellingPrice(v.MRP, v.DiscountPercent)
	return v, nil
}
