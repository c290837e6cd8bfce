package model

import "github.com/shopspring/decimal"

type Variant struct {
	ID              string          `json:"id,omitempty"`
	ProductID       string          `json:"product_id,omitempty"`
	Size            string          `json:"size"`
	MRP             decimal.Decimal `json:"mrp"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	SKU             string          `json:"sku"`
	InStock         bool            `json:"in_stock"`
	IsActive        bool            `json:"is_active"`
}

type Product struct {
	ID              string    `json:"id,omitempty"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	NutritionalInfo string    `json:"nutritional_info,omitempty"`
	Benefits        []string  `json:"benefits"`
	ImageURLs       []string  `json:"image_urls"`
	IsActive        bool      `json:"is_active"`
	Variants        []Variant `json:"variants,omitempty"`
	CreatedAt       string    `json:"created_at,omitempty"`
	UpdatedAt       string    `json:"updated_at,omitempty"`
}

type ProductFilter struct {
	Category string
	Search   string
}

// ProductPatch carries only the fields an edit screen may change.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}
