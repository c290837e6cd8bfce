package model

import "github.com/shopspring/decimal"

type CartItem struct {
	VariantID   string          `json:"variant_id"`
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	ProductName string          `json:"product_name"`
	VariantSize string          `json:"variant_size,omitempty"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	MRP         decimal.Decimal `json:"mrp"`
}

// DiscountPercent is the whole-number saving against MRP shown next to the line.
func (i CartItem) DiscountPercent() int64 {
	if !i.MRP.GreaterThan(i.Price) || i.MRP.IsZero() {
		return 0
	}
	return i.MRP.Sub(i.Price).Div(i.MRP).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type Cart struct {
	Items      []CartItem      `json:"items"`
	Total      decimal.Decimal `json:"total"`
	CouponCode *string         `json:"coupon_code,omitempty"`
}

// LineRef is the variant/quantity pair the backend needs for previews and validation.
type LineRef struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func LineRefs(items []CartItem) []LineRef {
	refs := make([]LineRef, len(items))
	for i, item := range items {
		refs[i] = LineRef{VariantID: item.VariantID, Quantity: item.Quantity}
	}
	return refs
}

type InvalidCartItem struct {
	VariantID string `json:"variant_id"`
	Reason    string `json:"reason,omitempty"`
}
