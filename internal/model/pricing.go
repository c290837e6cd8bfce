package model

import "github.com/shopspring/decimal"

type PreviewRequest struct {
	CartItems     []LineRef      `json:"cart_items"`
	CouponCode    *string        `json:"coupon_code"`
	PaymentMethod *PaymentMethod `json:"payment_method"`
}

type PreviewLine struct {
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	Image       string          `json:"image,omitempty"`
	MRP         decimal.Decimal `json:"mrp"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	VariantSize string          `json:"variant_size,omitempty"`
}

type PreviewCoupon struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Type     CouponType      `json:"type,omitempty"`
	Value    decimal.Decimal `json:"value"`
}

type Charges struct {
	Shipping decimal.Decimal `json:"shipping"`
	CODFee   decimal.Decimal `json:"cod_fee"`
}

type Discounts struct {
	CouponDiscount  decimal.Decimal `json:"coupon_discount"`
	PrepaidDiscount decimal.Decimal `json:"prepaid_discount"`
	TotalDiscount   decimal.Decimal `json:"total_discount"`
}

type Progress struct {
	RemainingForFreeShipping decimal.Decimal `json:"remaining_for_free_shipping"`
}

// PricingPreview is the server's non-committal computation of order totals.
type PricingPreview struct {
	Items         []PreviewLine   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Coupon        *PreviewCoupon  `json:"coupon"`
	Charges       Charges         `json:"charges"`
	Discounts     Discounts       `json:"discounts"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Progress      Progress        `json:"progress"`
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// WithoutCoupon is the optimistic view shown while a coupon-free preview is in flight.
func (p PricingPreview) WithoutCoupon() PricingPreview {
	p.Coupon = nil
	p.Discount = decimal.Zero
	p.Discounts.CouponDiscount = decimal.Zero
	p.Discounts.TotalDiscount = p.Discounts.PrepaidDiscount
	p.GrandTotal = p.Subtotal.
		Sub(p.Discounts.PrepaidDiscount).
		Add(p.Charges.Shipping).
		Add(p.Charges.CODFee)
	return p
}
