package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFlat       CouponType = "flat"
)

type Coupon struct {
	ID             string           `json:"id,omitempty"`
	Code           string           `json:"code"`
	Type           CouponType       `json:"type"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount"`
	ExpiryDate     string           `json:"expiry_date"`
	UsageLimit     int              `json:"usage_limit"`
	PerUserLimit   int              `json:"per_user_limit"`
	UsedCount      int              `json:"used_count,omitempty"`
	Active         bool             `json:"active"`
	Description    *string          `json:"description"`
	CreatedAt      string           `json:"created_at,omitempty"`
	UpdatedAt      string           `json:"updated_at,omitempty"`
}

var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseExpiry accepts the ISO shapes the backend and admin forms produce.
// Values without a zone are read as UTC.
func ParseExpiry(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range expiryLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func (c Coupon) Expired(now time.Time) bool {
	expiry, err := ParseExpiry(c.ExpiryDate)
	if err != nil {
		return false
	}
	return !expiry.After(now)
}

type CouponValidation struct {
	Valid      bool            `json:"valid"`
	Discount   decimal.Decimal `json:"discount"`
	Message    string          `json:"message"`
	CouponCode *string         `json:"coupon_code,omitempty"`
}

type CouponStats struct {
	Period            string          `json:"period"`
	TotalCoupons      int             `json:"total_coupons"`
	ActiveCoupons     int             `json:"active_coupons"`
	TotalUses         int             `json:"total_uses"`
	TotalDiscount     decimal.Decimal `json:"total_discount"`
	UsageGrowth       float64         `json:"usage_growth"`
	AvgDiscountPerUse decimal.Decimal `json:"avg_discount_per_use"`
	PopularCoupons    []CouponUsage   `json:"popular_coupons"`
}

type CouponUsage struct {
	Code        string          `json:"code"`
	Uses        int             `json:"uses"`
	Discount    decimal.Decimal `json:"discount"`
	UniqueUsers int             `json:"unique_users"`
}
